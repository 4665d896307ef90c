package models

import (
	"time"

	"github.com/google/uuid"
)

// Gender is the catalog category a product belongs to.
type Gender string

const (
	GenderMen   Gender = "men"
	GenderWomen Gender = "women"
)

// Valid reports whether g is a known catalog category.
func (g Gender) Valid() bool {
	return g == GenderMen || g == GenderWomen
}

// Product is the GORM model persisted in Postgres.
// WholesalePrice is a privileged field; it must never leave the service
// layer for non-admin callers (see ProductView).
type Product struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title          string    `gorm:"type:varchar(256);not null" json:"title"`
	Description    *string   `gorm:"type:text" json:"description,omitempty"`
	Gender         Gender    `gorm:"type:varchar(10);not null;index" json:"gender"`
	RetailPrice    float64   `gorm:"not null" json:"retail_price"`
	WholesalePrice float64   `gorm:"not null;default:0" json:"wholesale_price"`
	ImageURL       *string   `gorm:"type:varchar(1024)" json:"image_url,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ProductView is the outward shape of a product. WholesalePrice is nil
// unless the caller is privileged; stripping happens when the view is
// built, not in any rendering layer.
type ProductView struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description,omitempty"`
	Gender         Gender    `json:"gender"`
	RetailPrice    float64   `json:"retail_price"`
	WholesalePrice *float64  `json:"wholesale_price,omitempty"`
	ImageURL       *string   `json:"image_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// View converts a product to its outward shape. The wholesale price is
// included only for privileged callers.
func (p *Product) View(privileged bool) ProductView {
	v := ProductView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Gender:      p.Gender,
		RetailPrice: p.RetailPrice,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
	}
	if privileged {
		wp := p.WholesalePrice
		v.WholesalePrice = &wp
	}
	return v
}

// CreateProductRequest is the payload for creating a product.
type CreateProductRequest struct {
	Title          string  `json:"title" binding:"required,min=1,max=256"`
	Description    *string `json:"description"`
	Gender         Gender  `json:"gender" binding:"required,oneof=men women"`
	RetailPrice    float64 `json:"retail_price" binding:"required,gt=0"`
	WholesalePrice float64 `json:"wholesale_price" binding:"gte=0"`
	ImageURL       *string `json:"image_url"`
}

// UpdateProductRequest is the payload for editing a product. Pointer
// fields distinguish "not sent" from zero values.
type UpdateProductRequest struct {
	Title          *string  `json:"title" binding:"omitempty,min=1,max=256"`
	Description    *string  `json:"description"`
	Gender         *Gender  `json:"gender" binding:"omitempty,oneof=men women"`
	RetailPrice    *float64 `json:"retail_price" binding:"omitempty,gt=0"`
	WholesalePrice *float64 `json:"wholesale_price" binding:"omitempty,gte=0"`
	ImageURL       *string  `json:"image_url"`
}
