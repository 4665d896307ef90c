package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one row of a user's cart: the chosen quantity of one
// product. The composite unique index backs the invariant that a
// (user, product) pair never has more than one row.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CartLine is a cart row joined with its product for reads. Product is
// nil and Unavailable true when the product has been deleted from the
// catalog since the line was added; such lines price at zero.
type CartLine struct {
	ID          uuid.UUID    `json:"id"`
	ProductID   uuid.UUID    `json:"product_id"`
	Quantity    int          `json:"quantity"`
	Product     *ProductView `json:"product,omitempty"`
	Unavailable bool         `json:"unavailable,omitempty"`
}

// LinePrice is quantity times the product's retail price, zero when the
// product is unresolved.
func (l CartLine) LinePrice() float64 {
	if l.Product == nil {
		return 0
	}
	return float64(l.Quantity) * l.Product.RetailPrice
}

// CartSummary carries the derived cart totals.
type CartSummary struct {
	TotalItems int     `json:"total_items"`
	TotalPrice float64 `json:"total_price"`
}

// Summarize computes totals over a set of cart lines. An empty cart is
// exactly zero; unresolved products contribute zero price but still
// count toward the item total.
func Summarize(lines []CartLine) CartSummary {
	var s CartSummary
	for _, l := range lines {
		s.TotalItems += l.Quantity
		s.TotalPrice += l.LinePrice()
	}
	return s
}

// AddToCartRequest is the payload for adding one unit of a product.
type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}
