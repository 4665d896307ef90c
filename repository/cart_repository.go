package repository

import (
	"context"
	"errors"

	"storefront-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrQuantityConflict is returned when a conditional quantity update
// loses a race: the row's quantity no longer matches the value the
// caller read. The operation is attempt-once; callers surface the
// conflict instead of retrying.
var ErrQuantityConflict = errors.New("cart quantity changed concurrently")

// CartRepository defines the cart's store boundary. Quantity updates are
// compare-and-swap on the expected value so that concurrent sessions
// cannot silently overwrite each other.
type CartRepository interface {
	FindLine(ctx context.Context, userID string, productID uuid.UUID) (*models.CartItem, error)
	FindByID(ctx context.Context, lineID uuid.UUID) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	// UpdateQuantity sets the quantity only if the row still holds
	// expected; otherwise ErrQuantityConflict.
	UpdateQuantity(ctx context.Context, lineID uuid.UUID, expected, next int) error
	Delete(ctx context.Context, lineID uuid.UUID) error
	FindAllForUser(ctx context.Context, userID string) ([]models.CartItem, error)
	// DeleteAllForUser clears a user's cart. Deleting an already-empty
	// cart succeeds; the settle step relies on that.
	DeleteAllForUser(ctx context.Context, userID string) error
}

// GormCartRepository implements CartRepository using GORM.
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository.
func NewGormCartRepository(db *gorm.DB) CartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) FindLine(ctx context.Context, userID string, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormCartRepository) FindByID(ctx context.Context, lineID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", lineID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormCartRepository) Create(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormCartRepository) UpdateQuantity(ctx context.Context, lineID uuid.UUID, expected, next int) error {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND quantity = ?", lineID, expected).
		Update("quantity", next)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either the line is gone or someone changed the quantity first.
		var exists int64
		r.db.WithContext(ctx).Model(&models.CartItem{}).Where("id = ?", lineID).Count(&exists)
		if exists == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrQuantityConflict
	}
	return nil
}

func (r *GormCartRepository) Delete(ctx context.Context, lineID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", lineID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormCartRepository) FindAllForUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormCartRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}
