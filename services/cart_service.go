package services

import (
	"context"
	"errors"

	"storefront-service/models"
	"storefront-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CartService reconciles cart mutations against existing rows so a
// (user, product) pair never holds more than one line.
type CartService interface {
	// AddOne creates a quantity-1 line on first add and increments the
	// existing line on repeat adds.
	AddOne(ctx context.Context, userID string, productID uuid.UUID) (*models.CartItem, *ServiceError)
	// DecrementOne lowers the quantity by one, deleting the line when it
	// would reach zero.
	DecrementOne(ctx context.Context, userID string, lineID uuid.UUID) *ServiceError
	// RemoveAll deletes the line regardless of quantity.
	RemoveAll(ctx context.Context, userID string, lineID uuid.UUID) *ServiceError
	// ListForUser returns the cart joined with products plus derived
	// totals. Lines whose product vanished are flagged, never dropped.
	ListForUser(ctx context.Context, userID string) ([]models.CartLine, models.CartSummary, *ServiceError)
}

type cartServiceImpl struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{carts: carts, products: products, logger: logger}
}

func (s *cartServiceImpl) AddOne(ctx context.Context, userID string, productID uuid.UUID) (*models.CartItem, *ServiceError) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to resolve product for add", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to add to cart"}
	}

	line, err := s.carts.FindLine(ctx, userID, productID)
	switch {
	case err == nil:
		// Existing line: compare-and-swap increment. A concurrent change
		// surfaces as a conflict; the user retries from fresh state.
		if casErr := s.carts.UpdateQuantity(ctx, line.ID, line.Quantity, line.Quantity+1); casErr != nil {
			return nil, s.quantityError(casErr, "Failed to update cart")
		}
		line.Quantity++
		return line, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{UserID: userID, ProductID: productID, Quantity: 1}
		if createErr := s.carts.Create(ctx, item); createErr != nil {
			// A concurrent first-add hits the (user, product) unique
			// index; report it as the same conflict.
			s.logger.Warn("Cart insert failed", zap.String("user_id", userID), zap.Error(createErr))
			return nil, &ServiceError{StatusCode: 409, Message: "Cart changed concurrently, please retry"}
		}
		return item, nil

	default:
		s.logger.Error("Failed to look up cart line", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to add to cart"}
	}
}

func (s *cartServiceImpl) DecrementOne(ctx context.Context, userID string, lineID uuid.UUID) *ServiceError {
	line, se := s.ownedLine(ctx, userID, lineID)
	if se != nil {
		return se
	}

	if line.Quantity > 1 {
		if err := s.carts.UpdateQuantity(ctx, line.ID, line.Quantity, line.Quantity-1); err != nil {
			return s.quantityError(err, "Failed to update cart")
		}
		return nil
	}

	// Quantity 1: decrement deletes the line entirely.
	if err := s.carts.Delete(ctx, line.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Cart item not found"}
		}
		s.logger.Error("Failed to remove cart line", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to remove item"}
	}
	return nil
}

func (s *cartServiceImpl) RemoveAll(ctx context.Context, userID string, lineID uuid.UUID) *ServiceError {
	if _, se := s.ownedLine(ctx, userID, lineID); se != nil {
		return se
	}

	if err := s.carts.Delete(ctx, lineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Cart item not found"}
		}
		s.logger.Error("Failed to remove cart line", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to remove item"}
	}
	return nil
}

func (s *cartServiceImpl) ListForUser(ctx context.Context, userID string) ([]models.CartLine, models.CartSummary, *ServiceError) {
	items, err := s.carts.FindAllForUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to fetch cart", zap.String("user_id", userID), zap.Error(err))
		return nil, models.CartSummary{}, &ServiceError{StatusCode: 500, Message: "Failed to fetch cart"}
	}

	lines := make([]models.CartLine, 0, len(items))
	for _, item := range items {
		line := models.CartLine{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}

		product, perr := s.products.FindByID(ctx, item.ProductID)
		switch {
		case perr == nil:
			view := product.View(false)
			line.Product = &view
		case errors.Is(perr, gorm.ErrRecordNotFound):
			// Product removed from the catalog after it was added to the
			// cart. Flag the line; it prices at zero.
			line.Unavailable = true
		default:
			s.logger.Error("Failed to resolve cart product", zap.String("product_id", item.ProductID.String()), zap.Error(perr))
			line.Unavailable = true
		}

		lines = append(lines, line)
	}

	return lines, models.Summarize(lines), nil
}

func (s *cartServiceImpl) ownedLine(ctx context.Context, userID string, lineID uuid.UUID) (*models.CartItem, *ServiceError) {
	line, err := s.carts.FindByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Cart item not found"}
		}
		s.logger.Error("Failed to fetch cart line", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch cart"}
	}
	if line.UserID != userID {
		// Do not leak the line's existence to other users.
		return nil, &ServiceError{StatusCode: 404, Message: "Cart item not found"}
	}
	return line, nil
}

func (s *cartServiceImpl) quantityError(err error, fallback string) *ServiceError {
	switch {
	case errors.Is(err, repository.ErrQuantityConflict):
		return &ServiceError{StatusCode: 409, Message: "Cart changed concurrently, please retry"}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &ServiceError{StatusCode: 404, Message: "Cart item not found"}
	default:
		s.logger.Error("Cart quantity update failed", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: fallback}
	}
}
