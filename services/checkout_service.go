package services

import (
	"context"
	"errors"

	"storefront-service/models"
	"storefront-service/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CheckoutService settles a cart: snapshot, notify, clear. The cart is
// never cleared unless the notification step was observed to succeed,
// and clearing an already-empty cart is a safe no-op — the notification
// collaborator may have cleared the rows server-side first.
type CheckoutService interface {
	Checkout(ctx context.Context, userID string) (*models.CheckoutResult, *ServiceError)
}

type checkoutServiceImpl struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	notifier CheckoutNotifier
	logger   *zap.Logger
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	notifier CheckoutNotifier,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		carts:    carts,
		products: products,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *checkoutServiceImpl) Checkout(ctx context.Context, userID string) (*models.CheckoutResult, *ServiceError) {
	// Snapshot.
	items, err := s.carts.FindAllForUser(ctx, userID)
	if err != nil {
		s.logger.Error("Checkout snapshot failed", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to read cart"}
	}

	payload := &models.CheckoutPayload{UserID: userID, CartItems: []models.CheckoutItem{}}
	for _, item := range items {
		product, perr := s.products.FindByID(ctx, item.ProductID)
		if perr != nil {
			// Lines whose product vanished are excluded from the order
			// rather than failing the whole checkout. Anything else is a
			// store failure; the attempt aborts with the cart untouched.
			if errors.Is(perr, gorm.ErrRecordNotFound) {
				s.logger.Warn("Skipping deleted product at checkout",
					zap.String("product_id", item.ProductID.String()),
				)
				continue
			}
			s.logger.Error("Checkout snapshot failed to resolve product",
				zap.String("product_id", item.ProductID.String()),
				zap.Error(perr),
			)
			return nil, &ServiceError{StatusCode: 500, Message: "Failed to read cart"}
		}
		linePrice := float64(item.Quantity) * product.RetailPrice
		payload.CartItems = append(payload.CartItems, models.CheckoutItem{
			ProductTitle: product.Title,
			Quantity:     item.Quantity,
			Price:        linePrice,
		})
		payload.TotalPrice += linePrice
	}

	// Empty cart: no notification, no state change.
	if len(payload.CartItems) == 0 {
		return &models.CheckoutResult{Placed: false}, nil
	}

	// Notify. Any failure here is terminal for this attempt; the cart
	// stays exactly as it was.
	resp, nerr := s.notifier.Notify(ctx, payload)
	if nerr != nil {
		s.logger.Error("Checkout notification failed", zap.String("user_id", userID), zap.Error(nerr))
		if errors.Is(nerr, ErrNotConfigured) {
			return nil, &ServiceError{StatusCode: 422, Message: nerr.Error()}
		}
		return nil, &ServiceError{StatusCode: 502, Message: "Checkout notification failed, your cart is unchanged"}
	}

	// Clear, only after observed success. The collaborator may already
	// have deleted the rows; DeleteAllForUser on an empty cart succeeds.
	if cerr := s.carts.DeleteAllForUser(ctx, userID); cerr != nil {
		// Order notified but cart not cleared. Surfaced rather than
		// retried; re-invoking checkout after the user verifies order
		// status is the recovery path.
		s.logger.Error("Cart clear failed after successful notification",
			zap.String("user_id", userID),
			zap.String("email_id", resp.EmailID),
			zap.Error(cerr),
		)
		return nil, &ServiceError{
			StatusCode: 500,
			Message:    "Order was placed (email " + resp.EmailID + ") but the cart could not be cleared",
		}
	}

	s.logger.Info("Checkout settled",
		zap.String("user_id", userID),
		zap.String("email_id", resp.EmailID),
		zap.Float64("total", payload.TotalPrice),
		zap.Int("lines", len(payload.CartItems)),
	)

	return &models.CheckoutResult{
		Placed:  true,
		EmailID: resp.EmailID,
		Total:   payload.TotalPrice,
	}, nil
}
