package services_test

import (
	"context"
	"errors"
	"testing"

	"storefront-service/models"
	"storefront-service/services"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type mockNotifier struct {
	calls    []*models.CheckoutPayload
	response *models.CheckoutResponse
	err      error

	// onNotify runs before returning, to simulate collaborator side
	// effects such as clearing the cart server-side.
	onNotify func()
}

func (m *mockNotifier) Notify(_ context.Context, payload *models.CheckoutPayload) (*models.CheckoutResponse, error) {
	m.calls = append(m.calls, payload)
	if m.onNotify != nil {
		m.onNotify()
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func TestCheckout_EmptyCartIsNoOp(t *testing.T) {
	carts := newMemCartRepo()
	notifier := &mockNotifier{response: &models.CheckoutResponse{Success: true, EmailID: "em-1"}}
	svc := services.NewCheckoutService(carts, newMemProductRepo(), notifier, zap.NewNop())

	result, svcErr := svc.Checkout(context.Background(), "user-1")

	assert.Nil(t, svcErr)
	assert.False(t, result.Placed)
	assert.Empty(t, notifier.calls, "empty cart must not notify")
	assert.Equal(t, 0, carts.clearCalls, "empty cart must not touch storage")
}

func TestCheckout_PayloadAndClear(t *testing.T) {
	oud := testProduct("Rose Oud", 50)
	carts := newMemCartRepo()
	products := newMemProductRepo(oud)
	cartSvc := newCartService(carts, products)
	for i := 0; i < 2; i++ {
		_, svcErr := cartSvc.AddOne(context.Background(), "user-1", oud.ID)
		assert.Nil(t, svcErr)
	}

	notifier := &mockNotifier{response: &models.CheckoutResponse{Success: true, EmailID: "em-42"}}
	svc := services.NewCheckoutService(carts, products, notifier, zap.NewNop())

	result, svcErr := svc.Checkout(context.Background(), "user-1")

	assert.Nil(t, svcErr)
	assert.True(t, result.Placed)
	assert.Equal(t, "em-42", result.EmailID)
	assert.Equal(t, 100.0, result.Total)

	assert.Len(t, notifier.calls, 1)
	payload := notifier.calls[0]
	assert.Equal(t, "user-1", payload.UserID)
	assert.Equal(t, 100.0, payload.TotalPrice)
	assert.Len(t, payload.CartItems, 1)
	assert.Equal(t, "Rose Oud", payload.CartItems[0].ProductTitle)
	assert.Equal(t, 2, payload.CartItems[0].Quantity)
	assert.Equal(t, 100.0, payload.CartItems[0].Price, "line price is quantity times unit price")

	assert.Empty(t, carts.items, "cart is cleared after observed success")
}

func TestCheckout_CollaboratorAlreadyClearedCart(t *testing.T) {
	oud := testProduct("Rose Oud", 50)
	carts := newMemCartRepo()
	products := newMemProductRepo(oud)
	cartSvc := newCartService(carts, products)
	_, svcErr := cartSvc.AddOne(context.Background(), "user-1", oud.ID)
	assert.Nil(t, svcErr)

	notifier := &mockNotifier{
		response: &models.CheckoutResponse{Success: true, EmailID: "em-7"},
		onNotify: func() {
			// The notification collaborator deletes the rows itself.
			_ = carts.DeleteAllForUser(context.Background(), "user-1")
		},
	}
	svc := services.NewCheckoutService(carts, products, notifier, zap.NewNop())

	result, checkoutErr := svc.Checkout(context.Background(), "user-1")

	assert.Nil(t, checkoutErr, "re-clearing an already-empty cart succeeds")
	assert.True(t, result.Placed)
	assert.Empty(t, carts.items)
}

func TestCheckout_NotifyFailureLeavesCartIntact(t *testing.T) {
	oud := testProduct("Rose Oud", 50)
	carts := newMemCartRepo()
	products := newMemProductRepo(oud)
	cartSvc := newCartService(carts, products)
	_, svcErr := cartSvc.AddOne(context.Background(), "user-1", oud.ID)
	assert.Nil(t, svcErr)

	notifier := &mockNotifier{err: errors.New("notification rejected: email provider down")}
	svc := services.NewCheckoutService(carts, products, notifier, zap.NewNop())

	result, checkoutErr := svc.Checkout(context.Background(), "user-1")

	assert.Nil(t, result)
	assert.NotNil(t, checkoutErr)
	assert.Equal(t, 502, checkoutErr.StatusCode)
	assert.Len(t, carts.items, 1, "cart is unchanged after a failed notification")
	assert.Equal(t, 0, carts.clearCalls)
	assert.Len(t, notifier.calls, 1, "exactly one attempt, no automatic retry")
}

func TestCheckout_ReportedFailureIsNotSuccess(t *testing.T) {
	oud := testProduct("Rose Oud", 50)
	carts := newMemCartRepo()
	products := newMemProductRepo(oud)
	cartSvc := newCartService(carts, products)
	_, svcErr := cartSvc.AddOne(context.Background(), "user-1", oud.ID)
	assert.Nil(t, svcErr)

	notifier := &mockNotifier{err: errors.New("notification reported failure")}
	svc := services.NewCheckoutService(carts, products, notifier, zap.NewNop())

	_, checkoutErr := svc.Checkout(context.Background(), "user-1")

	assert.NotNil(t, checkoutErr)
	assert.Len(t, carts.items, 1)
}

func TestCheckout_MissingConfigurationIsUnprocessable(t *testing.T) {
	oud := testProduct("Rose Oud", 50)
	carts := newMemCartRepo()
	products := newMemProductRepo(oud)
	cartSvc := newCartService(carts, products)
	_, svcErr := cartSvc.AddOne(context.Background(), "user-1", oud.ID)
	assert.Nil(t, svcErr)

	notifier := &mockNotifier{err: services.ErrNotConfigured}
	svc := services.NewCheckoutService(carts, products, notifier, zap.NewNop())

	_, checkoutErr := svc.Checkout(context.Background(), "user-1")

	assert.NotNil(t, checkoutErr)
	assert.Equal(t, 422, checkoutErr.StatusCode)
	assert.Len(t, carts.items, 1)
}

func TestCheckout_ClearFailureIsSurfaced(t *testing.T) {
	oud := testProduct("Rose Oud", 50)
	carts := newMemCartRepo()
	products := newMemProductRepo(oud)
	cartSvc := newCartService(carts, products)
	_, svcErr := cartSvc.AddOne(context.Background(), "user-1", oud.ID)
	assert.Nil(t, svcErr)

	carts.clearErr = errors.New("connection reset")
	notifier := &mockNotifier{response: &models.CheckoutResponse{Success: true, EmailID: "em-9"}}
	svc := services.NewCheckoutService(carts, products, notifier, zap.NewNop())

	_, checkoutErr := svc.Checkout(context.Background(), "user-1")

	assert.NotNil(t, checkoutErr)
	assert.Equal(t, 500, checkoutErr.StatusCode)
	assert.Contains(t, checkoutErr.Message, "em-9", "the email id is preserved for support follow-up")
}

func TestCheckout_ProductStoreFailureAbortsWithCartIntact(t *testing.T) {
	oud := testProduct("Rose Oud", 50)
	musk := testProduct("White Musk", 30)
	carts := newMemCartRepo()
	products := newMemProductRepo(oud, musk)
	cartSvc := newCartService(carts, products)
	_, svcErr := cartSvc.AddOne(context.Background(), "user-1", oud.ID)
	assert.Nil(t, svcErr)
	_, svcErr = cartSvc.AddOne(context.Background(), "user-1", musk.ID)
	assert.Nil(t, svcErr)

	// A transient store failure is not a deleted product; the attempt
	// must abort rather than settle a smaller order.
	products.findErr = errors.New("connection reset by peer")

	notifier := &mockNotifier{response: &models.CheckoutResponse{Success: true, EmailID: "em-5"}}
	svc := services.NewCheckoutService(carts, products, notifier, zap.NewNop())

	result, checkoutErr := svc.Checkout(context.Background(), "user-1")

	assert.Nil(t, result)
	assert.NotNil(t, checkoutErr)
	assert.Equal(t, 500, checkoutErr.StatusCode)
	assert.Empty(t, notifier.calls, "nothing is notified on a snapshot failure")
	assert.Equal(t, 0, carts.clearCalls)
	assert.Len(t, carts.items, 2, "the cart is untouched")
}

func TestCheckout_UnresolvableLinesAreSkipped(t *testing.T) {
	oud := testProduct("Rose Oud", 50)
	musk := testProduct("White Musk", 30)
	carts := newMemCartRepo()
	products := newMemProductRepo(oud, musk)
	cartSvc := newCartService(carts, products)
	_, svcErr := cartSvc.AddOne(context.Background(), "user-1", oud.ID)
	assert.Nil(t, svcErr)
	_, svcErr = cartSvc.AddOne(context.Background(), "user-1", musk.ID)
	assert.Nil(t, svcErr)

	delete(products.products, musk.ID)

	notifier := &mockNotifier{response: &models.CheckoutResponse{Success: true, EmailID: "em-3"}}
	svc := services.NewCheckoutService(carts, products, notifier, zap.NewNop())

	result, checkoutErr := svc.Checkout(context.Background(), "user-1")

	assert.Nil(t, checkoutErr)
	assert.True(t, result.Placed)
	assert.Len(t, notifier.calls[0].CartItems, 1)
	assert.Equal(t, "Rose Oud", notifier.calls[0].CartItems[0].ProductTitle)
	assert.Equal(t, 50.0, result.Total)
}
