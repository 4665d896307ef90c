package services_test

import (
	"context"
	"errors"
	"sort"
	"time"

	"testing"

	"storefront-service/models"
	"storefront-service/repository"
	"storefront-service/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ---- in-memory cart repository ----

type memCartRepo struct {
	items map[uuid.UUID]*models.CartItem

	findErr   error
	createErr error
	updateErr error
	deleteErr error
	clearErr  error

	clearCalls int
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{items: make(map[uuid.UUID]*models.CartItem)}
}

func (m *memCartRepo) FindLine(_ context.Context, userID string, productID uuid.UUID) (*models.CartItem, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, item := range m.items {
		if item.UserID == userID && item.ProductID == productID {
			cp := *item
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memCartRepo) FindByID(_ context.Context, lineID uuid.UUID) (*models.CartItem, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if item, ok := m.items[lineID]; ok {
		cp := *item
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memCartRepo) Create(_ context.Context, item *models.CartItem) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.items {
		if existing.UserID == item.UserID && existing.ProductID == item.ProductID {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now()
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *memCartRepo) UpdateQuantity(_ context.Context, lineID uuid.UUID, expected, next int) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	item, ok := m.items[lineID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if item.Quantity != expected {
		return repository.ErrQuantityConflict
	}
	item.Quantity = next
	return nil
}

func (m *memCartRepo) Delete(_ context.Context, lineID uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.items[lineID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.items, lineID)
	return nil
}

func (m *memCartRepo) FindAllForUser(_ context.Context, userID string) ([]models.CartItem, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []models.CartItem
	for _, item := range m.items {
		if item.UserID == userID {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memCartRepo) DeleteAllForUser(_ context.Context, userID string) error {
	m.clearCalls++
	if m.clearErr != nil {
		return m.clearErr
	}
	for id, item := range m.items {
		if item.UserID == userID {
			delete(m.items, id)
		}
	}
	return nil
}

// ---- in-memory product repository ----

type memProductRepo struct {
	products map[uuid.UUID]*models.Product
	findErr  error
}

func newMemProductRepo(products ...*models.Product) *memProductRepo {
	m := &memProductRepo{products: make(map[uuid.UUID]*models.Product)}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		m.products[p.ID] = p
	}
	return m
}

func (m *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if p, ok := m.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memProductRepo) FindAll(_ context.Context, gender *models.Gender) ([]models.Product, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []models.Product
	for _, p := range m.products {
		if gender == nil || p.Gender == *gender {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memProductRepo) Create(_ context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = time.Now()
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func (m *memProductRepo) Update(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	p, ok := m.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["title"]; ok {
		p.Title = v.(string)
	}
	if v, ok := updates["retail_price"]; ok {
		p.RetailPrice = v.(float64)
	}
	if v, ok := updates["wholesale_price"]; ok {
		p.WholesalePrice = v.(float64)
	}
	return nil
}

func (m *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.products, id)
	return nil
}

// ---- helpers ----

func testProduct(title string, retail float64) *models.Product {
	return &models.Product{
		ID:          uuid.New(),
		Title:       title,
		Gender:      models.GenderMen,
		RetailPrice: retail,
		CreatedAt:   time.Now(),
	}
}

func newCartService(carts repository.CartRepository, products repository.ProductRepository) services.CartService {
	return services.NewCartService(carts, products, zap.NewNop())
}

// ---- tests ----

func TestAddOne_FirstAddCreatesQuantityOne(t *testing.T) {
	product := testProduct("Rose Oud", 50)
	carts := newMemCartRepo()
	svc := newCartService(carts, newMemProductRepo(product))

	item, svcErr := svc.AddOne(context.Background(), "user-1", product.ID)

	assert.Nil(t, svcErr)
	assert.Equal(t, 1, item.Quantity)
	assert.Len(t, carts.items, 1)
}

func TestAddOne_RepeatAddsIncrementSingleLine(t *testing.T) {
	product := testProduct("Rose Oud", 50)
	carts := newMemCartRepo()
	svc := newCartService(carts, newMemProductRepo(product))

	const calls = 5
	for i := 0; i < calls; i++ {
		_, svcErr := svc.AddOne(context.Background(), "user-1", product.ID)
		assert.Nil(t, svcErr)
	}

	assert.Len(t, carts.items, 1, "repeat adds must reconcile onto one line")
	for _, item := range carts.items {
		assert.Equal(t, calls, item.Quantity)
	}
}

func TestAddOne_UnknownProduct(t *testing.T) {
	svc := newCartService(newMemCartRepo(), newMemProductRepo())

	_, svcErr := svc.AddOne(context.Background(), "user-1", uuid.New())

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestAddOne_ConcurrentChangeSurfacesConflict(t *testing.T) {
	product := testProduct("Rose Oud", 50)
	carts := newMemCartRepo()
	svc := newCartService(carts, newMemProductRepo(product))

	_, svcErr := svc.AddOne(context.Background(), "user-1", product.ID)
	assert.Nil(t, svcErr)

	carts.updateErr = repository.ErrQuantityConflict
	_, svcErr = svc.AddOne(context.Background(), "user-1", product.ID)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
}

func TestDecrementOne_QuantityOneDeletesLine(t *testing.T) {
	product := testProduct("Rose Oud", 50)
	carts := newMemCartRepo()
	svc := newCartService(carts, newMemProductRepo(product))

	item, _ := svc.AddOne(context.Background(), "user-1", product.ID)

	svcErr := svc.DecrementOne(context.Background(), "user-1", item.ID)

	assert.Nil(t, svcErr)
	assert.Empty(t, carts.items)
}

func TestDecrementOne_ReducesByOnePreservingIdentity(t *testing.T) {
	product := testProduct("Rose Oud", 50)
	carts := newMemCartRepo()
	svc := newCartService(carts, newMemProductRepo(product))

	var lineID uuid.UUID
	for i := 0; i < 3; i++ {
		item, _ := svc.AddOne(context.Background(), "user-1", product.ID)
		lineID = item.ID
	}

	svcErr := svc.DecrementOne(context.Background(), "user-1", lineID)

	assert.Nil(t, svcErr)
	line, ok := carts.items[lineID]
	assert.True(t, ok, "line identity must survive a decrement")
	assert.Equal(t, 2, line.Quantity)
}

func TestDecrementOne_MissingLine(t *testing.T) {
	svc := newCartService(newMemCartRepo(), newMemProductRepo())

	svcErr := svc.DecrementOne(context.Background(), "user-1", uuid.New())

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestDecrementOne_OtherUsersLineIsNotFound(t *testing.T) {
	product := testProduct("Rose Oud", 50)
	carts := newMemCartRepo()
	svc := newCartService(carts, newMemProductRepo(product))

	item, _ := svc.AddOne(context.Background(), "user-1", product.ID)

	svcErr := svc.DecrementOne(context.Background(), "user-2", item.ID)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestRemoveAll_DeletesRegardlessOfQuantity(t *testing.T) {
	product := testProduct("Rose Oud", 50)
	carts := newMemCartRepo()
	svc := newCartService(carts, newMemProductRepo(product))

	var lineID uuid.UUID
	for i := 0; i < 4; i++ {
		item, _ := svc.AddOne(context.Background(), "user-1", product.ID)
		lineID = item.ID
	}

	svcErr := svc.RemoveAll(context.Background(), "user-1", lineID)

	assert.Nil(t, svcErr)
	assert.Empty(t, carts.items)
}

func TestListForUser_Totals(t *testing.T) {
	oud := testProduct("Rose Oud", 50)
	musk := testProduct("White Musk", 30)
	carts := newMemCartRepo()
	products := newMemProductRepo(oud, musk)
	svc := newCartService(carts, products)

	for i := 0; i < 2; i++ {
		_, svcErr := svc.AddOne(context.Background(), "user-1", oud.ID)
		assert.Nil(t, svcErr)
	}
	_, svcErr := svc.AddOne(context.Background(), "user-1", musk.ID)
	assert.Nil(t, svcErr)

	lines, summary, listErr := svc.ListForUser(context.Background(), "user-1")

	assert.Nil(t, listErr)
	assert.Len(t, lines, 2)
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 2*50.0+30.0, summary.TotalPrice)
}

func TestListForUser_EmptyCartTotalsAreZero(t *testing.T) {
	svc := newCartService(newMemCartRepo(), newMemProductRepo())

	lines, summary, svcErr := svc.ListForUser(context.Background(), "user-1")

	assert.Nil(t, svcErr)
	assert.Empty(t, lines)
	assert.Equal(t, 0, summary.TotalItems)
	assert.Equal(t, 0.0, summary.TotalPrice)
}

func TestListForUser_DeletedProductIsFlaggedNotFatal(t *testing.T) {
	oud := testProduct("Rose Oud", 50)
	carts := newMemCartRepo()
	products := newMemProductRepo(oud)
	svc := newCartService(carts, products)

	_, svcErr := svc.AddOne(context.Background(), "user-1", oud.ID)
	assert.Nil(t, svcErr)

	// Product disappears from the catalog after it was carted.
	delete(products.products, oud.ID)

	lines, summary, listErr := svc.ListForUser(context.Background(), "user-1")

	assert.Nil(t, listErr)
	assert.Len(t, lines, 1)
	assert.True(t, lines[0].Unavailable)
	assert.Nil(t, lines[0].Product)
	assert.Equal(t, 1, summary.TotalItems)
	assert.Equal(t, 0.0, summary.TotalPrice, "unresolved product prices at zero")
}
