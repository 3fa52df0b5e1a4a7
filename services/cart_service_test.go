package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/anant-harryfan/shreycommerse/apperrors"
	"github.com/anant-harryfan/shreycommerse/models"
	"github.com/anant-harryfan/shreycommerse/repository"
	"github.com/anant-harryfan/shreycommerse/services"
)

// --- Mock user repository ---

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) FindByExternalID(_ context.Context, externalID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[externalID]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ExternalID]; ok {
		return apperrors.ErrConflict
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	m.users[user.ExternalID] = &copied
	return nil
}

// --- Mock product repository ---

type mockProductRepo struct {
	products map[uuid.UUID]*models.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (m *mockProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockProductRepo) FindAll(_ context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	result := []models.Product{}
	for _, p := range m.products {
		if categoryID == nil || p.CategoryID == *categoryID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockProductRepo) FindAllCategories(_ context.Context) ([]models.Category, error) {
	return []models.Category{}, nil
}

// --- Mock cart repository ---

// mockCartRepo is an in-memory CartRepository that enforces the
// (user, product) unique constraint under a lock, so concurrent adds race
// against it the same way they race against the Postgres unique index.
type mockCartRepo struct {
	mu       sync.Mutex
	items    map[uuid.UUID]*models.CartItem
	products *mockProductRepo
}

func newMockCartRepo(products *mockProductRepo) *mockCartRepo {
	return &mockCartRepo{items: make(map[uuid.UUID]*models.CartItem), products: products}
}

func (m *mockCartRepo) snapshot(item *models.CartItem) *models.CartItem {
	copied := *item
	if p, ok := m.products.products[item.ProductID]; ok {
		copied.Product = *p
	}
	return &copied
}

func (m *mockCartRepo) GetByUser(_ context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []models.CartItem{}
	for _, item := range m.items {
		if item.UserID == userID {
			result = append(result, *m.snapshot(item))
		}
	}
	return result, nil
}

func (m *mockCartRepo) FindByID(_ context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item, ok := m.items[itemID]; ok {
		return m.snapshot(item), nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCartRepo) FindByUserAndProduct(_ context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.UserID == userID && item.ProductID == productID {
			return m.snapshot(item), nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCartRepo) Insert(_ context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.UserID == userID && item.ProductID == productID {
			return nil, apperrors.ErrConflict
		}
	}
	item := &models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	m.items[item.ID] = item
	return m.snapshot(item), nil
}

func (m *mockCartRepo) UpdateQuantity(_ context.Context, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	item.Quantity = quantity
	return m.snapshot(item), nil
}

func (m *mockCartRepo) Delete(_ context.Context, itemID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[itemID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.items, itemID)
	return nil
}

// --- Helpers ---

type cartFixture struct {
	users    *mockUserRepo
	products *mockProductRepo
	carts    repository.CartRepository
	svc      services.CartService
}

func newCartFixture() *cartFixture {
	users := newMockUserRepo()
	products := newMockProductRepo()
	carts := newMockCartRepo(products)
	return newCartFixtureWith(users, products, carts)
}

func newCartFixtureWith(users *mockUserRepo, products *mockProductRepo, carts repository.CartRepository) *cartFixture {
	logger := zap.NewNop()
	identity := services.NewIdentityService(users, logger)
	catalog := services.NewCatalogService(products, nil, logger)
	return &cartFixture{
		users:    users,
		products: products,
		carts:    carts,
		svc:      services.NewCartService(carts, identity, catalog, logger),
	}
}

func (f *cartFixture) addProduct(priceCents int64) uuid.UUID {
	id := uuid.New()
	f.products.products[id] = &models.Product{
		ID:         id,
		Name:       "Test Product",
		PriceCents: priceCents,
		InStock:    true,
		CategoryID: uuid.New(),
	}
	return id
}

func shopper(n string) models.Identity {
	return models.Identity{ExternalID: "ext-" + n, Email: n + "@example.com", Name: n}
}

// --- Tests ---

func TestCartService_AddItem_CreatesNewLine(t *testing.T) {
	f := newCartFixture()
	productID := f.addProduct(999)

	item, err := f.svc.AddItem(context.Background(), shopper("alice"), productID, 2)
	assert.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, productID, item.ProductID)
}

func TestCartService_AddItem_MergesQuantities(t *testing.T) {
	f := newCartFixture()
	productID := f.addProduct(999)
	caller := shopper("alice")

	for _, quantity := range []int{1, 2, 4} {
		_, err := f.svc.AddItem(context.Background(), caller, productID, quantity)
		assert.NoError(t, err)
	}

	items, err := f.svc.List(context.Background(), caller)
	assert.NoError(t, err)
	assert.Len(t, items, 1, "Repeated adds must collapse into a single line")
	assert.Equal(t, 7, items[0].Quantity)
}

func TestCartService_AddItem_InvalidQuantity(t *testing.T) {
	f := newCartFixture()
	productID := f.addProduct(999)
	caller := shopper("alice")

	for _, quantity := range []int{0, -1, -100} {
		_, err := f.svc.AddItem(context.Background(), caller, productID, quantity)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidArgument))
	}

	items, err := f.svc.List(context.Background(), caller)
	assert.NoError(t, err)
	assert.Empty(t, items, "Rejected adds must cause no state change")
}

func TestCartService_AddItem_MissingProductID(t *testing.T) {
	f := newCartFixture()

	_, err := f.svc.AddItem(context.Background(), shopper("alice"), uuid.Nil, 1)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidArgument))
}

func TestCartService_AddItem_UnknownProduct(t *testing.T) {
	f := newCartFixture()

	_, err := f.svc.AddItem(context.Background(), shopper("alice"), uuid.New(), 1)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestCartService_AddItem_Anonymous(t *testing.T) {
	f := newCartFixture()
	productID := f.addProduct(999)

	_, err := f.svc.AddItem(context.Background(), models.Identity{}, productID, 1)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthenticated))
}

func TestCartService_AddItem_ConcurrentAddsSettle(t *testing.T) {
	f := newCartFixture()
	productID := f.addProduct(999)
	caller := shopper("alice")

	var wg sync.WaitGroup
	for _, quantity := range []int{2, 3} {
		wg.Add(1)
		go func(q int) {
			defer wg.Done()
			_, err := f.svc.AddItem(context.Background(), caller, productID, q)
			assert.NoError(t, err)
		}(quantity)
	}
	wg.Wait()

	items, err := f.svc.List(context.Background(), caller)
	assert.NoError(t, err)
	assert.Len(t, items, 1, "Concurrent adds must never produce duplicate lines")
	assert.Equal(t, 5, items[0].Quantity, "Neither concurrently added quantity may be dropped")
}

// conflictOnceRepo pretends the cart is empty until the first insert, then
// sneaks a competing line in just before it, forcing the insert to lose the
// race deterministically.
type conflictOnceRepo struct {
	*mockCartRepo
	userID    uuid.UUID
	productID uuid.UUID
	quantity  int
	fired     bool
}

func (r *conflictOnceRepo) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	if !r.fired {
		return nil, apperrors.ErrNotFound
	}
	return r.mockCartRepo.FindByUserAndProduct(ctx, userID, productID)
}

func (r *conflictOnceRepo) Insert(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if !r.fired {
		r.fired = true
		if _, err := r.mockCartRepo.Insert(ctx, r.userID, r.productID, r.quantity); err != nil {
			return nil, err
		}
	}
	return r.mockCartRepo.Insert(ctx, userID, productID, quantity)
}

func TestCartService_AddItem_InsertConflictFallsBackToMerge(t *testing.T) {
	users := newMockUserRepo()
	products := newMockProductRepo()
	base := newMockCartRepo(products)

	user := &models.User{ID: uuid.New(), ExternalID: "ext-alice", Email: "alice@example.com"}
	assert.NoError(t, users.Create(context.Background(), user))

	productID := uuid.New()
	products.products[productID] = &models.Product{ID: productID, PriceCents: 999, InStock: true}

	racing := &conflictOnceRepo{mockCartRepo: base, userID: user.ID, productID: productID, quantity: 2}
	f := newCartFixtureWith(users, products, racing)

	item, err := f.svc.AddItem(context.Background(), shopper("alice"), productID, 3)
	assert.NoError(t, err, "A lost insert race must fall back to a merge, not fail")
	assert.Equal(t, 5, item.Quantity)
}

// alwaysConflictRepo simulates the pathological case: the insert conflicts
// but no surviving line can be found on retry.
type alwaysConflictRepo struct {
	*mockCartRepo
}

func (r *alwaysConflictRepo) FindByUserAndProduct(context.Context, uuid.UUID, uuid.UUID) (*models.CartItem, error) {
	return nil, apperrors.ErrNotFound
}

func (r *alwaysConflictRepo) Insert(context.Context, uuid.UUID, uuid.UUID, int) (*models.CartItem, error) {
	return nil, apperrors.ErrConflict
}

func TestCartService_AddItem_DoubleConflictIsFatal(t *testing.T) {
	products := newMockProductRepo()
	f := newCartFixtureWith(newMockUserRepo(), products, &alwaysConflictRepo{newMockCartRepo(products)})
	productID := uuid.New()
	products.products[productID] = &models.Product{ID: productID, PriceCents: 999, InStock: true}

	_, err := f.svc.AddItem(context.Background(), shopper("alice"), productID, 1)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConcurrency))
}

func TestCartService_List_EmptyCart(t *testing.T) {
	f := newCartFixture()

	items, err := f.svc.List(context.Background(), shopper("alice"))
	assert.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items, "An empty cart is a valid, displayable state")
}

func TestCartService_List_Anonymous(t *testing.T) {
	f := newCartFixture()

	_, err := f.svc.List(context.Background(), models.Identity{})
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthenticated))
}

func TestCartService_UpdateQuantity_ReplacesQuantity(t *testing.T) {
	f := newCartFixture()
	first := f.addProduct(999)
	second := f.addProduct(500)
	caller := shopper("alice")

	item, err := f.svc.AddItem(context.Background(), caller, first, 1)
	assert.NoError(t, err)
	other, err := f.svc.AddItem(context.Background(), caller, second, 4)
	assert.NoError(t, err)

	updated, err := f.svc.UpdateQuantity(context.Background(), caller, item.ID, 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)

	items, err := f.svc.List(context.Background(), caller)
	assert.NoError(t, err)
	assert.Len(t, items, 2)
	for _, it := range items {
		switch it.ID {
		case item.ID:
			assert.Equal(t, 3, it.Quantity)
		case other.ID:
			assert.Equal(t, 4, it.Quantity, "Other lines must keep their quantities")
		}
	}
}

func TestCartService_UpdateQuantity_RejectsBelowOne(t *testing.T) {
	f := newCartFixture()
	productID := f.addProduct(999)
	caller := shopper("alice")

	item, err := f.svc.AddItem(context.Background(), caller, productID, 2)
	assert.NoError(t, err)

	for _, quantity := range []int{0, -5} {
		_, err := f.svc.UpdateQuantity(context.Background(), caller, item.ID, quantity)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidArgument))
	}

	items, _ := f.svc.List(context.Background(), caller)
	assert.Equal(t, 2, items[0].Quantity, "Rejected updates must cause no state change")
}

func TestCartService_UpdateQuantity_ForeignOwnerForbidden(t *testing.T) {
	f := newCartFixture()
	productID := f.addProduct(999)

	item, err := f.svc.AddItem(context.Background(), shopper("alice"), productID, 2)
	assert.NoError(t, err)

	_, err = f.svc.UpdateQuantity(context.Background(), shopper("mallory"), item.ID, 1)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	items, _ := f.svc.List(context.Background(), shopper("alice"))
	assert.Equal(t, 2, items[0].Quantity, "A forbidden update must cause no state change")
}

func TestCartService_UpdateQuantity_UnknownItem(t *testing.T) {
	f := newCartFixture()

	_, err := f.svc.UpdateQuantity(context.Background(), shopper("alice"), uuid.New(), 2)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestCartService_RemoveItem_RemovesLine(t *testing.T) {
	f := newCartFixture()
	productID := f.addProduct(999)
	caller := shopper("alice")

	item, err := f.svc.AddItem(context.Background(), caller, productID, 2)
	assert.NoError(t, err)

	assert.NoError(t, f.svc.RemoveItem(context.Background(), caller, item.ID))

	items, err := f.svc.List(context.Background(), caller)
	assert.NoError(t, err)
	assert.Empty(t, items, "A removed item must never show up in a subsequent list")
}

func TestCartService_RemoveItem_ForeignOwnerForbidden(t *testing.T) {
	f := newCartFixture()
	productID := f.addProduct(999)

	item, err := f.svc.AddItem(context.Background(), shopper("alice"), productID, 2)
	assert.NoError(t, err)

	err = f.svc.RemoveItem(context.Background(), shopper("mallory"), item.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	items, _ := f.svc.List(context.Background(), shopper("alice"))
	assert.Len(t, items, 1, "A forbidden remove must cause no state change")
}

func TestCartService_RemoveItem_UnknownItem(t *testing.T) {
	f := newCartFixture()

	err := f.svc.RemoveItem(context.Background(), shopper("alice"), uuid.New())
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestSubtotal(t *testing.T) {
	items := []models.CartItem{
		{Quantity: 2, Product: models.Product{PriceCents: 999}},
		{Quantity: 1, Product: models.Product{PriceCents: 500}},
	}
	assert.Equal(t, int64(2498), services.Subtotal(items))
	assert.Equal(t, 3, services.ItemCount(items))
}

func TestSubtotal_Empty(t *testing.T) {
	assert.Equal(t, int64(0), services.Subtotal(nil))
	assert.Equal(t, 0, services.ItemCount(nil))
}
