package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alextreichler/grocerycart/internal/cart"
	"github.com/alextreichler/grocerycart/internal/models"
	"github.com/alextreichler/grocerycart/internal/store"
)

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockStorage) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) (int64, error) {
	args := m.Called(ctx, order, items)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService(t *testing.T) (*Service, *mockStorage, *cart.Manager) {
	t.Helper()
	fs, err := cart.NewFileStore(t.TempDir())
	require.NoError(t, err)
	carts := cart.NewManager(fs)
	storage := new(mockStorage)
	return New(storage, carts), storage, carts
}

const sid = "test-session"

func TestPlaceOrderEmptyCart(t *testing.T) {
	svc, storage, _ := newTestService(t)

	_, err := svc.PlaceOrder(context.Background(), sid, "Alice")

	assert.ErrorIs(t, err, ErrEmptyCart)
	storage.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrderSuccess(t *testing.T) {
	ctx := context.Background()
	svc, storage, carts := newTestService(t)
	require.NoError(t, carts.SetMany(ctx, sid, map[string]int{"1": 2, "3": 1}))

	storage.On("GetProduct", mock.Anything, 1).
		Return(&models.Product{ID: 1, Name: "Milk", Price: 45.0, Stock: 50}, nil)
	storage.On("GetProduct", mock.Anything, 3).
		Return(&models.Product{ID: 3, Name: "Rice (1kg)", Price: 60.0, Stock: 30}, nil)

	var gotOrder *models.Order
	var gotItems []models.OrderItem
	storage.On("CreateOrder", mock.Anything, mock.AnythingOfType("*models.Order"), mock.Anything).
		Return(int64(7), nil).
		Run(func(args mock.Arguments) {
			gotOrder = args.Get(1).(*models.Order)
			gotItems = args.Get(2).([]models.OrderItem)
		})

	orderID, err := svc.PlaceOrder(ctx, sid, "Alice")

	require.NoError(t, err)
	assert.Equal(t, int64(7), orderID)
	assert.Equal(t, "Alice", gotOrder.CustomerName)
	assert.Equal(t, 150.0, gotOrder.Total)
	require.Len(t, gotItems, 2)
	assert.Equal(t, models.OrderItem{ProductID: 1, ProductName: "Milk", Qty: 2, Price: 45.0}, gotItems[0])
	assert.Equal(t, models.OrderItem{ProductID: 3, ProductName: "Rice (1kg)", Qty: 1, Price: 60.0}, gotItems[1])

	// Cart cleared only after the order is durable.
	c, err := carts.Load(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestPlaceOrderInsufficientStockIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	svc, storage, carts := newTestService(t)
	require.NoError(t, carts.SetMany(ctx, sid, map[string]int{"1": 2, "3": 100}))

	storage.On("GetProduct", mock.Anything, 1).
		Return(&models.Product{ID: 1, Name: "Milk", Price: 45.0, Stock: 50}, nil)
	storage.On("GetProduct", mock.Anything, 3).
		Return(&models.Product{ID: 3, Name: "Rice (1kg)", Price: 60.0, Stock: 30}, nil)

	_, err := svc.PlaceOrder(ctx, sid, "Alice")

	var insufficient *store.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Rice (1kg)", insufficient.ProductName)
	storage.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)

	// The cart survives a failed checkout.
	c, err := carts.Load(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, cart.Cart{"1": 2, "3": 100}, c)
}

func TestPlaceOrderSkipsVanishedProduct(t *testing.T) {
	ctx := context.Background()
	svc, storage, carts := newTestService(t)
	require.NoError(t, carts.SetMany(ctx, sid, map[string]int{"1": 2, "999": 5}))

	storage.On("GetProduct", mock.Anything, 1).
		Return(&models.Product{ID: 1, Name: "Milk", Price: 45.0, Stock: 50}, nil)
	storage.On("GetProduct", mock.Anything, 999).
		Return(nil, store.ErrProductNotFound)

	var gotOrder *models.Order
	var gotItems []models.OrderItem
	storage.On("CreateOrder", mock.Anything, mock.AnythingOfType("*models.Order"), mock.Anything).
		Return(int64(1), nil).
		Run(func(args mock.Arguments) {
			gotOrder = args.Get(1).(*models.Order)
			gotItems = args.Get(2).([]models.OrderItem)
		})

	_, err := svc.PlaceOrder(ctx, sid, "Alice")

	require.NoError(t, err)
	assert.Equal(t, 90.0, gotOrder.Total)
	require.Len(t, gotItems, 1)
	assert.Equal(t, 1, gotItems[0].ProductID)
}

func TestPlaceOrderAllVanishedIsEmpty(t *testing.T) {
	ctx := context.Background()
	svc, storage, carts := newTestService(t)
	require.NoError(t, carts.SetMany(ctx, sid, map[string]int{"999": 5}))

	storage.On("GetProduct", mock.Anything, 999).
		Return(nil, store.ErrProductNotFound)

	_, err := svc.PlaceOrder(ctx, sid, "Alice")

	assert.ErrorIs(t, err, ErrEmptyCart)
	storage.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddToCartCourtesyStockCheck(t *testing.T) {
	ctx := context.Background()
	svc, storage, carts := newTestService(t)

	storage.On("GetProduct", mock.Anything, 1).
		Return(&models.Product{ID: 1, Name: "Milk", Price: 45.0, Stock: 3}, nil)

	err := svc.AddToCart(ctx, sid, 1, 5)

	var oos *OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, "Milk", oos.ProductName)
	assert.Equal(t, 5, oos.Requested)
	assert.Equal(t, 3, oos.Available)

	c, err := carts.Load(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestAddToCartAccumulates(t *testing.T) {
	ctx := context.Background()
	svc, storage, carts := newTestService(t)

	storage.On("GetProduct", mock.Anything, 1).
		Return(&models.Product{ID: 1, Name: "Milk", Price: 45.0, Stock: 50}, nil)

	require.NoError(t, svc.AddToCart(ctx, sid, 1, 2))
	require.NoError(t, svc.AddToCart(ctx, sid, 1, 1))

	c, err := carts.Load(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, cart.Cart{"1": 3}, c)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	svc, storage, _ := newTestService(t)

	storage.On("GetProduct", mock.Anything, 42).
		Return(nil, store.ErrProductNotFound)

	err := svc.AddToCart(context.Background(), sid, 42, 1)
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}

func TestCartContents(t *testing.T) {
	ctx := context.Background()
	svc, storage, carts := newTestService(t)
	require.NoError(t, carts.SetMany(ctx, sid, map[string]int{"1": 2, "999": 4}))

	storage.On("GetProduct", mock.Anything, 1).
		Return(&models.Product{ID: 1, Name: "Milk", Price: 45.0, Stock: 50}, nil)
	storage.On("GetProduct", mock.Anything, 999).
		Return(nil, store.ErrProductNotFound)

	lines, total, err := svc.CartContents(ctx, sid)

	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, CartLine{ProductID: "1", Name: "Milk", Price: 45.0, Qty: 2, Subtotal: 90.0}, lines[0])
	assert.Equal(t, 90.0, total)
}
