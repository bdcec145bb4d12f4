package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/ecom/internal/domain"
)

func seedAliceAndPhone(t *testing.T, repo domain.OrderRepository) (domain.Customer, domain.Product) {
	t.Helper()

	alice, err := repo.CreateCustomer(domain.Customer{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$fakehashfortests",
	})
	require.NoError(t, err)

	phone, err := repo.CreateProduct(domain.Product{
		Name:          "Phone",
		PriceMinor:    50000,
		Description:   "a phone",
		StockQuantity: 20,
	})
	require.NoError(t, err)

	return alice, phone
}

func currentStock(t *testing.T, store *Store, productID int64) int32 {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var stock int32
	err := store.DB().QueryRowContext(ctx,
		`SELECT stock_quantity FROM products WHERE product_id = $1`, productID).Scan(&stock)
	require.NoError(t, err)
	return stock
}

func TestIntegrationRepository_CustomerProductCRUD(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	alice, phone := seedAliceAndPhone(t, repo)
	assert.NotZero(t, alice.ID)
	assert.NotZero(t, phone.ID)
	assert.False(t, alice.CreatedAt.IsZero())

	require.ErrorIs(t, repo.DeleteCustomer(alice.ID+1000), domain.ErrCustomerNotFound)
	require.ErrorIs(t, repo.DeleteProduct(phone.ID+1000), domain.ErrProductNotFound)

	require.NoError(t, repo.DeleteProduct(phone.ID))
	require.NoError(t, repo.DeleteCustomer(alice.ID))
}

func TestIntegrationRepository_CartAccumulation(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	alice, phone := seedAliceAndPhone(t, repo)

	require.NoError(t, repo.AddToCart(alice.ID, phone.ID, 2))
	require.NoError(t, repo.AddToCart(alice.ID, phone.ID, 3))

	items, err := repo.GetAllFromCart(alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int32(5), items[0].Qty)
	assert.Equal(t, "Phone", items[0].Product.Name)

	require.NoError(t, repo.RemoveFromCart(alice.ID, phone.ID))
	items, err = repo.GetAllFromCart(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestIntegrationRepository_CartGuards(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	alice, phone := seedAliceAndPhone(t, repo)

	require.ErrorIs(t, repo.AddToCart(alice.ID+1000, phone.ID, 1), domain.ErrCustomerNotFound)
	require.ErrorIs(t, repo.AddToCart(alice.ID, phone.ID+1000, 1), domain.ErrProductNotFound)

	_, err := repo.GetAllFromCart(alice.ID + 1000)
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestIntegrationRepository_PlaceOrderScenario(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	alice, phone := seedAliceAndPhone(t, repo)

	require.NoError(t, repo.AddToCart(alice.ID, phone.ID, 2))

	order, err := repo.PlaceOrder(alice.ID, []domain.OrderLine{{ProductID: phone.ID, Qty: 2}}, "123 Main St")
	require.NoError(t, err)
	assert.Equal(t, int64(100000), order.TotalMinor)
	assert.Empty(t, order.ValidateInvariants())

	assert.Equal(t, int32(18), currentStock(t, store, phone.ID))

	items, err := repo.GetAllFromCart(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "cart must be cleared after checkout")

	orders, err := repo.GetOrdersByCustomer(alice.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, int64(50000), orders[0].Items[0].PriceMinor)
	assert.Equal(t, "Phone", orders[0].Items[0].ProductName)
}

func TestIntegrationRepository_PlaceOrderAtomicRollback(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	alice, phone := seedAliceAndPhone(t, repo)

	book, err := repo.CreateProduct(domain.Product{
		Name:          "Book",
		PriceMinor:    1500,
		StockQuantity: 1,
	})
	require.NoError(t, err)

	require.NoError(t, repo.AddToCart(alice.ID, phone.ID, 1))

	_, err = repo.PlaceOrder(alice.ID, []domain.OrderLine{
		{ProductID: phone.ID, Qty: 2},
		{ProductID: book.ID, Qty: 5},
	}, "123 Main St")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Полный откат: остатки, корзина и список заказов не изменились.
	assert.Equal(t, int32(20), currentStock(t, store, phone.ID))
	assert.Equal(t, int32(1), currentStock(t, store, book.ID))

	items, err := repo.GetAllFromCart(alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = repo.GetOrdersByCustomer(alice.ID)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestIntegrationRepository_PlaceOrderDuplicateLines(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	alice, phone := seedAliceAndPhone(t, repo)

	// Дубликаты одного товара суммируются до проверки остатка.
	_, err := repo.PlaceOrder(alice.ID, []domain.OrderLine{
		{ProductID: phone.ID, Qty: 15},
		{ProductID: phone.ID, Qty: 15},
	}, "123 Main St")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int32(20), currentStock(t, store, phone.ID))

	order, err := repo.PlaceOrder(alice.ID, []domain.OrderLine{
		{ProductID: phone.ID, Qty: 2},
		{ProductID: phone.ID, Qty: 3},
	}, "123 Main St")
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int32(5), order.Items[0].Qty)
	assert.Equal(t, int64(250000), order.TotalMinor)
	assert.Equal(t, int32(15), currentStock(t, store, phone.ID))
}

func TestIntegrationRepository_GetOrdersErrors(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	alice, _ := seedAliceAndPhone(t, repo)

	_, err := repo.GetOrdersByCustomer(alice.ID + 1000)
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)

	_, err = repo.GetOrdersByCustomer(alice.ID)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestIntegrationRepository_OrderWithDeletedProductDropped(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	alice, phone := seedAliceAndPhone(t, repo)

	_, err := repo.PlaceOrder(alice.ID, []domain.OrderLine{{ProductID: phone.ID, Qty: 1}}, "123 Main St")
	require.NoError(t, err)

	// Товар удалён из каталога: join по позициям пустеет, заказ выпадает из
	// выдачи молча.
	require.NoError(t, repo.DeleteProduct(phone.ID))

	orders, err := repo.GetOrdersByCustomer(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
