package metrics

import (
	"errors"
	"time"

	"github.com/vladislavdragonenkov/ecom/internal/domain"
)

// instrumentedRepository — декоратор OrderRepository, записывающий исход и
// длительность каждой операции.
type instrumentedRepository struct {
	next    domain.OrderRepository
	metrics *RepoMetrics
}

// InstrumentRepository оборачивает репозиторий метриками.
func InstrumentRepository(next domain.OrderRepository, m *RepoMetrics) domain.OrderRepository {
	return &instrumentedRepository{next: next, metrics: m}
}

// resultLabel сводит ошибку к метке результата для счётчиков.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsNotFound(err):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case domain.IsStorageFailure(err):
		return "storage_failure"
	default:
		return "invalid"
	}
}

func (r *instrumentedRepository) observe(op string, start time.Time, err error) {
	r.metrics.RecordOp(op, resultLabel(err), time.Since(start))
}

func (r *instrumentedRepository) CreateCustomer(customer domain.Customer) (domain.Customer, error) {
	start := time.Now()
	created, err := r.next.CreateCustomer(customer)
	r.observe("create_customer", start, err)
	return created, err
}

func (r *instrumentedRepository) DeleteCustomer(customerID int64) error {
	start := time.Now()
	err := r.next.DeleteCustomer(customerID)
	r.observe("delete_customer", start, err)
	return err
}

func (r *instrumentedRepository) CreateProduct(product domain.Product) (domain.Product, error) {
	start := time.Now()
	created, err := r.next.CreateProduct(product)
	r.observe("create_product", start, err)
	return created, err
}

func (r *instrumentedRepository) DeleteProduct(productID int64) error {
	start := time.Now()
	err := r.next.DeleteProduct(productID)
	r.observe("delete_product", start, err)
	return err
}

func (r *instrumentedRepository) AddToCart(customerID, productID int64, qty int32) error {
	start := time.Now()
	err := r.next.AddToCart(customerID, productID, qty)
	r.observe("add_to_cart", start, err)
	return err
}

func (r *instrumentedRepository) RemoveFromCart(customerID, productID int64) error {
	start := time.Now()
	err := r.next.RemoveFromCart(customerID, productID)
	r.observe("remove_from_cart", start, err)
	return err
}

func (r *instrumentedRepository) GetAllFromCart(customerID int64) ([]domain.CartItem, error) {
	start := time.Now()
	items, err := r.next.GetAllFromCart(customerID)
	r.observe("get_all_from_cart", start, err)
	return items, err
}

func (r *instrumentedRepository) PlaceOrder(customerID int64, lines []domain.OrderLine, shippingAddress string) (domain.Order, error) {
	start := time.Now()
	order, err := r.next.PlaceOrder(customerID, lines, shippingAddress)
	r.observe("place_order", start, err)
	if err == nil {
		r.metrics.RecordOrderPlaced()
	}
	return order, err
}

func (r *instrumentedRepository) GetOrdersByCustomer(customerID int64) ([]domain.Order, error) {
	start := time.Now()
	orders, err := r.next.GetOrdersByCustomer(customerID)
	r.observe("get_orders_by_customer", start, err)
	return orders, err
}

var _ domain.OrderRepository = (*instrumentedRepository)(nil)
