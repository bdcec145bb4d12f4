package memory

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/ecom/internal/domain"
)

type cartKey struct {
	customerID int64
	productID  int64
}

// repositoryInMemory — in-memory реализация OrderRepository для локальной
// разработки и тестов. Семантика совпадает с PostgreSQL-реализацией,
// включая атомарность оформления заказа.
type repositoryInMemory struct {
	mu sync.RWMutex

	customers map[int64]domain.Customer
	products  map[int64]domain.Product
	cart      map[cartKey]int32
	orders    map[int64]domain.Order

	nextCustomerID int64
	nextProductID  int64
	nextOrderID    int64
}

// NewOrderRepository возвращает in-memory репозиторий.
func NewOrderRepository() domain.OrderRepository {
	return &repositoryInMemory{
		customers: make(map[int64]domain.Customer),
		products:  make(map[int64]domain.Product),
		cart:      make(map[cartKey]int32),
		orders:    make(map[int64]domain.Order),
	}
}

func (r *repositoryInMemory) CreateCustomer(customer domain.Customer) (domain.Customer, error) {
	if errs := customer.ValidateInvariants(); len(errs) > 0 {
		return domain.Customer{}, errors.Join(errs...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextCustomerID++
	customer.ID = r.nextCustomerID
	customer.CreatedAt = time.Now().UTC()
	r.customers[customer.ID] = customer

	return customer, nil
}

func (r *repositoryInMemory) DeleteCustomer(customerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[customerID]; !ok {
		return fmt.Errorf("customer %d: %w", customerID, domain.ErrCustomerNotFound)
	}
	delete(r.customers, customerID)
	return nil
}

func (r *repositoryInMemory) CreateProduct(product domain.Product) (domain.Product, error) {
	if errs := product.ValidateInvariants(); len(errs) > 0 {
		return domain.Product{}, errors.Join(errs...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextProductID++
	product.ID = r.nextProductID
	product.CreatedAt = time.Now().UTC()
	r.products[product.ID] = product

	return product, nil
}

func (r *repositoryInMemory) DeleteProduct(productID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[productID]; !ok {
		return fmt.Errorf("product %d: %w", productID, domain.ErrProductNotFound)
	}
	delete(r.products, productID)
	return nil
}

func (r *repositoryInMemory) AddToCart(customerID, productID int64, qty int32) error {
	if qty <= 0 {
		return domain.ErrQtyInvalid
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkCustomerAndProduct(customerID, productID); err != nil {
		return err
	}

	// Повторное добавление накапливает количество в той же строке.
	key := cartKey{customerID: customerID, productID: productID}
	r.cart[key] += qty
	return nil
}

func (r *repositoryInMemory) RemoveFromCart(customerID, productID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkCustomerAndProduct(customerID, productID); err != nil {
		return err
	}

	delete(r.cart, cartKey{customerID: customerID, productID: productID})
	return nil
}

func (r *repositoryInMemory) GetAllFromCart(customerID int64) ([]domain.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.customers[customerID]; !ok {
		return nil, fmt.Errorf("customer %d: %w", customerID, domain.ErrCustomerNotFound)
	}

	items := make([]domain.CartItem, 0)
	for key, qty := range r.cart {
		if key.customerID != customerID {
			continue
		}
		product, ok := r.products[key.productID]
		if !ok {
			continue
		}
		items = append(items, domain.CartItem{Product: product, Qty: qty})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Product.ID < items[j].Product.ID
	})

	return items, nil
}

func (r *repositoryInMemory) PlaceOrder(customerID int64, lines []domain.OrderLine, shippingAddress string) (domain.Order, error) {
	lines, err := domain.NormalizeLines(lines)
	if err != nil {
		return domain.Order{}, err
	}
	if shippingAddress == "" {
		return domain.Order{}, domain.ErrAddressRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[customerID]; !ok {
		return domain.Order{}, fmt.Errorf("customer %d: %w", customerID, domain.ErrCustomerNotFound)
	}

	// Сначала проверяем все позиции, затем мутируем: любой отказ до записи
	// оставляет состояние нетронутым.
	order := domain.Order{
		CustomerID:      customerID,
		ShippingAddress: shippingAddress,
		Items:           make([]domain.OrderItem, 0, len(lines)),
	}
	for _, line := range lines {
		product, ok := r.products[line.ProductID]
		if !ok {
			return domain.Order{}, fmt.Errorf("product %d: %w", line.ProductID, domain.ErrProductNotFound)
		}
		if product.StockQuantity < line.Qty {
			return domain.Order{}, fmt.Errorf("product %d: have %d, want %d: %w",
				line.ProductID, product.StockQuantity, line.Qty, domain.ErrInsufficientStock)
		}

		order.Items = append(order.Items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Qty:         line.Qty,
			PriceMinor:  product.PriceMinor,
		})
		order.TotalMinor += int64(line.Qty) * product.PriceMinor
	}

	r.nextOrderID++
	order.ID = r.nextOrderID
	order.CreatedAt = time.Now().UTC()

	for _, item := range order.Items {
		product := r.products[item.ProductID]
		product.StockQuantity -= item.Qty
		r.products[item.ProductID] = product
	}
	for key := range r.cart {
		if key.customerID == customerID {
			delete(r.cart, key)
		}
	}
	r.orders[order.ID] = order

	return order, nil
}

func (r *repositoryInMemory) GetOrdersByCustomer(customerID int64) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.customers[customerID]; !ok {
		return nil, fmt.Errorf("customer %d: %w", customerID, domain.ErrCustomerNotFound)
	}

	result := make([]domain.Order, 0)
	for _, order := range r.orders {
		if order.CustomerID != customerID {
			continue
		}
		result = append(result, order)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("customer %d: %w", customerID, domain.ErrOrderNotFound)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

func (r *repositoryInMemory) checkCustomerAndProduct(customerID, productID int64) error {
	if _, ok := r.customers[customerID]; !ok {
		return fmt.Errorf("customer %d: %w", customerID, domain.ErrCustomerNotFound)
	}
	if _, ok := r.products[productID]; !ok {
		return fmt.Errorf("product %d: %w", productID, domain.ErrProductNotFound)
	}
	return nil
}

var _ domain.OrderRepository = (*repositoryInMemory)(nil)
