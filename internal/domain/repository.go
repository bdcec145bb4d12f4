package domain

// OrderRepository — фасад над реляционным хранилищем: клиенты, товары,
// корзины и заказы. Реализации самостоятельно ограничивают время операций;
// все вызовы блокирующие и выполняются до завершения или ошибки.
//
// Конкурентные AddToCart/PlaceOrder по одному клиенту/товару не
// сериализуются фасадом: согласованность остатков обеспечивает транзакция
// оформления (блокировка строк товара), остальное — уровень изоляции БД.
type OrderRepository interface {
	// CreateCustomer регистрирует клиента и возвращает его с присвоенным ID.
	CreateCustomer(customer Customer) (Customer, error)
	// DeleteCustomer удаляет клиента или возвращает ErrCustomerNotFound.
	DeleteCustomer(customerID int64) error

	// CreateProduct создаёт товар и возвращает его с присвоенным ID.
	CreateProduct(product Product) (Product, error)
	// DeleteProduct удаляет товар или возвращает ErrProductNotFound.
	DeleteProduct(productID int64) error

	// AddToCart добавляет товар в корзину клиента; повторное добавление
	// накапливает количество в той же строке, а не перезаписывает его.
	AddToCart(customerID, productID int64, qty int32) error
	// RemoveFromCart удаляет строку корзины целиком независимо от количества.
	RemoveFromCart(customerID, productID int64) error
	// GetAllFromCart возвращает содержимое корзины; пустая корзина — пустой
	// срез, а не ошибка.
	GetAllFromCart(customerID int64) ([]CartItem, error)

	// PlaceOrder атомарно оформляет заказ: проверяет остатки, пишет шапку и
	// позиции, списывает остатки и очищает корзину клиента. При любой ошибке
	// состояние хранилища остаётся неизменным.
	PlaceOrder(customerID int64, lines []OrderLine, shippingAddress string) (Order, error)
	// GetOrdersByCustomer возвращает заказы клиента с позициями.
	// ErrCustomerNotFound проверяется раньше ErrOrderNotFound.
	GetOrdersByCustomer(customerID int64) ([]Order, error)
}
