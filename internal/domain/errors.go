package domain

import "errors"

var (
	// Ошибка отсутствующего имени клиента.
	ErrNameRequired = errors.New("customer name is required")
	// Ошибка отсутствующего email клиента.
	ErrEmailRequired = errors.New("customer email is required")
	// Ошибка отсутствующего пароля клиента.
	ErrPasswordRequired = errors.New("customer password is required")
	// Ошибка отсутствующего названия товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка отрицательной цены товара.
	ErrPriceNegative = errors.New("product price must be non-negative")
	// Ошибка отрицательного остатка товара.
	ErrStockNegative = errors.New("product stock must be non-negative")
	// Ошибка при некорректном количестве (<= 0) в корзине или заказе.
	ErrQtyInvalid = errors.New("quantity must be greater than zero")
	// Ошибка отсутствия хотя бы одной позиции при оформлении заказа.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка отсутствующего адреса доставки.
	ErrAddressRequired = errors.New("shipping address is required")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrAmountMismatch = errors.New("order total does not match items sum")

	// ErrCustomerNotFound возвращается, если клиент не найден в хранилище.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrProductNotFound возвращается, если товар не найден в хранилище.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound возвращается, если у клиента нет ни одного заказа.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInsufficientStock — остатка товара не хватает на запрошенное количество.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStorageFailure оборачивает ошибки нижележащего хранилища, чтобы
	// вызывающий мог отличить "не найдено" от "хранилище недоступно".
	ErrStorageFailure = errors.New("storage failure")
)

// IsNotFound проверяет, относится ли ошибка к семейству "не найдено".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}

// IsStorageFailure проверяет, вызвана ли ошибка недоступностью хранилища.
func IsStorageFailure(err error) bool {
	return errors.Is(err, ErrStorageFailure)
}
