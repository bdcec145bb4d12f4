package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/ecom/internal/domain"
	"github.com/vladislavdragonenkov/ecom/internal/messaging/kafka"
)

// OrderEventPublisher публикует событие об оформленном заказе.
// Реализуется Kafka-producer'ом; nil-публикация допустима.
type OrderEventPublisher interface {
	PublishOrderPlaced(event *kafka.OrderPlacedEvent) error
}

// Console — интерактивное меню магазина. Оно собирает примитивный ввод,
// вызывает публичные операции репозитория и печатает результат; никакой
// бизнес-логики здесь нет.
type Console struct {
	repo      domain.OrderRepository
	publisher OrderEventPublisher
	in        *bufio.Scanner
	out       io.Writer
	logger    *log.Entry
}

// NewConsole создаёт консольное меню поверх репозитория.
func NewConsole(repo domain.OrderRepository, publisher OrderEventPublisher, in io.Reader, out io.Writer) *Console {
	return &Console{
		repo:      repo,
		publisher: publisher,
		in:        bufio.NewScanner(in),
		out:       out,
		logger:    log.WithField("component", "console"),
	}
}

// Run крутит цикл меню до выхода, EOF или отмены контекста.
func (c *Console) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "===== E-Commerce Application System =====")
		fmt.Fprintln(c.out, "1. Register Customer")
		fmt.Fprintln(c.out, "2. Create Product")
		fmt.Fprintln(c.out, "3. Delete Product")
		fmt.Fprintln(c.out, "4. Add to Cart")
		fmt.Fprintln(c.out, "5. View Cart")
		fmt.Fprintln(c.out, "6. Place Order")
		fmt.Fprintln(c.out, "7. View Customer Orders")
		fmt.Fprintln(c.out, "8. Exit")
		fmt.Fprint(c.out, "Enter your choice: ")

		choice, ok := c.readLine()
		if !ok {
			return nil
		}

		switch strings.TrimSpace(choice) {
		case "1":
			c.registerCustomer()
		case "2":
			c.createProduct()
		case "3":
			c.deleteProduct()
		case "4":
			c.addToCart()
		case "5":
			c.viewCart()
		case "6":
			c.placeOrder()
		case "7":
			c.viewCustomerOrders()
		case "8":
			fmt.Fprintln(c.out, "Exiting the system. Goodbye!")
			return nil
		default:
			fmt.Fprintln(c.out, "Invalid choice. Please try again.")
		}
	}
}

func (c *Console) registerCustomer() {
	fmt.Fprintln(c.out, "\n--- Register New Customer ---")

	name, ok := c.prompt("Enter customer name: ")
	if !ok {
		return
	}
	email, ok := c.prompt("Enter email: ")
	if !ok {
		return
	}
	password, ok := c.prompt("Enter password: ")
	if !ok {
		return
	}

	// Пароль в открытом виде не сохраняется.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		c.printError(err)
		return
	}

	customer, err := c.repo.CreateCustomer(domain.Customer{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		c.printError(err)
		return
	}

	fmt.Fprintf(c.out, "Customer registered successfully! ID: %d\n", customer.ID)
}

func (c *Console) createProduct() {
	fmt.Fprintln(c.out, "\n--- Create New Product ---")

	name, ok := c.prompt("Enter product name: ")
	if !ok {
		return
	}
	price, ok := c.promptMoney("Enter price: ")
	if !ok {
		return
	}
	description, ok := c.prompt("Enter description: ")
	if !ok {
		return
	}
	stock, ok := c.promptInt32("Enter stock quantity: ")
	if !ok {
		return
	}

	product, err := c.repo.CreateProduct(domain.Product{
		Name:          name,
		PriceMinor:    price,
		Description:   description,
		StockQuantity: stock,
	})
	if err != nil {
		c.printError(err)
		return
	}

	fmt.Fprintf(c.out, "Product created successfully! ID: %d\n", product.ID)
}

func (c *Console) deleteProduct() {
	fmt.Fprintln(c.out, "\n--- Delete Product ---")

	productID, ok := c.promptInt("Enter product ID to delete: ")
	if !ok {
		return
	}

	if err := c.repo.DeleteProduct(productID); err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.out, "Product deleted successfully!")
}

func (c *Console) addToCart() {
	fmt.Fprintln(c.out, "\n--- Add Product to Cart ---")

	customerID, ok := c.promptInt("Enter customer ID: ")
	if !ok {
		return
	}
	productID, ok := c.promptInt("Enter product ID: ")
	if !ok {
		return
	}
	qty, ok := c.promptInt32("Enter quantity: ")
	if !ok {
		return
	}

	if err := c.repo.AddToCart(customerID, productID, qty); err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.out, "Product added to cart successfully!")
}

func (c *Console) viewCart() {
	fmt.Fprintln(c.out, "\n--- View Cart ---")

	customerID, ok := c.promptInt("Enter customer ID: ")
	if !ok {
		return
	}

	items, err := c.repo.GetAllFromCart(customerID)
	if err != nil {
		c.printError(err)
		return
	}
	if len(items) == 0 {
		fmt.Fprintln(c.out, "Cart is empty.")
		return
	}

	for _, item := range items {
		fmt.Fprintf(c.out, "  [%d] %s x%d @ %s (in stock: %d)\n",
			item.Product.ID, item.Product.Name, item.Qty,
			formatMinor(item.Product.PriceMinor), item.Product.StockQuantity)
	}
}

func (c *Console) placeOrder() {
	fmt.Fprintln(c.out, "\n--- Place Order ---")

	customerID, ok := c.promptInt("Enter customer ID: ")
	if !ok {
		return
	}

	// Заказ оформляется на текущее содержимое корзины.
	items, err := c.repo.GetAllFromCart(customerID)
	if err != nil {
		c.printError(err)
		return
	}
	if len(items) == 0 {
		fmt.Fprintln(c.out, "Cart is empty. Add products before placing an order.")
		return
	}

	lines := make([]domain.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.OrderLine{ProductID: item.Product.ID, Qty: item.Qty})
	}

	address, ok := c.prompt("Enter shipping address: ")
	if !ok {
		return
	}

	order, err := c.repo.PlaceOrder(customerID, lines, address)
	if err != nil {
		c.printError(err)
		return
	}

	fmt.Fprintf(c.out, "Order placed successfully! ID: %d, total: %s\n",
		order.ID, formatMinor(order.TotalMinor))

	c.publishOrderPlaced(order)
}

func (c *Console) viewCustomerOrders() {
	fmt.Fprintln(c.out, "\n--- View Customer Orders ---")

	customerID, ok := c.promptInt("Enter customer ID: ")
	if !ok {
		return
	}

	orders, err := c.repo.GetOrdersByCustomer(customerID)
	if err != nil {
		c.printError(err)
		return
	}

	for _, order := range orders {
		fmt.Fprintf(c.out, "Order #%d (%s) total %s, ship to: %s\n",
			order.ID, order.CreatedAt.Format("2006-01-02 15:04:05"),
			formatMinor(order.TotalMinor), order.ShippingAddress)
		for _, item := range order.Items {
			fmt.Fprintf(c.out, "  [%d] %s x%d @ %s\n",
				item.ProductID, item.ProductName, item.Qty, formatMinor(item.PriceMinor))
		}
	}
}

// publishOrderPlaced отправляет событие best-effort: сбой публикации не
// отменяет уже закоммиченный заказ.
func (c *Console) publishOrderPlaced(order domain.Order) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.PublishOrderPlaced(kafka.NewOrderPlacedEvent(order)); err != nil {
		c.logger.WithError(err).WithField("order_id", order.ID).
			Warn("failed to publish order event")
	}
}

func (c *Console) printError(err error) {
	switch {
	case domain.IsNotFound(err):
		fmt.Fprintf(c.out, "Error: %v\n", err)
	case errors.Is(err, domain.ErrInsufficientStock):
		fmt.Fprintf(c.out, "Error: %v\n", err)
	case domain.IsStorageFailure(err):
		c.logger.WithError(err).Error("storage failure")
		fmt.Fprintln(c.out, "Error: storage is unavailable, please try again later.")
	default:
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
}

func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

func (c *Console) prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	line, ok := c.readLine()
	return strings.TrimSpace(line), ok
}

func (c *Console) promptInt(label string) (int64, bool) {
	raw, ok := c.prompt(label)
	if !ok {
		return 0, false
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Fprintf(c.out, "Invalid number: %s\n", raw)
		return 0, false
	}
	return value, true
}

// promptInt32 читает число, которое должно помещаться в int32: количества и
// остатки хранятся 32-битными, молчаливое усечение недопустимо.
func (c *Console) promptInt32(label string) (int32, bool) {
	raw, ok := c.prompt(label)
	if !ok {
		return 0, false
	}
	value, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		fmt.Fprintf(c.out, "Invalid number: %s\n", raw)
		return 0, false
	}
	return int32(value), true
}

func (c *Console) promptMoney(label string) (int64, bool) {
	raw, ok := c.prompt(label)
	if !ok {
		return 0, false
	}
	value, err := parseMoneyMinor(raw)
	if err != nil {
		fmt.Fprintf(c.out, "Invalid price: %s\n", raw)
		return 0, false
	}
	return value, true
}
