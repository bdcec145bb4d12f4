package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ecom/internal/domain"
)

const (
	opTimeout = 5 * time.Second
	// txTimeout покрывает всю транзакцию оформления заказа.
	txTimeout = 10 * time.Second
)

type repository struct {
	db     *sql.DB
	logger *log.Entry
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &repository{
		db:     store.DB(),
		logger: log.WithField("component", "postgres-repository"),
	}
}

// storageErr помечает ошибку хранилища, сохраняя исходную причину в цепочке.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageFailure, err)
}

func (r *repository) CreateCustomer(customer domain.Customer) (domain.Customer, error) {
	if errs := customer.ValidateInvariants(); len(errs) > 0 {
		return domain.Customer{}, errors.Join(errs...)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO customers (name, email, password)
		VALUES ($1, $2, $3)
		RETURNING customer_id, created_at
	`, customer.Name, customer.Email, customer.PasswordHash).
		Scan(&customer.ID, &customer.CreatedAt)
	if err != nil {
		return domain.Customer{}, storageErr("insert customer", err)
	}

	return customer, nil
}

func (r *repository) DeleteCustomer(customerID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	// Проверка существования идёт первой, чтобы вернуть конкретную ошибку
	// вместо безликого "0 rows affected".
	exists, err := r.customerExists(ctx, r.db, customerID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("customer %d: %w", customerID, domain.ErrCustomerNotFound)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE customer_id = $1`, customerID); err != nil {
		return storageErr("delete customer", err)
	}

	return nil
}

func (r *repository) CreateProduct(product domain.Product) (domain.Product, error) {
	if errs := product.ValidateInvariants(); len(errs) > 0 {
		return domain.Product{}, errors.Join(errs...)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, price_minor, description, stock_quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING product_id, created_at
	`, product.Name, product.PriceMinor, product.Description, product.StockQuantity).
		Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		return domain.Product{}, storageErr("insert product", err)
	}

	return product, nil
}

func (r *repository) DeleteProduct(productID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	exists, err := r.productExists(ctx, r.db, productID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("product %d: %w", productID, domain.ErrProductNotFound)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE product_id = $1`, productID); err != nil {
		return storageErr("delete product", err)
	}

	return nil
}

// querier объединяет *sql.DB и *sql.Tx для guard-запросов.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *repository) customerExists(ctx context.Context, q querier, customerID int64) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM customers WHERE customer_id = $1`, customerID).Scan(&one)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, storageErr("check customer exists", err)
}

func (r *repository) productExists(ctx context.Context, q querier, productID int64) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM products WHERE product_id = $1`, productID).Scan(&one)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, storageErr("check product exists", err)
}

// isCheckViolation распознаёт нарушение CHECK-ограничения (SQLSTATE 23514).
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23514"
	}
	return false
}

var _ domain.OrderRepository = (*repository)(nil)
