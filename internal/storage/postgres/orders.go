package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ecom/internal/domain"
)

func (r *repository) PlaceOrder(customerID int64, lines []domain.OrderLine, shippingAddress string) (domain.Order, error) {
	lines, err := domain.NormalizeLines(lines)
	if err != nil {
		return domain.Order{}, err
	}
	if shippingAddress == "" {
		return domain.Order{}, domain.ErrAddressRequired
	}

	ctx, cancel := context.WithTimeout(context.Background(), txTimeout)
	defer cancel()

	// Fail-fast до открытия транзакции: несуществующий клиент не должен
	// стоить нам блокировок строк товаров.
	exists, err := r.customerExists(ctx, r.db, customerID)
	if err != nil {
		return domain.Order{}, err
	}
	if !exists {
		return domain.Order{}, fmt.Errorf("customer %d: %w", customerID, domain.ErrCustomerNotFound)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, storageErr("begin place order tx", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	order := domain.Order{
		CustomerID:      customerID,
		ShippingAddress: shippingAddress,
		Items:           make([]domain.OrderItem, 0, len(lines)),
	}

	// Проверка остатков и фиксация цен под блокировкой строк: FOR UPDATE
	// закрывает гонку read-then-write между конкурентными оформлениями.
	for _, line := range lines {
		var (
			name       string
			priceMinor int64
			stock      int32
		)
		err = tx.QueryRowContext(ctx, `
			SELECT name, price_minor, stock_quantity
			FROM products
			WHERE product_id = $1
			FOR UPDATE
		`, line.ProductID).Scan(&name, &priceMinor, &stock)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				err = fmt.Errorf("product %d: %w", line.ProductID, domain.ErrProductNotFound)
				return domain.Order{}, err
			}
			err = storageErr("lock product row", err)
			return domain.Order{}, err
		}
		if stock < line.Qty {
			err = fmt.Errorf("product %d: have %d, want %d: %w",
				line.ProductID, stock, line.Qty, domain.ErrInsufficientStock)
			return domain.Order{}, err
		}

		order.Items = append(order.Items, domain.OrderItem{
			ProductID:   line.ProductID,
			ProductName: name,
			Qty:         line.Qty,
			PriceMinor:  priceMinor,
		})
		order.TotalMinor += int64(line.Qty) * priceMinor
	}

	// Шапка заказа; сгенерированный идентификатор забираем через RETURNING.
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, total_minor, shipping_address)
		VALUES ($1, $2, $3)
		RETURNING order_id, created_at
	`, customerID, order.TotalMinor, shippingAddress).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		err = storageErr("insert order header", err)
		return domain.Order{}, err
	}

	for _, item := range order.Items {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price_minor)
			VALUES ($1, $2, $3, $4)
		`, order.ID, item.ProductID, item.Qty, item.PriceMinor); err != nil {
			err = storageErr("insert order item", err)
			return domain.Order{}, err
		}

		if _, err = tx.ExecContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity - $1
			WHERE product_id = $2
		`, item.Qty, item.ProductID); err != nil {
			// Схема страхует инвариант stock >= 0; при FOR UPDATE выше сюда
			// попадать не должны.
			if isCheckViolation(err) {
				err = fmt.Errorf("product %d: %w", item.ProductID, domain.ErrInsufficientStock)
				return domain.Order{}, err
			}
			err = storageErr("decrement stock", err)
			return domain.Order{}, err
		}
	}

	// Корзина очищается целиком, а не по оформленным позициям.
	if _, err = tx.ExecContext(ctx, `DELETE FROM cart WHERE customer_id = $1`, customerID); err != nil {
		err = storageErr("clear cart", err)
		return domain.Order{}, err
	}

	if err = tx.Commit(); err != nil {
		err = storageErr("commit place order", err)
		return domain.Order{}, err
	}

	r.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"customer_id": customerID,
		"total_minor": order.TotalMinor,
		"items":       len(order.Items),
	}).Info("order placed")

	return order, nil
}

func (r *repository) GetOrdersByCustomer(customerID int64) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	exists, err := r.customerExists(ctx, r.db, customerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("customer %d: %w", customerID, domain.ErrCustomerNotFound)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, customer_id, total_minor, shipping_address, created_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC, order_id DESC
	`, customerID)
	if err != nil {
		return nil, storageErr("list orders", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID, &order.CustomerID, &order.TotalMinor,
			&order.ShippingAddress, &order.CreatedAt,
		); err != nil {
			return nil, storageErr("scan order row", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate order rows", err)
	}

	if len(orders) == 0 {
		return nil, fmt.Errorf("customer %d: %w", customerID, domain.ErrOrderNotFound)
	}

	result := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		items, err := r.loadItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		// Заказ без позиций (например, товар удалён из каталога) из выдачи
		// выпадает; при атомарном оформлении таких заказов быть не должно.
		if len(items) == 0 {
			continue
		}
		order.Items = items
		result = append(result, order)
	}

	return result, nil
}

func (r *repository) loadItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.product_id, p.name, oi.quantity, oi.price_minor
		FROM order_items oi
		JOIN products p ON p.product_id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.product_id
	`, orderID)
	if err != nil {
		return nil, storageErr("load order items", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Qty, &item.PriceMinor); err != nil {
			return nil, storageErr("scan order item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate order items", err)
	}

	return items, nil
}
