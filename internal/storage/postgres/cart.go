package postgres

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/ecom/internal/domain"
)

func (r *repository) AddToCart(customerID, productID int64, qty int32) error {
	if qty <= 0 {
		return domain.ErrQtyInvalid
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := r.checkCustomerAndProduct(ctx, customerID, productID); err != nil {
		return err
	}

	// Upsert с накоплением: повторное добавление того же товара увеличивает
	// количество существующей строки, а не перезаписывает его.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart (customer_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (customer_id, product_id)
		DO UPDATE SET quantity = cart.quantity + EXCLUDED.quantity
	`, customerID, productID, qty)
	if err != nil {
		return storageErr("upsert cart line", err)
	}

	return nil
}

func (r *repository) RemoveFromCart(customerID, productID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := r.checkCustomerAndProduct(ctx, customerID, productID); err != nil {
		return err
	}

	// Строка удаляется целиком независимо от накопленного количества.
	// Отсутствие строки ошибкой не считается.
	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM cart WHERE customer_id = $1 AND product_id = $2
	`, customerID, productID); err != nil {
		return storageErr("delete cart line", err)
	}

	return nil
}

func (r *repository) GetAllFromCart(customerID int64) ([]domain.CartItem, error) {
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
		SELECT p.product_id, p.name, p.price_minor, p.description, p.stock_quantity, p.created_at, c.quantity
		FROM cart c
		JOIN products p ON p.product_id = c.product_id
		WHERE c.customer_id = $1
		ORDER BY p.product_id
	`, customerID)
	if err != nil {
		return nil, storageErr("select cart", err)
	}
	defer rows.Close()

	items := make([]domain.CartItem, 0)
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.Product.ID, &item.Product.Name, &item.Product.PriceMinor,
			&item.Product.Description, &item.Product.StockQuantity,
			&item.Product.CreatedAt, &item.Qty,
		); err != nil {
			return nil, storageErr("scan cart line", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate cart lines", err)
	}

	return items, nil
}

// checkCustomerAndProduct выполняет guard-проверки существования обеих
// сущностей перед мутацией корзины: сначала клиент, затем товар.
func (r *repository) checkCustomerAndProduct(ctx context.Context, customerID, productID int64) error {
	exists, err := r.customerExists(ctx, r.db, customerID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("customer %d: %w", customerID, domain.ErrCustomerNotFound)
	}

	exists, err = r.productExists(ctx, r.db, productID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("product %d: %w", productID, domain.ErrProductNotFound)
	}

	return nil
}
