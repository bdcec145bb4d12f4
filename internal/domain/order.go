package domain

import "time"

// OrderLine — запрошенная позиция при оформлении заказа.
// Цена здесь отсутствует намеренно: она берётся из хранилища в момент
// оформления, а не из данных вызывающего.
type OrderLine struct {
	ProductID int64
	Qty       int32
}

// OrderItem — позиция уже оформленного заказа с зафиксированной ценой.
type OrderItem struct {
	ProductID int64
	// ProductName снимается с товара в момент оформления.
	ProductName string
	Qty         int32
	// PriceMinor — цена за единицу на момент заказа; последующие изменения
	// цены товара на неё не влияют.
	PriceMinor int64
}

// Order агрегирует шапку заказа и его позиции.
type Order struct {
	ID         int64
	CustomerID int64
	// TotalMinor — производная сумма: Σ(qty * price) по позициям.
	TotalMinor      int64
	ShippingAddress string
	Items           []OrderItem
	CreatedAt       time.Time
}

// ValidateInvariants сверяет сумму заказа с суммой позиций.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if o.ShippingAddress == "" {
		errs = append(errs, ErrAddressRequired)
	}

	var calc int64
	for _, item := range o.Items {
		if item.Qty <= 0 {
			errs = append(errs, ErrQtyInvalid)
		}
		if item.PriceMinor < 0 {
			errs = append(errs, ErrPriceNegative)
		}
		calc += int64(item.Qty) * item.PriceMinor
	}
	if calc != o.TotalMinor {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}

// NormalizeLines проверяет позиции перед открытием транзакции оформления и
// сливает дубликаты одного товара в одну строку, сохраняя порядок первого
// появления. Проверка остатка поэтому всегда видит суммарное количество по
// товару, а не отдельные строки.
func NormalizeLines(lines []OrderLine) ([]OrderLine, error) {
	if len(lines) == 0 {
		return nil, ErrItemsRequired
	}

	index := make(map[int64]int, len(lines))
	result := make([]OrderLine, 0, len(lines))
	for _, line := range lines {
		if line.Qty <= 0 {
			return nil, ErrQtyInvalid
		}
		if i, ok := index[line.ProductID]; ok {
			result[i].Qty += line.Qty
			continue
		}
		index[line.ProductID] = len(result)
		result = append(result, line)
	}

	return result, nil
}
