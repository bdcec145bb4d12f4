package domain

import "time"

// Product — товар каталога.
type Product struct {
	// ID присваивается хранилищем при создании.
	ID   int64
	Name string
	// PriceMinor — цена за единицу в минимальных денежных единицах (например, копейки).
	PriceMinor  int64
	Description string
	// StockQuantity — доступный остаток; уменьшается только оформлением заказа.
	StockQuantity int32
	CreatedAt     time.Time
}

// ValidateInvariants проверяет базовые инварианты товара перед созданием.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrPriceNegative)
	}
	if p.StockQuantity < 0 {
		errs = append(errs, ErrStockNegative)
	}

	return errs
}
