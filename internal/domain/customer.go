package domain

import "time"

// Customer — зарегистрированный покупатель.
type Customer struct {
	// ID присваивается хранилищем при регистрации.
	ID    int64
	Name  string
	Email string
	// PasswordHash хранит хеш пароля; фасад не интерпретирует его содержимое.
	PasswordHash string
	CreatedAt    time.Time
}

// ValidateInvariants проверяет базовые инварианты клиента перед регистрацией.
func (c *Customer) ValidateInvariants() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, ErrNameRequired)
	}
	if c.Email == "" {
		errs = append(errs, ErrEmailRequired)
	}
	if c.PasswordHash == "" {
		errs = append(errs, ErrPasswordRequired)
	}

	return errs
}
