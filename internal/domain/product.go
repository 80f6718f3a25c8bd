package domain

import (
	"strings"
	"time"
)

// DefaultLowStockThreshold — порог предупреждения о низком остатке,
// если при регистрации не задан явный.
const DefaultLowStockThreshold = 5

// Product описывает позицию каталога магазина.
type Product struct {
	// Code — последовательный код товара, назначается хранилищем.
	Code int64
	// Name — имя товара, уникально без учёта регистра.
	Name string
	// Quantity — остаток на складе, никогда не уходит в минус.
	Quantity int32
	// PriceMinor — цена за единицу в минимальных денежных единицах (сентаво).
	PriceMinor int64
	// LowStockThreshold — порог низкого остатка для advisory-предупреждений.
	LowStockThreshold int32
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ValidateInvariants проверяет базовые инварианты товара и возвращает список замечаний.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.Quantity < 0 {
		errs = append(errs, ErrQuantityNegative)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrPriceInvalid)
	}

	return errs
}

// LowStock сообщает, достиг ли остаток порога предупреждения.
func (p *Product) LowStock() bool {
	return p.Quantity <= p.LowStockThreshold
}

// NormalizeName приводит имя к канонической форме для сравнения без учёта регистра.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
