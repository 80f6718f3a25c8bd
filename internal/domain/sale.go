package domain

import "time"

// SaleKind описывает вид продажи.
type SaleKind string

const (
	// SaleKindImmediate — продажа за наличный расчёт: списывает остаток, считается оплаченной.
	SaleKindImmediate SaleKind = "immediate"
	// SaleKindReserved — продажа в долг на счёт клиента; остаток не списывается.
	SaleKindReserved SaleKind = "reserved"
	// SaleKindPaid — терминальный вид записи после погашения долга клиентом.
	SaleKindPaid SaleKind = "paid"
)

// Valid проверяет, что вид продажи допустим на входе операции.
// SaleKindPaid назначается только при погашении и не принимается извне.
func (k SaleKind) Valid() bool {
	return k == SaleKindImmediate || k == SaleKindReserved
}

// SaleRecord — плоская запись журнала продаж. Неизменяема после добавления.
type SaleRecord struct {
	ID          string
	ProductCode int64
	ProductName string
	// Qty — проданное количество единиц.
	Qty int32
	// UnitPriceMinor — цена за единицу на момент продажи.
	UnitPriceMinor int64
	// TotalMinor всегда пересчитывается как Qty * UnitPriceMinor при создании.
	TotalMinor int64
	Kind       SaleKind
	// Clerk — сотрудник, оформивший продажу.
	Clerk string
	// Customer — имя клиента; пустое для анонимной продажи.
	Customer string
	SoldAt   time.Time
}

// ValidateInvariants проверяет запись журнала и возвращает список замечаний.
func (s *SaleRecord) ValidateInvariants() []error {
	var errs []error

	if s.Qty <= 0 {
		errs = append(errs, ErrQuantityInvalid)
	}
	if s.UnitPriceMinor < 0 {
		errs = append(errs, ErrPriceInvalid)
	}
	if s.Kind != SaleKindImmediate && s.Kind != SaleKindReserved && s.Kind != SaleKindPaid {
		errs = append(errs, ErrSaleKindInvalid)
	}
	if s.Clerk == "" {
		errs = append(errs, ErrClerkRequired)
	}
	if s.TotalMinor != int64(s.Qty)*s.UnitPriceMinor {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}
