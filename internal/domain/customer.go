package domain

import "time"

// HistoryEntry — зеркальная запись продажи в личной истории клиента.
// Запись неизменяема после добавления, кроме смены вида reserved → paid
// при погашении долга.
type HistoryEntry struct {
	SaleID      string
	ProductName string
	Qty         int32
	TotalMinor  int64
	Kind        SaleKind
	RecordedAt  time.Time
}

// Customer агрегирует клиента и его историю покупок.
// Клиент создаётся явно или неявно первой продажей с его именем; никогда не удаляется.
type Customer struct {
	// Name уникально без учёта регистра.
	Name      string
	History   []HistoryEntry
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OpenBalanceMinor возвращает открытый долг клиента: сумму записей вида reserved.
func (c *Customer) OpenBalanceMinor() int64 {
	var total int64
	for _, entry := range c.History {
		if entry.Kind == SaleKindReserved {
			total += entry.TotalMinor
		}
	}
	return total
}

// Settle переводит все записи reserved в paid (всё или ничего) и возвращает
// погашенную сумму и число затронутых записей. Записи immediate не трогаются.
func (c *Customer) Settle() (settledMinor int64, entries int) {
	for i := range c.History {
		if c.History[i].Kind != SaleKindReserved {
			continue
		}
		settledMinor += c.History[i].TotalMinor
		c.History[i].Kind = SaleKindPaid
		entries++
	}
	return settledMinor, entries
}
