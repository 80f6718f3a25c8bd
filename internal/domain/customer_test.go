package domain_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

func makeCustomer() domain.Customer {
	now := time.Now().UTC()
	return domain.Customer{
		Name: "João",
		History: []domain.HistoryEntry{
			{SaleID: "sale-1", ProductName: "Pão Francês", Qty: 10, TotalMinor: 750, Kind: domain.SaleKindImmediate, RecordedAt: now},
			{SaleID: "sale-2", ProductName: "Bolo", Qty: 1, TotalMinor: 1500, Kind: domain.SaleKindReserved, RecordedAt: now},
			{SaleID: "sale-3", ProductName: "Café", Qty: 2, TotalMinor: 400, Kind: domain.SaleKindReserved, RecordedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCustomerOpenBalance(t *testing.T) {
	customer := makeCustomer()
	if got := customer.OpenBalanceMinor(); got != 1900 {
		t.Fatalf("expected open balance 1900, got %d", got)
	}
}

func TestCustomerSettle(t *testing.T) {
	customer := makeCustomer()

	settled, entries := customer.Settle()
	if settled != 1900 {
		t.Fatalf("expected settled total 1900, got %d", settled)
	}
	if entries != 2 {
		t.Fatalf("expected 2 settled entries, got %d", entries)
	}
	if got := customer.OpenBalanceMinor(); got != 0 {
		t.Fatalf("expected zero balance after settle, got %d", got)
	}
	// Запись immediate не должна быть переклассифицирована.
	if customer.History[0].Kind != domain.SaleKindImmediate {
		t.Fatalf("immediate entry must stay immediate, got %s", customer.History[0].Kind)
	}
	for _, entry := range customer.History[1:] {
		if entry.Kind != domain.SaleKindPaid {
			t.Fatalf("reserved entry must become paid, got %s", entry.Kind)
		}
	}
}

func TestCustomerSettle_Empty(t *testing.T) {
	customer := domain.Customer{Name: "Maria"}
	settled, entries := customer.Settle()
	if settled != 0 || entries != 0 {
		t.Fatalf("expected noop settle, got total=%d entries=%d", settled, entries)
	}
}
