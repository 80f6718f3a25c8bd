package sale_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/service/sale"
	"github.com/vladislavdragonenkov/pos/internal/storage/memory"
)

type fixtures struct {
	products  domain.ProductRepository
	employees domain.EmployeeRepository
	customers domain.CustomerRepository
	ledger    domain.LedgerRepository
	outbox    domain.OutboxRepository
	service   *sale.Service
}

func newFixtures(t *testing.T) *fixtures {
	t.Helper()

	f := &fixtures{
		products:  memory.NewProductRepository(),
		employees: memory.NewEmployeeRepository(),
		customers: memory.NewCustomerRepository(),
		ledger:    memory.NewLedgerRepository(),
		outbox:    memory.NewOutboxRepository(),
	}
	f.service = sale.NewServiceWithoutMetrics(f.products, f.employees, f.customers, f.ledger, f.outbox)

	_, err := f.products.Create(domain.Product{
		Name:              "Pão Francês",
		Quantity:          50,
		PriceMinor:        75,
		LowStockThreshold: domain.DefaultLowStockThreshold,
	})
	require.NoError(t, err)

	require.NoError(t, f.employees.Create(domain.Employee{Name: "Maria"}))

	return f
}

func TestRegisterImmediateDecrementsStock(t *testing.T) {
	f := newFixtures(t)

	record, err := f.service.Register(sale.Input{
		ProductCode: 1,
		Clerk:       "Maria",
		Qty:         10,
		Kind:        domain.SaleKindImmediate,
	})
	require.NoError(t, err)
	require.Equal(t, int64(750), record.TotalMinor)
	require.Equal(t, "Pão Francês", record.ProductName)
	require.Equal(t, "Maria", record.Clerk)

	product, err := f.products.Get(1)
	require.NoError(t, err)
	require.Equal(t, int32(40), product.Quantity)

	records, err := f.ledger.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, domain.SaleKindImmediate, records[0].Kind)
}

func TestRegisterInsufficientStockLeavesStateUntouched(t *testing.T) {
	f := newFixtures(t)

	_, err := f.service.Register(sale.Input{
		ProductCode: 1,
		Clerk:       "Maria",
		Qty:         10,
		Kind:        domain.SaleKindImmediate,
	})
	require.NoError(t, err)

	_, err = f.service.Register(sale.Input{
		ProductCode: 1,
		Clerk:       "Maria",
		Qty:         45,
		Kind:        domain.SaleKindImmediate,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	product, err := f.products.Get(1)
	require.NoError(t, err)
	require.Equal(t, int32(40), product.Quantity)

	records, err := f.ledger.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	f := newFixtures(t)

	cases := []struct {
		name  string
		input sale.Input
		want  error
	}{
		{
			name:  "zero quantity",
			input: sale.Input{ProductCode: 1, Clerk: "Maria", Qty: 0, Kind: domain.SaleKindImmediate},
			want:  domain.ErrQuantityInvalid,
		},
		{
			name:  "unknown kind",
			input: sale.Input{ProductCode: 1, Clerk: "Maria", Qty: 1, Kind: domain.SaleKind("credit")},
			want:  domain.ErrSaleKindInvalid,
		},
		{
			name:  "paid is not accepted on input",
			input: sale.Input{ProductCode: 1, Clerk: "Maria", Qty: 1, Kind: domain.SaleKindPaid},
			want:  domain.ErrSaleKindInvalid,
		},
		{
			name:  "reserved without customer",
			input: sale.Input{ProductCode: 1, Clerk: "Maria", Qty: 1, Kind: domain.SaleKindReserved},
			want:  domain.ErrCustomerRequired,
		},
		{
			name:  "unknown clerk",
			input: sale.Input{ProductCode: 1, Clerk: "Ghost", Qty: 1, Kind: domain.SaleKindImmediate},
			want:  domain.ErrEmployeeNotFound,
		},
		{
			name:  "unknown product",
			input: sale.Input{ProductCode: 99, Clerk: "Maria", Qty: 1, Kind: domain.SaleKindImmediate},
			want:  domain.ErrProductNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Register(tc.input)
			require.ErrorIs(t, err, tc.want)
		})
	}

	records, err := f.ledger.List()
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestRegisterReservedKeepsStockAndCreatesCustomer(t *testing.T) {
	f := newFixtures(t)

	record, err := f.service.Register(sale.Input{
		ProductCode: 1,
		Clerk:       "Maria",
		Customer:    "João",
		Qty:         4,
		Kind:        domain.SaleKindReserved,
	})
	require.NoError(t, err)
	require.Equal(t, int64(300), record.TotalMinor)

	product, err := f.products.Get(1)
	require.NoError(t, err)
	require.Equal(t, int32(50), product.Quantity, "reserved sale must not decrement stock")

	customer, err := f.customers.Get("joão")
	require.NoError(t, err)
	require.Len(t, customer.History, 1)
	require.Equal(t, domain.SaleKindReserved, customer.History[0].Kind)

	balance, err := f.service.OpenBalance("João")
	require.NoError(t, err)
	require.Equal(t, int64(300), balance)
}

func TestRegisterImmediateWithCustomerMirrorsHistory(t *testing.T) {
	f := newFixtures(t)

	_, err := f.service.Register(sale.Input{
		ProductCode: 1,
		Clerk:       "Maria",
		Customer:    "João",
		Qty:         2,
		Kind:        domain.SaleKindImmediate,
	})
	require.NoError(t, err)

	customer, err := f.customers.Get("João")
	require.NoError(t, err)
	require.Len(t, customer.History, 1)
	require.Equal(t, domain.SaleKindImmediate, customer.History[0].Kind)

	// Immediate-запись не формирует долг.
	balance, err := f.service.OpenBalance("João")
	require.NoError(t, err)
	require.Zero(t, balance)
}

func TestSettleFlipsReservedToPaid(t *testing.T) {
	f := newFixtures(t)

	_, err := f.service.Register(sale.Input{
		ProductCode: 1,
		Clerk:       "Maria",
		Customer:    "João",
		Qty:         4,
		Kind:        domain.SaleKindReserved,
	})
	require.NoError(t, err)

	_, err = f.service.Register(sale.Input{
		ProductCode: 1,
		Clerk:       "Maria",
		Customer:    "João",
		Qty:         2,
		Kind:        domain.SaleKindImmediate,
	})
	require.NoError(t, err)

	settlement, err := f.service.Settle("João")
	require.NoError(t, err)
	require.Equal(t, int64(300), settlement.SettledMinor)
	require.Equal(t, 1, settlement.Entries)

	customer, err := f.customers.Get("João")
	require.NoError(t, err)
	require.Len(t, customer.History, 2)
	for _, entry := range customer.History {
		require.NotEqual(t, domain.SaleKindReserved, entry.Kind)
	}

	balance, err := f.service.OpenBalance("João")
	require.NoError(t, err)
	require.Zero(t, balance)
}

func TestSettleWithoutDebtIsNoop(t *testing.T) {
	f := newFixtures(t)

	require.NoError(t, f.customers.Create(domain.Customer{Name: "João"}))

	settlement, err := f.service.Settle("João")
	require.NoError(t, err)
	require.Zero(t, settlement.SettledMinor)
	require.Zero(t, settlement.Entries)
}

func TestSettleUnknownCustomer(t *testing.T) {
	f := newFixtures(t)

	_, err := f.service.Settle("Ghost")
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestRegisterEmitsOutboxEvents(t *testing.T) {
	f := newFixtures(t)

	_, err := f.service.Register(sale.Input{
		ProductCode: 1,
		Clerk:       "Maria",
		Qty:         10,
		Kind:        domain.SaleKindImmediate,
	})
	require.NoError(t, err)

	pending, err := f.outbox.PullPending(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "sale.registered", pending[0].EventType)
}

func TestRegisterLowStockAdvisory(t *testing.T) {
	f := newFixtures(t)

	// Остаток 50, порог 5: продажа 45 единиц доводит остаток ровно до порога.
	_, err := f.service.Register(sale.Input{
		ProductCode: 1,
		Clerk:       "Maria",
		Qty:         45,
		Kind:        domain.SaleKindImmediate,
	})
	require.NoError(t, err)

	pending, err := f.outbox.PullPending(10)
	require.NoError(t, err)

	var sawLowStock bool
	for _, msg := range pending {
		if msg.EventType == "stock.low" {
			sawLowStock = true
		}
	}
	require.True(t, sawLowStock, "expected a stock.low advisory in the outbox")
}
