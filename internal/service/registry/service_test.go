package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/service/registry"
	"github.com/vladislavdragonenkov/pos/internal/storage/memory"
)

func newService() *registry.Service {
	return registry.NewServiceWithoutMetrics(
		memory.NewProductRepository(),
		memory.NewEmployeeRepository(),
		memory.NewCustomerRepository(),
		memory.NewSupplierRepository(),
		memory.NewOutboxRepository(),
	)
}

func TestRegisterProductAssignsSequentialCodes(t *testing.T) {
	svc := newService()

	first, err := svc.RegisterProduct(registry.ProductInput{Name: "Pão Francês", Quantity: 50, PriceMinor: 75})
	require.NoError(t, err)
	require.Equal(t, int64(1), first.Code)
	require.Equal(t, int32(domain.DefaultLowStockThreshold), first.LowStockThreshold)

	second, err := svc.RegisterProduct(registry.ProductInput{Name: "Bolo de Fubá", Quantity: 10, PriceMinor: 1200})
	require.NoError(t, err)
	require.Equal(t, int64(2), second.Code)
}

func TestRegisterProductMergesByName(t *testing.T) {
	svc := newService()

	_, err := svc.RegisterProduct(registry.ProductInput{Name: "Pão Francês", Quantity: 50, PriceMinor: 75})
	require.NoError(t, err)

	// Повторная регистрация по имени без учёта регистра пополняет остаток,
	// цена перезаписывается последней.
	merged, err := svc.RegisterProduct(registry.ProductInput{Name: "pão francês", Quantity: 20, PriceMinor: 80})
	require.NoError(t, err)
	require.Equal(t, int64(1), merged.Code)
	require.Equal(t, int32(70), merged.Quantity)
	require.Equal(t, int64(80), merged.PriceMinor)

	products, err := svc.ListProducts()
	require.NoError(t, err)
	require.Len(t, products, 1)
}

func TestRegisterProductThresholdOverwrite(t *testing.T) {
	svc := newService()

	_, err := svc.RegisterProduct(registry.ProductInput{Name: "Pão Francês", Quantity: 50, PriceMinor: 75, LowStockThreshold: 8})
	require.NoError(t, err)

	// Нулевой порог при пополнении сохраняет прежний.
	kept, err := svc.RegisterProduct(registry.ProductInput{Name: "Pão Francês", Quantity: 5, PriceMinor: 75})
	require.NoError(t, err)
	require.Equal(t, int32(8), kept.LowStockThreshold)

	updated, err := svc.RegisterProduct(registry.ProductInput{Name: "Pão Francês", Quantity: 5, PriceMinor: 75, LowStockThreshold: 12})
	require.NoError(t, err)
	require.Equal(t, int32(12), updated.LowStockThreshold)
}

func TestRegisterProductValidation(t *testing.T) {
	svc := newService()

	_, err := svc.RegisterProduct(registry.ProductInput{Name: "   ", Quantity: 1, PriceMinor: 1})
	require.ErrorIs(t, err, domain.ErrProductNameRequired)

	_, err = svc.RegisterProduct(registry.ProductInput{Name: "Pão", Quantity: -1, PriceMinor: 1})
	require.ErrorIs(t, err, domain.ErrQuantityNegative)

	_, err = svc.RegisterProduct(registry.ProductInput{Name: "Pão", Quantity: 1, PriceMinor: -1})
	require.ErrorIs(t, err, domain.ErrPriceInvalid)
}

func TestLowStockProducts(t *testing.T) {
	svc := newService()

	_, err := svc.RegisterProduct(registry.ProductInput{Name: "Pão Francês", Quantity: 3, PriceMinor: 75})
	require.NoError(t, err)
	_, err = svc.RegisterProduct(registry.ProductInput{Name: "Bolo de Fubá", Quantity: 30, PriceMinor: 1200})
	require.NoError(t, err)

	low, err := svc.LowStockProducts()
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, "Pão Francês", low[0].Name)
}

func TestRegisterEmployeeIdempotent(t *testing.T) {
	svc := newService()

	_, err := svc.RegisterEmployee("Maria")
	require.NoError(t, err)

	// Повторная регистрация не ошибка и не дубликат.
	_, err = svc.RegisterEmployee("maria")
	require.NoError(t, err)

	employees, err := svc.ListEmployees()
	require.NoError(t, err)
	require.Len(t, employees, 1)

	_, err = svc.RegisterEmployee("  ")
	require.ErrorIs(t, err, domain.ErrEmployeeNameRequired)
}

func TestRegisterCustomerKeepsHistoryOnReRegister(t *testing.T) {
	svc := newService()

	customer, err := svc.RegisterCustomer("João")
	require.NoError(t, err)
	require.Empty(t, customer.History)

	again, err := svc.RegisterCustomer("joão")
	require.NoError(t, err)
	require.Equal(t, customer.Name, again.Name)

	customers, err := svc.ListCustomers()
	require.NoError(t, err)
	require.Len(t, customers, 1)
}

func TestRegisterAndRemoveSupplier(t *testing.T) {
	svc := newService()

	supplier, err := svc.RegisterSupplier("Moinho Paulista", "contato@moinho.example")
	require.NoError(t, err)
	require.Equal(t, "Moinho Paulista", supplier.Name)

	require.NoError(t, svc.RemoveSupplier("Moinho Paulista"))

	err = svc.RemoveSupplier("Moinho Paulista")
	require.ErrorIs(t, err, domain.ErrSupplierNotFound)
}
