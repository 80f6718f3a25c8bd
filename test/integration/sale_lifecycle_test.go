package integration

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/service/auth"
	"github.com/vladislavdragonenkov/pos/internal/service/registry"
	"github.com/vladislavdragonenkov/pos/internal/service/report"
	"github.com/vladislavdragonenkov/pos/internal/service/sale"
	"github.com/vladislavdragonenkov/pos/internal/storage/memory"
)

// SaleLifecycleTestSuite тестирует полный жизненный цикл продаж:
// регистрация каталога, продажа, резерв, расчёт и отчёт.
type SaleLifecycleTestSuite struct {
	suite.Suite
	registry *registry.Service
	sales    *sale.Service
	reports  *report.Service
	auth     *auth.Service
	products domain.ProductRepository
	outbox   domain.OutboxRepository
}

func (suite *SaleLifecycleTestSuite) SetupTest() {
	log.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах

	suite.products = memory.NewProductRepository()
	employees := memory.NewEmployeeRepository()
	customers := memory.NewCustomerRepository()
	suppliers := memory.NewSupplierRepository()
	ledger := memory.NewLedgerRepository()
	users := memory.NewUserRepository()
	suite.outbox = memory.NewOutboxRepository()

	suite.registry = registry.NewServiceWithoutMetrics(
		suite.products, employees, customers, suppliers, suite.outbox)
	suite.sales = sale.NewServiceWithoutMetrics(
		suite.products, employees, customers, ledger, suite.outbox)
	suite.reports = report.NewService(ledger)
	suite.auth = auth.NewService(users)
}

func (suite *SaleLifecycleTestSuite) TestImmediateSaleLifecycle() {
	// 1. Регистрируем товар и сотрудника
	product, err := suite.registry.RegisterProduct(registry.ProductInput{
		Name:       "Pão Francês",
		Quantity:   50,
		PriceMinor: 75,
	})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int32(50), product.Quantity)

	_, err = suite.registry.RegisterEmployee("Maria")
	require.NoError(suite.T(), err)

	// 2. Продаём за наличные
	record, err := suite.sales.Register(sale.Input{
		ProductCode: product.Code,
		Clerk:       "Maria",
		Qty:         10,
		Kind:        domain.SaleKindImmediate,
	})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(750), record.TotalMinor)

	// 3. Остаток уменьшился
	updated, err := suite.registry.GetProduct(product.Code)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int32(40), updated.Quantity)

	// 4. Событие продажи попало в outbox
	pending, err := suite.outbox.PullPending(10)
	require.NoError(suite.T(), err)

	var saleEvents int
	for _, msg := range pending {
		if msg.EventType == "sale.registered" {
			saleEvents++
		}
	}
	require.Equal(suite.T(), 1, saleEvents)

	// 5. Продажа видна в дневном отчёте
	rep, err := suite.reports.Build(report.PeriodDaily, time.Now().UTC())
	require.NoError(suite.T(), err)
	require.Len(suite.T(), rep.Records, 1)
	require.Equal(suite.T(), int64(750), rep.TotalMinor)
}

func (suite *SaleLifecycleTestSuite) TestReservedSaleSettlementLifecycle() {
	product, err := suite.registry.RegisterProduct(registry.ProductInput{
		Name:       "Bolo de Chocolate",
		Quantity:   10,
		PriceMinor: 1500,
	})
	require.NoError(suite.T(), err)

	_, err = suite.registry.RegisterEmployee("Maria")
	require.NoError(suite.T(), err)

	// Резерв на клиента: остаток не трогаем, долг растёт
	_, err = suite.sales.Register(sale.Input{
		ProductCode: product.Code,
		Clerk:       "Maria",
		Customer:    "João",
		Qty:         2,
		Kind:        domain.SaleKindReserved,
	})
	require.NoError(suite.T(), err)

	unchanged, err := suite.registry.GetProduct(product.Code)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int32(10), unchanged.Quantity)

	balance, err := suite.sales.OpenBalance("João")
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(3000), balance)

	// Расчёт закрывает долг
	settlement, err := suite.sales.Settle("João")
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(3000), settlement.SettledMinor)
	require.Equal(suite.T(), 1, settlement.Entries)

	balance, err = suite.sales.OpenBalance("João")
	require.NoError(suite.T(), err)
	require.Zero(suite.T(), balance)
}

func (suite *SaleLifecycleTestSuite) TestLowStockAdvisoryLifecycle() {
	product, err := suite.registry.RegisterProduct(registry.ProductInput{
		Name:              "Croissant",
		Quantity:          6,
		PriceMinor:        450,
		LowStockThreshold: 5,
	})
	require.NoError(suite.T(), err)

	_, err = suite.registry.RegisterEmployee("Maria")
	require.NoError(suite.T(), err)

	_, err = suite.sales.Register(sale.Input{
		ProductCode: product.Code,
		Clerk:       "Maria",
		Qty:         3,
		Kind:        domain.SaleKindImmediate,
	})
	require.NoError(suite.T(), err)

	low, err := suite.registry.LowStockProducts()
	require.NoError(suite.T(), err)
	require.Len(suite.T(), low, 1)
	require.Equal(suite.T(), product.Code, low[0].Code)

	pending, err := suite.outbox.PullPending(10)
	require.NoError(suite.T(), err)

	var advisory bool
	for _, msg := range pending {
		if msg.EventType == "stock.low" {
			advisory = true
		}
	}
	require.True(suite.T(), advisory)
}

func (suite *SaleLifecycleTestSuite) TestLoginLifecycle() {
	_, err := suite.auth.Register("maria", "segredo123", domain.RoleClerk)
	require.NoError(suite.T(), err)

	user, err := suite.auth.Login("maria", "segredo123")
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.RoleClerk, user.Role)

	_, err = suite.auth.Login("maria", "errada")
	require.ErrorIs(suite.T(), err, domain.ErrInvalidCredentials)
}

func TestSaleLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(SaleLifecycleTestSuite))
}
