package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/storage/memory"
	"github.com/vladislavdragonenkov/pos/internal/storage/postgres"
)

// Dependencies содержит хранилища приложения.
type Dependencies struct {
	Products    domain.ProductRepository
	Employees   domain.EmployeeRepository
	Customers   domain.CustomerRepository
	Suppliers   domain.SupplierRepository
	Ledger      domain.LedgerRepository
	Users       domain.UserRepository
	Outbox      domain.OutboxRepository
	Idempotency domain.IdempotencyRepository

	Store  *postgres.Store
	Logger *log.Entry
}

// NewDependencies собирает хранилища: PostgreSQL при заданном DSN,
// иначе in-memory реализации.
func NewDependencies(ctx context.Context, dsn string, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	if dsn == "" {
		logger.Info("using in-memory storage")
		return &Dependencies{
			Products:    memory.NewProductRepository(),
			Employees:   memory.NewEmployeeRepository(),
			Customers:   memory.NewCustomerRepository(),
			Suppliers:   memory.NewSupplierRepository(),
			Ledger:      memory.NewLedgerRepository(),
			Users:       memory.NewUserRepository(),
			Outbox:      memory.NewOutboxRepository(),
			Idempotency: memory.NewIdempotencyRepository(),
			Logger:      logger,
		}, nil
	}

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := store.MigrateUp(ctx, 0); err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.Info("using postgres storage")

	return &Dependencies{
		Products:    postgres.NewProductRepository(store),
		Employees:   postgres.NewEmployeeRepository(store),
		Customers:   postgres.NewCustomerRepository(store),
		Suppliers:   postgres.NewSupplierRepository(store),
		Ledger:      postgres.NewLedgerRepository(store),
		Users:       postgres.NewUserRepository(store),
		Outbox:      postgres.NewOutboxRepository(store),
		Idempotency: postgres.NewIdempotencyRepository(store),
		Store:       store,
		Logger:      logger,
	}, nil
}

// Close освобождает ресурсы хранилищ.
func (d *Dependencies) Close() {
	if d == nil || d.Store == nil {
		return
	}
	if err := d.Store.Close(); err != nil {
		d.Logger.WithError(err).Warn("failed to close postgres store")
	}
}
