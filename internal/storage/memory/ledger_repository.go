package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

// ledgerRepositoryInMemory — append-only журнал продаж в памяти.
type ledgerRepositoryInMemory struct {
	mu      sync.RWMutex
	records []domain.SaleRecord
}

// NewLedgerRepository создаёт in-memory реализацию LedgerRepository.
func NewLedgerRepository() domain.LedgerRepository {
	return &ledgerRepositoryInMemory{}
}

// Append добавляет запись в конец журнала. Записи неизменяемы.
func (r *ledgerRepositoryInMemory) Append(record domain.SaleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.SoldAt.IsZero() {
		record.SoldAt = time.Now().UTC()
	}
	r.records = append(r.records, record)
	return nil
}

// List возвращает копию журнала в порядке добавления.
func (r *ledgerRepositoryInMemory) List() ([]domain.SaleRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.SaleRecord, len(r.records))
	copy(result, r.records)
	return result, nil
}

// ListBetween возвращает записи с SoldAt в полуинтервале [from, to).
func (r *ledgerRepositoryInMemory) ListBetween(from, to time.Time) ([]domain.SaleRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.SaleRecord, 0)
	for _, record := range r.records {
		if record.SoldAt.Before(from) || !record.SoldAt.Before(to) {
			continue
		}
		result = append(result, record)
	}
	return result, nil
}

var _ domain.LedgerRepository = (*ledgerRepositoryInMemory)(nil)
