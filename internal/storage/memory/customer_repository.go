package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

// customerRepositoryInMemory хранит клиентов и их историю в памяти.
type customerRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Customer
}

// NewCustomerRepository создаёт in-memory реализацию CustomerRepository.
func NewCustomerRepository() domain.CustomerRepository {
	return &customerRepositoryInMemory{items: make(map[string]domain.Customer)}
}

// Create сохраняет нового клиента, если нормализованное имя свободно.
func (r *customerRepositoryInMemory) Create(customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.NormalizeName(customer.Name)
	if _, exists := r.items[key]; exists {
		return domain.ErrAlreadyExists
	}
	now := time.Now().UTC()
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = now
	}
	customer.UpdatedAt = now
	r.items[key] = cloneCustomer(customer)
	return nil
}

// Get возвращает копию клиента или ErrCustomerNotFound.
func (r *customerRepositoryInMemory) Get(name string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.items[domain.NormalizeName(name)]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return cloneCustomer(customer), nil
}

// List возвращает клиентов, отсортированных по имени.
func (r *customerRepositoryInMemory) List() ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Customer, 0, len(r.items))
	for _, customer := range r.items {
		result = append(result, cloneCustomer(customer))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Save перезаписывает клиента вместе с историей, проверяя версию.
func (r *customerRepositoryInMemory) Save(customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.NormalizeName(customer.Name)
	current, ok := r.items[key]
	if !ok {
		return domain.ErrCustomerNotFound
	}
	if current.Version != customer.Version {
		return domain.ErrVersionConflict
	}
	customer.Version++
	customer.UpdatedAt = time.Now().UTC()
	r.items[key] = cloneCustomer(customer)
	return nil
}

// cloneCustomer копирует клиента вместе с историей, чтобы избежать мутаций извне.
func cloneCustomer(src domain.Customer) domain.Customer {
	dst := src
	dst.History = append([]domain.HistoryEntry(nil), src.History...)
	return dst
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
