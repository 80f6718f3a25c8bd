package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

// supplierRepositoryInMemory хранит поставщиков в памяти.
type supplierRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Supplier
}

// NewSupplierRepository создаёт in-memory реализацию SupplierRepository.
func NewSupplierRepository() domain.SupplierRepository {
	return &supplierRepositoryInMemory{items: make(map[string]domain.Supplier)}
}

func (r *supplierRepositoryInMemory) Create(supplier domain.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.NormalizeName(supplier.Name)
	if _, exists := r.items[key]; exists {
		return domain.ErrAlreadyExists
	}
	if supplier.CreatedAt.IsZero() {
		supplier.CreatedAt = time.Now().UTC()
	}
	r.items[key] = supplier
	return nil
}

func (r *supplierRepositoryInMemory) Get(name string) (domain.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	supplier, ok := r.items[domain.NormalizeName(name)]
	if !ok {
		return domain.Supplier{}, domain.ErrSupplierNotFound
	}
	return supplier, nil
}

func (r *supplierRepositoryInMemory) List() ([]domain.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Supplier, 0, len(r.items))
	for _, supplier := range r.items {
		result = append(result, supplier)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *supplierRepositoryInMemory) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.NormalizeName(name)
	if _, ok := r.items[key]; !ok {
		return domain.ErrSupplierNotFound
	}
	delete(r.items, key)
	return nil
}

var _ domain.SupplierRepository = (*supplierRepositoryInMemory)(nil)
