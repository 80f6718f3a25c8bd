package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

// productRepositoryInMemory — простая in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	mu       sync.RWMutex
	items    map[int64]domain.Product
	byName   map[string]int64
	lastCode int64
}

// NewProductRepository возвращает in-memory каталог для локальной разработки и тестов.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items:  make(map[int64]domain.Product),
		byName: make(map[string]int64),
	}
}

// Create сохраняет новый товар и назначает ему следующий последовательный код.
func (r *productRepositoryInMemory) Create(product domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.NormalizeName(product.Name)
	if _, exists := r.byName[key]; exists {
		return domain.Product{}, domain.ErrAlreadyExists
	}

	r.lastCode++
	product.Code = r.lastCode
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	r.items[product.Code] = product
	r.byName[key] = product.Code
	return product, nil
}

// Get возвращает товар или ErrProductNotFound, если его нет.
func (r *productRepositoryInMemory) Get(code int64) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[code]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// GetByName ищет товар по имени без учёта регистра.
func (r *productRepositoryInMemory) GetByName(name string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	code, ok := r.byName[domain.NormalizeName(name)]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return r.items[code], nil
}

// List возвращает каталог, отсортированный по коду.
func (r *productRepositoryInMemory) List() ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.items))
	for _, product := range r.items {
		result = append(result, product)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// Save перезаписывает товар, проверяя версию (optimistic locking).
func (r *productRepositoryInMemory) Save(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[product.Code]
	if !ok {
		return domain.ErrProductNotFound
	}
	if current.Version != product.Version {
		return domain.ErrVersionConflict
	}

	// Имя могло быть нормализовано иначе: поддерживаем индекс согласованным.
	oldKey := domain.NormalizeName(current.Name)
	newKey := domain.NormalizeName(product.Name)
	if oldKey != newKey {
		if _, exists := r.byName[newKey]; exists {
			return domain.ErrAlreadyExists
		}
		delete(r.byName, oldKey)
		r.byName[newKey] = product.Code
	}

	product.Version++
	product.UpdatedAt = time.Now().UTC()
	r.items[product.Code] = product
	return nil
}

// Remove удаляет товар из каталога.
func (r *productRepositoryInMemory) Remove(code int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.items[code]
	if !ok {
		return domain.ErrProductNotFound
	}
	delete(r.items, code)
	delete(r.byName, domain.NormalizeName(product.Name))
	return nil
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
