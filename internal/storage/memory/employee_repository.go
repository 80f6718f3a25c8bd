package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

// employeeRepositoryInMemory хранит сотрудников в памяти.
type employeeRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Employee
}

// NewEmployeeRepository создаёт in-memory реализацию EmployeeRepository.
func NewEmployeeRepository() domain.EmployeeRepository {
	return &employeeRepositoryInMemory{items: make(map[string]domain.Employee)}
}

// Create сохраняет нового сотрудника, если нормализованное имя свободно.
func (r *employeeRepositoryInMemory) Create(employee domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.NormalizeName(employee.Name)
	if _, exists := r.items[key]; exists {
		return domain.ErrAlreadyExists
	}
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = time.Now().UTC()
	}
	r.items[key] = employee
	return nil
}

// Get возвращает сотрудника или ErrEmployeeNotFound.
func (r *employeeRepositoryInMemory) Get(name string) (domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	employee, ok := r.items[domain.NormalizeName(name)]
	if !ok {
		return domain.Employee{}, domain.ErrEmployeeNotFound
	}
	return employee, nil
}

// List возвращает сотрудников, отсортированных по имени.
func (r *employeeRepositoryInMemory) List() ([]domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Employee, 0, len(r.items))
	for _, employee := range r.items {
		result = append(result, employee)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Remove удаляет сотрудника.
func (r *employeeRepositoryInMemory) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.NormalizeName(name)
	if _, ok := r.items[key]; !ok {
		return domain.ErrEmployeeNotFound
	}
	delete(r.items, key)
	return nil
}

var _ domain.EmployeeRepository = (*employeeRepositoryInMemory)(nil)
