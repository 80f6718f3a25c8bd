package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/metrics"
)

const maxSaveRetries = 3

// ProductInput описывает запрос на регистрацию товара.
type ProductInput struct {
	Name     string
	Quantity int32
	// PriceMinor — цена за единицу в минимальных денежных единицах.
	PriceMinor int64
	// LowStockThreshold — необязательный порог; нулевое значение берёт порог по умолчанию.
	LowStockThreshold int32
}

// Service ведёт реестры товаров, сотрудников, клиентов и поставщиков.
type Service struct {
	products  domain.ProductRepository
	employees domain.EmployeeRepository
	customers domain.CustomerRepository
	suppliers domain.SupplierRepository
	outbox    domain.OutboxRepository
	logger    *log.Entry
	metrics   *metrics.SaleMetrics
}

// NewService создаёт сервис реестров с метриками.
func NewService(
	products domain.ProductRepository,
	employees domain.EmployeeRepository,
	customers domain.CustomerRepository,
	suppliers domain.SupplierRepository,
	outbox domain.OutboxRepository,
) *Service {
	return &Service{
		products:  products,
		employees: employees,
		customers: customers,
		suppliers: suppliers,
		outbox:    outbox,
		logger:    log.WithField("component", "registry-service"),
		metrics:   metrics.NewSaleMetrics(),
	}
}

// NewServiceWithoutMetrics создаёт сервис реестров без метрик (для тестов).
func NewServiceWithoutMetrics(
	products domain.ProductRepository,
	employees domain.EmployeeRepository,
	customers domain.CustomerRepository,
	suppliers domain.SupplierRepository,
	outbox domain.OutboxRepository,
) *Service {
	return &Service{
		products:  products,
		employees: employees,
		customers: customers,
		suppliers: suppliers,
		outbox:    outbox,
		logger:    log.WithField("component", "registry-service"),
	}
}

// RegisterProduct регистрирует товар или пополняет уже существующий с тем же именем.
// При пополнении количество суммируется, цена перезаписывается последней,
// порог низкого остатка перезаписывается только ненулевым значением.
func (s *Service) RegisterProduct(input ProductInput) (domain.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Product{}, domain.ErrProductNameRequired
	}
	if input.Quantity < 0 {
		return domain.Product{}, domain.ErrQuantityNegative
	}
	if input.PriceMinor < 0 {
		return domain.Product{}, domain.ErrPriceInvalid
	}

	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		existing, err := s.products.GetByName(name)
		if errors.Is(err, domain.ErrProductNotFound) {
			return s.createProduct(name, input)
		}
		if err != nil {
			return domain.Product{}, err
		}

		existing.Quantity += input.Quantity
		existing.PriceMinor = input.PriceMinor
		if input.LowStockThreshold > 0 {
			existing.LowStockThreshold = input.LowStockThreshold
		}

		if err := s.products.Save(existing); err != nil {
			if domain.IsVersionConflict(err) {
				continue
			}
			return domain.Product{}, fmt.Errorf("save restocked product: %w", err)
		}
		existing.Version++

		s.logger.WithFields(log.Fields{
			"product_code": existing.Code,
			"product_name": existing.Name,
			"quantity":     existing.Quantity,
		}).Info("product restocked")

		return existing, nil
	}

	return domain.Product{}, domain.ErrVersionConflict
}

func (s *Service) createProduct(name string, input ProductInput) (domain.Product, error) {
	threshold := input.LowStockThreshold
	if threshold <= 0 {
		threshold = domain.DefaultLowStockThreshold
	}

	product, err := s.products.Create(domain.Product{
		Name:              name,
		Quantity:          input.Quantity,
		PriceMinor:        input.PriceMinor,
		LowStockThreshold: threshold,
	})
	if err != nil {
		return domain.Product{}, err
	}

	s.emitEvent("product", fmt.Sprintf("%d", product.Code), "product.registered", map[string]interface{}{
		"product_code": product.Code,
		"product_name": product.Name,
		"quantity":     product.Quantity,
		"price_minor":  product.PriceMinor,
	})

	s.logger.WithFields(log.Fields{
		"product_code": product.Code,
		"product_name": product.Name,
	}).Info("product registered")

	return product, nil
}

// RemoveProduct удаляет товар из каталога по коду.
func (s *Service) RemoveProduct(code int64) error {
	return s.products.Remove(code)
}

// GetProduct возвращает товар по коду.
func (s *Service) GetProduct(code int64) (domain.Product, error) {
	return s.products.Get(code)
}

// ListProducts возвращает каталог, отсортированный по коду.
func (s *Service) ListProducts() ([]domain.Product, error) {
	return s.products.List()
}

// LowStockProducts возвращает товары с остатком на пороге или ниже.
func (s *Service) LowStockProducts() ([]domain.Product, error) {
	products, err := s.products.List()
	if err != nil {
		return nil, err
	}

	low := make([]domain.Product, 0)
	for _, p := range products {
		if p.LowStock() {
			low = append(low, p)
		}
	}
	return low, nil
}

// RegisterEmployee добавляет сотрудника. Повторная регистрация того же имени — no-op.
func (s *Service) RegisterEmployee(name string) (domain.Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Employee{}, domain.ErrEmployeeNameRequired
	}

	employee := domain.Employee{Name: name}
	if err := s.employees.Create(employee); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return s.employees.Get(name)
		}
		return domain.Employee{}, err
	}
	return s.employees.Get(name)
}

// RemoveEmployee удаляет сотрудника по имени.
func (s *Service) RemoveEmployee(name string) error {
	return s.employees.Remove(name)
}

// ListEmployees возвращает всех сотрудников.
func (s *Service) ListEmployees() ([]domain.Employee, error) {
	return s.employees.List()
}

// RegisterCustomer добавляет клиента с пустой историей.
// Повторная регистрация того же имени — no-op, история сохраняется.
func (s *Service) RegisterCustomer(name string) (domain.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Customer{}, domain.ErrCustomerNameRequired
	}

	if err := s.customers.Create(domain.Customer{Name: name}); err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
		return domain.Customer{}, err
	}
	return s.customers.Get(name)
}

// GetCustomer возвращает клиента вместе с историей.
func (s *Service) GetCustomer(name string) (domain.Customer, error) {
	return s.customers.Get(name)
}

// ListCustomers возвращает всех клиентов.
func (s *Service) ListCustomers() ([]domain.Customer, error) {
	return s.customers.List()
}

// RegisterSupplier добавляет поставщика. Повторная регистрация того же имени — no-op.
func (s *Service) RegisterSupplier(name, contact string) (domain.Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Supplier{}, domain.ErrSupplierNameRequired
	}

	supplier := domain.Supplier{Name: name, Contact: strings.TrimSpace(contact)}
	if err := s.suppliers.Create(supplier); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return s.suppliers.Get(name)
		}
		return domain.Supplier{}, err
	}
	return s.suppliers.Get(name)
}

// RemoveSupplier удаляет поставщика по имени.
func (s *Service) RemoveSupplier(name string) error {
	return s.suppliers.Remove(name)
}

// ListSuppliers возвращает всех поставщиков.
func (s *Service) ListSuppliers() ([]domain.Supplier, error) {
	return s.suppliers.List()
}

// emitEvent сохраняет событие в transactional outbox.
func (s *Service) emitEvent(aggregateType, aggregateID, eventType string, payload map[string]interface{}) {
	if s.outbox == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Error("failed to marshal outbox payload")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       data,
	}); err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Error("failed to enqueue outbox event")
		return
	}

	if s.metrics != nil {
		s.metrics.RecordOutboxEvent()
	}
}
