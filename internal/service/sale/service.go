package sale

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/metrics"
)

const (
	// maxSaveRetries — число попыток сохранения при конфликте версий.
	maxSaveRetries = 3
	// retryBaseDelay — базовая задержка перед повторной попыткой.
	retryBaseDelay = 10 * time.Millisecond
)

// Input описывает запрос на регистрацию продажи.
type Input struct {
	ProductCode int64
	Clerk       string
	// Customer — имя клиента; обязательно для вида reserved.
	Customer string
	Qty      int32
	Kind     domain.SaleKind
}

// Settlement — результат погашения долга клиента.
type Settlement struct {
	Customer     string
	SettledMinor int64
	Entries      int
	SettledAt    time.Time
}

// Service регистрирует продажи, ведёт счета клиентов и эмитит события через outbox.
type Service struct {
	products  domain.ProductRepository
	employees domain.EmployeeRepository
	customers domain.CustomerRepository
	ledger    domain.LedgerRepository
	outbox    domain.OutboxRepository
	logger    *log.Entry
	metrics   *metrics.SaleMetrics
}

// NewService создаёт сервис продаж с метриками.
func NewService(
	products domain.ProductRepository,
	employees domain.EmployeeRepository,
	customers domain.CustomerRepository,
	ledger domain.LedgerRepository,
	outbox domain.OutboxRepository,
) *Service {
	return &Service{
		products:  products,
		employees: employees,
		customers: customers,
		ledger:    ledger,
		outbox:    outbox,
		logger:    log.WithField("component", "sale-service"),
		metrics:   metrics.NewSaleMetrics(),
	}
}

// NewServiceWithoutMetrics создаёт сервис продаж без метрик (для тестов).
func NewServiceWithoutMetrics(
	products domain.ProductRepository,
	employees domain.EmployeeRepository,
	customers domain.CustomerRepository,
	ledger domain.LedgerRepository,
	outbox domain.OutboxRepository,
) *Service {
	return &Service{
		products:  products,
		employees: employees,
		customers: customers,
		ledger:    ledger,
		outbox:    outbox,
		logger:    log.WithField("component", "sale-service"),
	}
}

// Register оформляет продажу: валидирует запрос, для immediate списывает остаток,
// добавляет запись в журнал и зеркалит её в историю клиента, если тот указан.
func (s *Service) Register(input Input) (domain.SaleRecord, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordSaleDuration(time.Since(start))
		}
	}()

	if input.Qty <= 0 {
		s.rejected("invalid_quantity")
		return domain.SaleRecord{}, domain.ErrQuantityInvalid
	}
	if !input.Kind.Valid() {
		s.rejected("invalid_kind")
		return domain.SaleRecord{}, domain.ErrSaleKindInvalid
	}

	customerName := strings.TrimSpace(input.Customer)
	if input.Kind == domain.SaleKindReserved && customerName == "" {
		s.rejected("customer_required")
		return domain.SaleRecord{}, domain.ErrCustomerRequired
	}

	clerk, err := s.employees.Get(input.Clerk)
	if err != nil {
		s.rejected("clerk_not_found")
		return domain.SaleRecord{}, err
	}

	product, err := s.products.Get(input.ProductCode)
	if err != nil {
		s.rejected("product_not_found")
		return domain.SaleRecord{}, err
	}

	// Резервная продажа остаток не трогает; списание происходит только
	// при оплате на месте.
	if input.Kind == domain.SaleKindImmediate {
		product, err = s.decrementStock(product, input.Qty)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				s.rejected("insufficient_stock")
			} else {
				s.rejected("stock_update_failed")
			}
			return domain.SaleRecord{}, err
		}
	}

	record := domain.SaleRecord{
		ID:             uuid.New().String(),
		ProductCode:    product.Code,
		ProductName:    product.Name,
		Qty:            input.Qty,
		UnitPriceMinor: product.PriceMinor,
		TotalMinor:     int64(input.Qty) * product.PriceMinor,
		Kind:           input.Kind,
		Clerk:          clerk.Name,
		Customer:       customerName,
		SoldAt:         time.Now().UTC(),
	}

	if err := s.ledger.Append(record); err != nil {
		s.rejected("ledger_append_failed")
		return domain.SaleRecord{}, fmt.Errorf("append sale record: %w", err)
	}

	// Журнал уже пополнен, поэтому ошибки зеркалирования не отменяют продажу.
	if record.Customer != "" {
		if err := s.appendHistory(record); err != nil {
			s.logger.WithError(err).WithFields(log.Fields{
				"sale_id":  record.ID,
				"customer": record.Customer,
			}).Error("failed to mirror sale into customer history")
		}
	}

	s.emitEvent("sale", record.ID, "sale.registered", map[string]interface{}{
		"sale_id":      record.ID,
		"product_code": record.ProductCode,
		"product_name": record.ProductName,
		"qty":          record.Qty,
		"total_minor":  record.TotalMinor,
		"kind":         record.Kind,
		"clerk":        record.Clerk,
		"customer":     record.Customer,
		"sold_at":      record.SoldAt,
	})

	if s.metrics != nil {
		s.metrics.RecordSaleRegistered(record.TotalMinor)
	}

	if input.Kind == domain.SaleKindImmediate && product.LowStock() {
		s.advisoryLowStock(product)
	}

	s.logger.WithFields(log.Fields{
		"sale_id":      record.ID,
		"product_code": record.ProductCode,
		"qty":          record.Qty,
		"kind":         record.Kind,
		"total_minor":  record.TotalMinor,
	}).Info("sale registered")

	return record, nil
}

// Settle переводит все reserved-записи клиента в paid и возвращает итог погашения.
func (s *Service) Settle(customerName string) (Settlement, error) {
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		customer, err := s.customers.Get(customerName)
		if err != nil {
			return Settlement{}, err
		}

		settledMinor, entries := customer.Settle()
		settledAt := time.Now().UTC()
		if entries == 0 {
			// Долга нет, сохранять нечего.
			return Settlement{Customer: customer.Name, SettledAt: settledAt}, nil
		}

		if err := s.customers.Save(customer); err != nil {
			if domain.IsVersionConflict(err) && attempt < maxSaveRetries-1 {
				time.Sleep(retryBaseDelay * time.Duration(1<<attempt))
				continue
			}
			return Settlement{}, fmt.Errorf("save settled customer: %w", err)
		}

		if s.metrics != nil {
			s.metrics.RecordSettlement()
		}

		s.emitEvent("customer", customer.Name, "customer.settled", map[string]interface{}{
			"customer":      customer.Name,
			"settled_minor": settledMinor,
			"entries":       entries,
			"settled_at":    settledAt,
		})

		s.logger.WithFields(log.Fields{
			"customer":      customer.Name,
			"settled_minor": settledMinor,
			"entries":       entries,
		}).Info("customer account settled")

		return Settlement{
			Customer:     customer.Name,
			SettledMinor: settledMinor,
			Entries:      entries,
			SettledAt:    settledAt,
		}, nil
	}

	return Settlement{}, domain.ErrVersionConflict
}

// ListSales возвращает журнал продаж в хронологическом порядке.
func (s *Service) ListSales() ([]domain.SaleRecord, error) {
	return s.ledger.List()
}

// OpenBalance возвращает открытый долг клиента в минимальных единицах.
func (s *Service) OpenBalance(customerName string) (int64, error) {
	customer, err := s.customers.Get(customerName)
	if err != nil {
		return 0, err
	}
	return customer.OpenBalanceMinor(), nil
}

// decrementStock списывает количество с optimistic locking и повторами
// при конфликте версий.
func (s *Service) decrementStock(product domain.Product, qty int32) (domain.Product, error) {
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		if qty > product.Quantity {
			return product, domain.ErrInsufficientStock
		}

		updated := product
		updated.Quantity -= qty

		err := s.products.Save(updated)
		if err == nil {
			updated.Version++
			return updated, nil
		}

		if domain.IsVersionConflict(err) && attempt < maxSaveRetries-1 {
			fresh, loadErr := s.products.Get(product.Code)
			if loadErr != nil {
				return product, loadErr
			}
			product = fresh
			time.Sleep(retryBaseDelay * time.Duration(1<<attempt))
			continue
		}

		return product, fmt.Errorf("save product stock: %w", err)
	}

	return product, domain.ErrVersionConflict
}

// appendHistory зеркалит запись продажи в историю клиента,
// создавая клиента неявно при первой продаже с его именем.
func (s *Service) appendHistory(record domain.SaleRecord) error {
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		customer, err := s.customers.Get(record.Customer)
		if errors.Is(err, domain.ErrCustomerNotFound) {
			createErr := s.customers.Create(domain.Customer{Name: record.Customer})
			if createErr != nil && !errors.Is(createErr, domain.ErrAlreadyExists) {
				return createErr
			}
			customer, err = s.customers.Get(record.Customer)
		}
		if err != nil {
			return err
		}

		customer.History = append(customer.History, domain.HistoryEntry{
			SaleID:      record.ID,
			ProductName: record.ProductName,
			Qty:         record.Qty,
			TotalMinor:  record.TotalMinor,
			Kind:        record.Kind,
			RecordedAt:  record.SoldAt,
		})

		if err := s.customers.Save(customer); err != nil {
			if domain.IsVersionConflict(err) && attempt < maxSaveRetries-1 {
				time.Sleep(retryBaseDelay * time.Duration(1<<attempt))
				continue
			}
			return err
		}
		return nil
	}

	return domain.ErrVersionConflict
}

// advisoryLowStock эмитит advisory-событие низкого остатка. Сбой эмита
// не влияет на результат продажи.
func (s *Service) advisoryLowStock(product domain.Product) {
	s.logger.WithFields(log.Fields{
		"product_code": product.Code,
		"product_name": product.Name,
		"quantity":     product.Quantity,
		"threshold":    product.LowStockThreshold,
	}).Warn("product stock at or below threshold")

	if s.metrics != nil {
		s.metrics.RecordLowStock()
	}

	s.emitEvent("product", fmt.Sprintf("%d", product.Code), "stock.low", map[string]interface{}{
		"product_code": product.Code,
		"product_name": product.Name,
		"quantity":     product.Quantity,
		"threshold":    product.LowStockThreshold,
	})
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

	msg := domain.OutboxMessage{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       data,
	}

	if _, err := s.outbox.Enqueue(msg); err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Error("failed to enqueue outbox event")
		return
	}

	if s.metrics != nil {
		s.metrics.RecordOutboxEvent()
	}
}

func (s *Service) rejected(reason string) {
	if s.metrics != nil {
		s.metrics.RecordSaleRejected(reason)
	}
}
