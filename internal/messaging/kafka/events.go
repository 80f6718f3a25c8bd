package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// События продаж
	EventTypeSaleRegistered    EventType = "sale.registered"
	EventTypeCustomerSettled   EventType = "customer.settled"
	EventTypeProductRegistered EventType = "product.registered"

	// Складские advisory-события
	EventTypeStockLow EventType = "stock.low"
)

// Topics для Kafka
const (
	TopicSaleEvents      = "pos.sale.events"
	TopicStockEvents     = "pos.stock.events"
	TopicDeadLetterQueue = "pos.dlq" // Dead Letter Queue для failed messages
)

// SaleEvent представляет событие журнала продаж. SaleID заполняется
// только для событий с агрегатом sale, остальные детали лежат в Metadata.
type SaleEvent struct {
	EventType EventType              `json:"event_type"`
	SaleID    string                 `json:"sale_id,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// StockEvent представляет складское advisory-событие.
type StockEvent struct {
	EventType   EventType `json:"event_type"`
	ProductCode int64     `json:"product_code"`
	ProductName string    `json:"product_name"`
	Quantity    int32     `json:"quantity"`
	Threshold   int32     `json:"threshold"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewSaleEvent создает новое событие продажи.
func NewSaleEvent(eventType EventType, saleID string, metadata map[string]interface{}) *SaleEvent {
	return &SaleEvent{
		EventType: eventType,
		SaleID:    saleID,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}

// NewStockLowEvent создает advisory-событие низкого остатка.
func NewStockLowEvent(code int64, name string, quantity, threshold int32) *StockEvent {
	return &StockEvent{
		EventType:   EventTypeStockLow,
		ProductCode: code,
		ProductName: name,
		Quantity:    quantity,
		Threshold:   threshold,
		Timestamp:   time.Now(),
	}
}
