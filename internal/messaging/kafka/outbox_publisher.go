package kafka

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

// OutboxTopicPublisher публикует outbox-сообщения в Kafka, выбирая topic по типу события.
type OutboxTopicPublisher struct {
	producer     *Producer
	defaultTopic string
	fixedTopic   bool
}

// NewOutboxPublisher создаёт Kafka-паблишер для transactional outbox.
// Складские advisory-события уходят в отдельный topic, остальное — в defaultTopic.
func NewOutboxPublisher(producer *Producer, defaultTopic string) domain.OutboxPublisher {
	if defaultTopic == "" {
		defaultTopic = TopicSaleEvents
	}
	return &OutboxTopicPublisher{
		producer:     producer,
		defaultTopic: defaultTopic,
	}
}

// NewDLQPublisher создаёт паблишер, отправляющий все сообщения в Dead Letter Queue.
func NewDLQPublisher(producer *Producer) domain.OutboxPublisher {
	return &OutboxTopicPublisher{
		producer:     producer,
		defaultTopic: TopicDeadLetterQueue,
		fixedTopic:   true,
	}
}

func (p *OutboxTopicPublisher) Publish(event domain.OutboxMessage) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka outbox publisher is not initialized")
	}

	key := event.AggregateID
	if key == "" {
		key = event.ID
	}

	topic := p.topicFor(event.EventType)
	envelope, err := p.envelopeFor(topic, event)
	if err != nil {
		return err
	}

	return p.producer.PublishEvent(topic, key, envelope)
}

// envelopeFor собирает типизированный конверт для topic. Сообщения с
// фиксированным topic (DLQ) уже упакованы воркером и уходят как есть.
func (p *OutboxTopicPublisher) envelopeFor(topic string, msg domain.OutboxMessage) (interface{}, error) {
	if p.fixedTopic {
		return json.RawMessage(msg.Payload), nil
	}

	if topic == TopicStockEvents {
		return stockEventFromOutbox(msg)
	}
	return saleEventFromOutbox(msg)
}

func stockEventFromOutbox(msg domain.OutboxMessage) (*StockEvent, error) {
	var body struct {
		ProductCode int64  `json:"product_code"`
		ProductName string `json:"product_name"`
		Quantity    int32  `json:"quantity"`
		Threshold   int32  `json:"threshold"`
	}
	if err := json.Unmarshal(msg.Payload, &body); err != nil {
		return nil, fmt.Errorf("decode stock event payload: %w", err)
	}

	event := NewStockLowEvent(body.ProductCode, body.ProductName, body.Quantity, body.Threshold)
	event.EventType = EventType(msg.EventType)
	return event, nil
}

func saleEventFromOutbox(msg domain.OutboxMessage) (*SaleEvent, error) {
	var metadata map[string]interface{}
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &metadata); err != nil {
			return nil, fmt.Errorf("decode sale event payload: %w", err)
		}
	}

	saleID := ""
	if msg.AggregateType == "sale" {
		saleID = msg.AggregateID
	}
	return NewSaleEvent(EventType(msg.EventType), saleID, metadata), nil
}

func (p *OutboxTopicPublisher) topicFor(eventType string) string {
	if p.fixedTopic {
		return p.defaultTopic
	}
	if strings.HasPrefix(eventType, "stock.") {
		return TopicStockEvents
	}
	return p.defaultTopic
}

var _ domain.OutboxPublisher = (*OutboxTopicPublisher)(nil)
