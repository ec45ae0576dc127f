// Package events publica los eventos del ledger en Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// Tipos de evento.
const (
	TypeMovementRecorded = "movement.recorded"
	TypeStockLow         = "stock.low"
)

var _ inventory.EventPublisher = (*KafkaPublisher)(nil)

// Envelope formato común de los mensajes publicados.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// MovementRecordedData payload de movement.recorded.
type MovementRecordedData struct {
	MovementID int64     `json:"movement_id"`
	ProductID  int64     `json:"product_id"`
	Type       string    `json:"type"`
	Quantity   int64     `json:"quantity"`
	StockAfter int64     `json:"stock_after"`
	CreatedBy  string    `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// StockLowData payload de stock.low.
type StockLowData struct {
	ProductID int64  `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Stock     int64  `json:"stock"`
	MinStock  int64  `json:"min_stock"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher escribe los eventos con el ID de producto como key,
// así los eventos de un producto quedan en la misma partición y en orden.
type KafkaPublisher struct {
	w   messageWriter
	log *logger.Logger
	now func() time.Time
}

// NewKafkaPublisher crea un writer asíncrono: la petición HTTP no espera el ack del broker.
func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	if log == nil {
		log = logger.Nop()
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Error().Err(err).Int("messages", len(messages)).Msg("kafka: fallo al publicar eventos")
			}
		},
	}
	return newPublisher(w, log)
}

func newPublisher(w messageWriter, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{w: w, log: log, now: time.Now}
}

// MovementRecorded publica movement.recorded.
func (p *KafkaPublisher) MovementRecorded(ctx context.Context, m *entity.Movement) error {
	return p.publish(ctx, TypeMovementRecorded, m.ProductID, MovementRecordedData{
		MovementID: m.ID,
		ProductID:  m.ProductID,
		Type:       m.Type,
		Quantity:   m.Quantity,
		StockAfter: m.StockAfter,
		CreatedBy:  m.CreatedBy,
		CreatedAt:  m.CreatedAt,
	})
}

// StockLow publica stock.low cuando un producto entra en stock bajo.
func (p *KafkaPublisher) StockLow(ctx context.Context, product *entity.Product) error {
	return p.publish(ctx, TypeStockLow, product.ID, StockLowData{
		ProductID: product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		Stock:     product.Stock,
		MinStock:  product.MinStock,
	})
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType string, productID int64, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", eventType, err)
	}
	env := Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: p.now().UTC(),
		Data:       payload,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("events: marshal envelope: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(productID, 10)),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: write %s: %w", eventType, err)
	}
	p.log.Debug().Str("event", eventType).Str("event_id", env.ID).Int64("product_id", productID).Msg("evento publicado")
	return nil
}

// Close vacía los mensajes pendientes y cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
