// internal/adapters/out/rabbitmq/publisher.go
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	uc "github.com/HydraRosario/vibeshoes/internal/application/usecase"
)

const DefaultExchange = "vibeshoes.orders"

// Publisher emits order events to a durable topic exchange; the routing key is the event type.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

var _ uc.EventPublisher = (*Publisher)(nil)

func NewPublisher(url, exchange string) (*Publisher, error) {
	if strings.TrimSpace(exchange) == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	log.Printf("[rabbitmq] publisher ready exchange=%s", exchange)
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Envelope is the JSON body of every published event.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

func NewEnvelope(eventType string, data any, now time.Time) Envelope {
	return Envelope{ID: uuid.NewString(), Type: eventType, OccurredAt: now.UTC(), Data: data}
}

func (p *Publisher) Publish(ctx context.Context, eventType string, payload any) error {
	if p == nil || p.ch == nil {
		return errors.New("rabbitmq: publisher is closed")
	}
	env := NewEnvelope(eventType, payload, time.Now())
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx,
		p.exchange,
		eventType,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			Timestamp:    env.OccurredAt,
			ContentType:  "application/json",
			MessageId:    env.ID,
			Type:         eventType,
			Body:         body,
		},
	)
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
