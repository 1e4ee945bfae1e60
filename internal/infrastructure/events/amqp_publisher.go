package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/jhoicas/residencia-api/internal/application/ports"
)

var _ ports.EventPublisher = (*AMQPPublisher)(nil)

// channel es el subconjunto de *amqp.Channel que usa el publicador.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publica eventos de dominio en un exchange topic de RabbitMQ.
// La routing key es el tipo de evento (p. ej. "inventario.stock_bajo").
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	appName  string
	mu       sync.Mutex
}

// NewAMQPPublisher abre la conexión, el canal y declara el exchange (topic, durable).
func NewAMQPPublisher(url, exchange, appName string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp exchange declare %s: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange, appName: appName}, nil
}

// Publish serializa el evento a JSON y lo envía como mensaje persistente.
func (p *AMQPPublisher) Publish(ctx context.Context, event ports.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar evento %s: %w", event.Type, err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		AppId:        p.appName,
		Headers: amqp.Table{
			"event_type":   event.Type,
			"aggregate_id": event.AggregateID,
		},
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Publish(p.exchange, event.Type, false, false, msg); err != nil {
		return fmt.Errorf("publicar %s: %w", event.Type, err)
	}
	return nil
}

// Close cierra canal y conexión.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var firstErr error
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			firstErr = err
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
