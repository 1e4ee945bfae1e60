package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/residencia-api/pkg/logger"
)

// Tipos de evento de dominio publicados después del commit.
const (
	EventMovementRegistered = "inventario.movimiento_registrado"
	EventLowStock           = "inventario.stock_bajo"
	EventReferralCreated    = "remision.creada"
	EventReferralUpdated    = "remision.actualizada"
	EventTrackingAdded      = "remision.seguimiento_agregado"
)

// Event es la notificación que se envía al bus una vez confirmada la transacción.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Payload     any       `json:"payload,omitempty"`
}

// NewEvent construye un evento con ID y fecha asignados.
func NewEvent(eventType, aggregateID string, payload any) Event {
	return Event{
		ID:          uuid.New(),
		Type:        eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Payload:     payload,
	}
}

// EventPublisher define el puerto de salida hacia el bus de mensajes (RabbitMQ u otro).
// Un fallo al publicar nunca deshace lo ya confirmado en la base de datos.
//
//go:generate mockgen -source=event_publisher.go -destination=event_publisher_mock.go -package=ports
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// PublishAll envía los eventos en orden una vez confirmada la transacción.
// Los fallos se registran y no se propagan: lo confirmado no se deshace.
func PublishAll(ctx context.Context, pub EventPublisher, log *logger.Logger, events ...Event) {
	if pub == nil {
		return
	}
	for _, ev := range events {
		if err := pub.Publish(ctx, ev); err != nil {
			log.Warn().Err(err).
				Str("event_type", ev.Type).
				Str("aggregate_id", ev.AggregateID).
				Msg("no se pudo publicar el evento")
		}
	}
}
