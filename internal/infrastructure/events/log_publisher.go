package events

import (
	"context"

	"github.com/jhoicas/residencia-api/internal/application/ports"
	"github.com/jhoicas/residencia-api/pkg/logger"
)

var _ ports.EventPublisher = (*LogPublisher)(nil)

// LogPublisher registra los eventos en el log. Se usa cuando AMQP_URL está vacío.
type LogPublisher struct {
	log *logger.Logger
}

// NewLogPublisher construye el publicador de respaldo.
func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event ports.Event) error {
	p.log.Debug().
		Str("event_id", event.ID.String()).
		Str("event_type", event.Type).
		Str("aggregate_id", event.AggregateID).
		Msg("evento de dominio")
	return nil
}
