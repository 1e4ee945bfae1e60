package repository

import (
	"context"

	"github.com/jhoicas/residencia-api/internal/domain/entity"
)

// ReferralFilter filtros opcionales (AND) para listar remisiones.
type ReferralFilter struct {
	Status entity.ReferralStatus
	Type   entity.ReferralType
}

// ReferralRepository define el puerto de persistencia para Referral.
// Create devuelve domain.ErrDuplicateReferralNumber si el número ya existe (restricción UNIQUE).
type ReferralRepository interface {
	Create(ctx context.Context, referral *entity.Referral) error
	GetByID(ctx context.Context, id string) (*entity.Referral, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Referral, error)
	Update(ctx context.Context, referral *entity.Referral) error
	List(ctx context.Context, filter ReferralFilter, limit, offset int) ([]*entity.Referral, error)
	// LastNumberWithPrefix devuelve el número más alto emitido con ese prefijo ("" si no hay).
	LastNumberWithPrefix(ctx context.Context, prefix string) (string, error)
	// Delete borra la remisión junto con su seguimiento y trazabilidad.
	Delete(ctx context.Context, id string) error
}

// TrackingEventRepository define el puerto para el seguimiento de una remisión.
// ListByReferral devuelve los eventos en orden de inserción, nunca por OccurredAt.
type TrackingEventRepository interface {
	Create(ctx context.Context, event *entity.TrackingEvent) error
	ListByReferral(ctx context.Context, referralID string) ([]*entity.TrackingEvent, error)
}

// InvolvementRepository define el puerto para la trazabilidad profesional de una remisión.
type InvolvementRepository interface {
	Create(ctx context.Context, involvement *entity.ProfessionalInvolvement) error
	ListByReferral(ctx context.Context, referralID string) ([]*entity.ProfessionalInvolvement, error)
}
