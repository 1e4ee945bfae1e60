package postgres

import (
	"context"

	"github.com/jhoicas/residencia-api/internal/domain"
	"github.com/jhoicas/residencia-api/internal/domain/entity"
	"github.com/jhoicas/residencia-api/internal/domain/repository"
)

var (
	_ repository.TrackingEventRepository = (*TrackingEventRepo)(nil)
	_ repository.InvolvementRepository   = (*InvolvementRepo)(nil)
)

// TrackingEventRepo seguimiento de remisiones. seq (BIGSERIAL) fija el orden de inserción;
// occurred_at lo envía el cliente y no sirve para ordenar.
type TrackingEventRepo struct {
	q Querier
}

// NewTrackingEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTrackingEventRepository(q Querier) *TrackingEventRepo {
	return &TrackingEventRepo{q: q}
}

// Create agrega un hito y devuelve en el evento la secuencia y fecha de registro asignadas.
func (r *TrackingEventRepo) Create(ctx context.Context, ev *entity.TrackingEvent) error {
	query := `
		INSERT INTO referral_tracking_events (id, referral_id, type, occurred_at, location, description, responsible, observations, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING seq, created_at`
	err := r.q.QueryRow(ctx, query,
		ev.ID, ev.ReferralID, ev.Type, ev.OccurredAt, ev.Location, ev.Description,
		ev.Responsible, ev.Observations, ev.Completed,
	).Scan(&ev.Sequence, &ev.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrReferralNotFound
		}
		return wrap("insert tracking event", err)
	}
	return nil
}

// ListByReferral devuelve todos los hitos de la remisión en orden de inserción.
func (r *TrackingEventRepo) ListByReferral(ctx context.Context, referralID string) ([]*entity.TrackingEvent, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, referral_id, seq, type, occurred_at, location, description, responsible, observations, completed, created_at
		FROM referral_tracking_events WHERE referral_id = $1 ORDER BY seq`, referralID)
	if err != nil {
		return nil, wrapQuery("list tracking events", err)
	}
	defer rows.Close()
	var list []*entity.TrackingEvent
	for rows.Next() {
		var ev entity.TrackingEvent
		if err := rows.Scan(&ev.ID, &ev.ReferralID, &ev.Sequence, &ev.Type, &ev.OccurredAt, &ev.Location,
			&ev.Description, &ev.Responsible, &ev.Observations, &ev.Completed, &ev.CreatedAt); err != nil {
			return nil, wrap("scan tracking event", err)
		}
		list = append(list, &ev)
	}
	return list, wrapQuery("list tracking events", rows.Err())
}

// InvolvementRepo trazabilidad profesional. No hay unicidad sobre (remisión, colaborador).
type InvolvementRepo struct {
	q Querier
}

// NewInvolvementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvolvementRepository(q Querier) *InvolvementRepo {
	return &InvolvementRepo{q: q}
}

// Create registra la intervención. documents se guarda como TEXT[].
func (r *InvolvementRepo) Create(ctx context.Context, inv *entity.ProfessionalInvolvement) error {
	docs := inv.Documents
	if docs == nil {
		docs = []string{}
	}
	query := `
		INSERT INTO referral_involvements (id, referral_id, collaborator_id, role, intervened_at, description, notes, documents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING seq, created_at`
	err := r.q.QueryRow(ctx, query,
		inv.ID, inv.ReferralID, inv.CollaboratorID, inv.Role, inv.IntervenedAt,
		inv.Description, inv.Notes, docs,
	).Scan(&inv.Sequence, &inv.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return wrap("insert involvement", err)
	}
	return nil
}

// ListByReferral devuelve todas las intervenciones de la remisión en orden de inserción.
func (r *InvolvementRepo) ListByReferral(ctx context.Context, referralID string) ([]*entity.ProfessionalInvolvement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, referral_id, collaborator_id, seq, role, intervened_at, description, notes, documents, created_at
		FROM referral_involvements WHERE referral_id = $1 ORDER BY seq`, referralID)
	if err != nil {
		return nil, wrapQuery("list involvements", err)
	}
	defer rows.Close()
	var list []*entity.ProfessionalInvolvement
	for rows.Next() {
		var inv entity.ProfessionalInvolvement
		if err := rows.Scan(&inv.ID, &inv.ReferralID, &inv.CollaboratorID, &inv.Sequence, &inv.Role,
			&inv.IntervenedAt, &inv.Description, &inv.Notes, &inv.Documents, &inv.CreatedAt); err != nil {
			return nil, wrap("scan involvement", err)
		}
		list = append(list, &inv)
	}
	return list, wrapQuery("list involvements", rows.Err())
}
