package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/residencia-api/internal/domain"
	"github.com/jhoicas/residencia-api/internal/domain/entity"
	"github.com/jhoicas/residencia-api/internal/domain/repository"
)

var (
	_ repository.ReferralRepository      = (*ReferralRepo)(nil)
	_ repository.TrackingEventRepository = (*TrackingEventRepo)(nil)
	_ repository.InvolvementRepository   = (*InvolvementRepo)(nil)
	_ repository.ResidentRepository      = (*ResidentRepo)(nil)
	_ repository.CollaboratorRepository  = (*CollaboratorRepo)(nil)
)

// ReferralRepo remisiones en memoria. El número es único como en la restricción UNIQUE de Postgres.
type ReferralRepo struct{ h handle }

func findReferral(st *state, id string) int {
	for i := range st.referrals {
		if st.referrals[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *ReferralRepo) Create(_ context.Context, ref *entity.Referral) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.residents[ref.ResidentID]; !ok {
			return domain.ErrResidentNotFound
		}
		for _, existing := range st.referrals {
			if existing.Number == ref.Number {
				return domain.ErrDuplicateReferralNumber
			}
		}
		st.referrals = append(st.referrals, *ref)
		return nil
	})
}

func (r *ReferralRepo) GetByID(_ context.Context, id string) (*entity.Referral, error) {
	var out *entity.Referral
	err := r.h.read(func(st *state) error {
		if i := findReferral(st, id); i >= 0 {
			ref := st.referrals[i]
			out = &ref
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: las transacciones del Store ya son serializadas.
func (r *ReferralRepo) GetForUpdate(ctx context.Context, id string) (*entity.Referral, error) {
	return r.GetByID(ctx, id)
}

func (r *ReferralRepo) Update(_ context.Context, ref *entity.Referral) error {
	return r.h.write(func(st *state) error {
		i := findReferral(st, ref.ID)
		if i < 0 {
			return domain.ErrReferralNotFound
		}
		updated := *ref
		updated.Number = st.referrals[i].Number
		updated.CreatedAt = st.referrals[i].CreatedAt
		st.referrals[i] = updated
		return nil
	})
}

// List devuelve las remisiones más recientes primero.
func (r *ReferralRepo) List(_ context.Context, filter repository.ReferralFilter, limit, offset int) ([]*entity.Referral, error) {
	var out []*entity.Referral
	err := r.h.read(func(st *state) error {
		matched := make([]entity.Referral, 0, len(st.referrals))
		for i := len(st.referrals) - 1; i >= 0; i-- {
			ref := st.referrals[i]
			if filter.Status != "" && ref.Status != filter.Status {
				continue
			}
			if filter.Type != "" && ref.Type != filter.Type {
				continue
			}
			matched = append(matched, ref)
		}
		start, end := page(len(matched), limit, offset)
		for i := start; i < end; i++ {
			ref := matched[i]
			out = append(out, &ref)
		}
		return nil
	})
	return out, err
}

func (r *ReferralRepo) LastNumberWithPrefix(_ context.Context, prefix string) (string, error) {
	last := ""
	err := r.h.read(func(st *state) error {
		for _, ref := range st.referrals {
			if !strings.HasPrefix(ref.Number, prefix) {
				continue
			}
			if len(ref.Number) > len(last) || (len(ref.Number) == len(last) && ref.Number > last) {
				last = ref.Number
			}
		}
		return nil
	})
	return last, err
}

func (r *ReferralRepo) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		i := findReferral(st, id)
		if i < 0 {
			return domain.ErrReferralNotFound
		}
		st.referrals = append(st.referrals[:i], st.referrals[i+1:]...)

		events := st.events[:0]
		for _, ev := range st.events {
			if ev.ReferralID != id {
				events = append(events, ev)
			}
		}
		st.events = events

		involvements := st.involvements[:0]
		for _, inv := range st.involvements {
			if inv.ReferralID != id {
				involvements = append(involvements, inv)
			}
		}
		st.involvements = involvements
		return nil
	})
}

// TrackingEventRepo seguimiento en memoria; se conserva el orden de inserción.
type TrackingEventRepo struct{ h handle }

func (r *TrackingEventRepo) Create(_ context.Context, ev *entity.TrackingEvent) error {
	return r.h.write(func(st *state) error {
		if findReferral(st, ev.ReferralID) < 0 {
			return domain.ErrReferralNotFound
		}
		ev.Sequence = st.nextSeq()
		st.events = append(st.events, *ev)
		return nil
	})
}

func (r *TrackingEventRepo) ListByReferral(_ context.Context, referralID string) ([]*entity.TrackingEvent, error) {
	var out []*entity.TrackingEvent
	err := r.h.read(func(st *state) error {
		for _, ev := range st.events {
			if ev.ReferralID == referralID {
				ev := ev
				out = append(out, &ev)
			}
		}
		return nil
	})
	return out, err
}

// InvolvementRepo trazabilidad profesional en memoria.
type InvolvementRepo struct{ h handle }

func (r *InvolvementRepo) Create(_ context.Context, inv *entity.ProfessionalInvolvement) error {
	return r.h.write(func(st *state) error {
		if findReferral(st, inv.ReferralID) < 0 {
			return domain.ErrReferralNotFound
		}
		if _, ok := st.collaborators[inv.CollaboratorID]; !ok {
			return domain.ErrCollaboratorNotFound
		}
		inv.Sequence = st.nextSeq()
		stored := *inv
		stored.Documents = append([]string(nil), inv.Documents...)
		st.involvements = append(st.involvements, stored)
		return nil
	})
}

func (r *InvolvementRepo) ListByReferral(_ context.Context, referralID string) ([]*entity.ProfessionalInvolvement, error) {
	var out []*entity.ProfessionalInvolvement
	err := r.h.read(func(st *state) error {
		for _, inv := range st.involvements {
			if inv.ReferralID == referralID {
				inv := inv
				inv.Documents = append([]string(nil), inv.Documents...)
				out = append(out, &inv)
			}
		}
		return nil
	})
	return out, err
}

// ResidentRepo consulta de residentes.
type ResidentRepo struct{ h handle }

func (r *ResidentRepo) GetByID(_ context.Context, id string) (*entity.Resident, error) {
	var out *entity.Resident
	err := r.h.read(func(st *state) error {
		if res, ok := st.residents[id]; ok {
			out = &res
		}
		return nil
	})
	return out, err
}

// CollaboratorRepo consulta de colaboradores.
type CollaboratorRepo struct{ h handle }

func (r *CollaboratorRepo) GetByID(_ context.Context, id string) (*entity.Collaborator, error) {
	var out *entity.Collaborator
	err := r.h.read(func(st *state) error {
		if c, ok := st.collaborators[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}
