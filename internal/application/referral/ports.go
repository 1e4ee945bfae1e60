package referral

import (
	"context"

	"github.com/jhoicas/residencia-api/internal/domain/repository"
)

// Repos agrupa los repositorios que participan en las operaciones de remisiones.
// Dentro de RunReferral todos están atados a la misma transacción.
type Repos struct {
	Referrals     repository.ReferralRepository
	Events        repository.TrackingEventRepository
	Involvements  repository.InvolvementRepository
	Residents     repository.ResidentRepository
	Collaborators repository.CollaboratorRepository
}

// TxRunner ejecuta fn dentro de una transacción; Commit si fn devuelve nil, Rollback en otro caso.
type TxRunner interface {
	RunReferral(ctx context.Context, fn func(repos Repos) error) error
}
