package entity

import "time"

// ProfessionalInvolvement vincula a un colaborador con una remisión y describe su intervención.
// Un mismo colaborador puede aparecer varias veces en la misma remisión.
type ProfessionalInvolvement struct {
	ID             string
	ReferralID     string
	CollaboratorID string
	Sequence       int64
	Role           string
	IntervenedAt   time.Time
	Description    string
	Notes          string
	Documents      []string // documentos generados
	CreatedAt      time.Time
}
