package postgres

import (
	"context"

	"github.com/jhoicas/residencia-api/internal/domain/entity"
	"github.com/jhoicas/residencia-api/internal/domain/repository"
)

var (
	_ repository.ResidentRepository     = (*ResidentRepo)(nil)
	_ repository.CollaboratorRepository = (*CollaboratorRepo)(nil)
)

// ResidentRepo lectura de residentes (tabla administrada por el módulo de expedientes).
type ResidentRepo struct {
	q Querier
}

// NewResidentRepository construye el adaptador.
func NewResidentRepository(q Querier) *ResidentRepo {
	return &ResidentRepo{q: q}
}

// GetByID obtiene un residente; (nil, nil) si no existe.
func (r *ResidentRepo) GetByID(ctx context.Context, id string) (*entity.Resident, error) {
	var res entity.Resident
	err := r.q.QueryRow(ctx,
		`SELECT id, full_name, file_number, active FROM residents WHERE id = $1`, id,
	).Scan(&res.ID, &res.FullName, &res.FileNumber, &res.Active)
	if err != nil {
		if missingRow(err) {
			return nil, nil
		}
		return nil, wrap("get resident", err)
	}
	return &res, nil
}

// CollaboratorRepo lectura de colaboradores.
type CollaboratorRepo struct {
	q Querier
}

// NewCollaboratorRepository construye el adaptador.
func NewCollaboratorRepository(q Querier) *CollaboratorRepo {
	return &CollaboratorRepo{q: q}
}

// GetByID obtiene un colaborador; (nil, nil) si no existe.
func (r *CollaboratorRepo) GetByID(ctx context.Context, id string) (*entity.Collaborator, error) {
	var c entity.Collaborator
	err := r.q.QueryRow(ctx,
		`SELECT id, full_name, employee_number, kind, active FROM collaborators WHERE id = $1`, id,
	).Scan(&c.ID, &c.FullName, &c.EmployeeNumber, &c.Kind, &c.Active)
	if err != nil {
		if missingRow(err) {
			return nil, nil
		}
		return nil, wrap("get collaborator", err)
	}
	return &c, nil
}
