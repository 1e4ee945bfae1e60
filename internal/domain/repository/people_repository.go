package repository

import (
	"context"

	"github.com/jhoicas/residencia-api/internal/domain/entity"
)

// ResidentRepository consulta residentes (el alta y edición viven en otro módulo).
type ResidentRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Resident, error)
}

// CollaboratorRepository consulta colaboradores (personal de la residencia).
type CollaboratorRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Collaborator, error)
}
