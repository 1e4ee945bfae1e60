package repository

import (
	"context"

	"github.com/jhoicas/residencia-api/internal/domain/entity"
)

// MovementFilter filtros opcionales para el libro de movimientos.
type MovementFilter struct {
	ProductID string
	Type      string
}

// InventoryMovementRepository define el puerto del libro de movimientos (solo inserción).
// List devuelve los movimientos en orden de inserción.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error)
	List(ctx context.Context, filter MovementFilter, limit, offset int) ([]*entity.InventoryMovement, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
}
