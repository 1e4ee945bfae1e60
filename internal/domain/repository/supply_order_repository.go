package repository

import (
	"context"

	"github.com/jhoicas/residencia-api/internal/domain/entity"
)

// SupplyOrderFilter filtros opcionales para órdenes de suministro.
type SupplyOrderFilter struct {
	ProductID string
	Status    string
}

// SupplyOrderRepository define el puerto de persistencia para SupplyOrder.
type SupplyOrderRepository interface {
	Create(ctx context.Context, order *entity.SupplyOrder) error
	GetByID(ctx context.Context, id string) (*entity.SupplyOrder, error)
	Update(ctx context.Context, order *entity.SupplyOrder) error
	List(ctx context.Context, filter SupplyOrderFilter, limit, offset int) ([]*entity.SupplyOrder, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
	Delete(ctx context.Context, id string) error
}
