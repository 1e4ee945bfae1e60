package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/residencia-api/internal/domain/entity"
)

// ProductFilter filtros opcionales para listar productos (vacío = sin filtro).
type ProductFilter struct {
	Category string
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetByCode devuelven (nil, nil) cuando no existe el registro.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update modifica atributos descriptivos; nunca toca CurrentStock ni Version.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock escribe el nuevo stock solo si la versión almacenada sigue siendo expectedVersion.
	// Devuelve domain.ErrConcurrentUpdate si otra escritura ganó.
	UpdateStock(ctx context.Context, id string, stock decimal.Decimal, expectedVersion int64) error
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, error)
	ListBelowMinimum(ctx context.Context) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
