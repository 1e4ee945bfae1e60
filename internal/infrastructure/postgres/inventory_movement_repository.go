package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/residencia-api/internal/domain"
	"github.com/jhoicas/residencia-api/internal/domain/entity"
	"github.com/jhoicas/residencia-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementColumns = `id, product_id, type, quantity, stock_before, stock_after, responsible, reason, reference, notes, created_at`

// InventoryMovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
// El orden de inserción lo da la columna seq (BIGSERIAL).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	err := row.Scan(
		&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.StockBefore, &m.StockAfter,
		&m.Responsible, &m.Reason, &m.Reference, &m.Notes, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create agrega un movimiento al libro. created_at lo asigna la base de datos.
func (r *InventoryMovementRepo) Create(ctx context.Context, movement *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (id, product_id, type, quantity, stock_before, stock_after, responsible, reason, reference, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`
	err := r.q.QueryRow(ctx, query,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity,
		movement.StockBefore, movement.StockAfter, movement.Responsible, movement.Reason,
		movement.Reference, movement.Notes,
	).Scan(&movement.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrProductNotFound
		}
		return wrap("insert inventory movement", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM inventory_movements WHERE id = $1`, id))
	if err != nil {
		if missingRow(err) {
			return nil, nil
		}
		return nil, wrap("get movement", err)
	}
	return m, nil
}

// List lista movimientos en orden de inserción con filtros opcionales.
func (r *InventoryMovementRepo) List(ctx context.Context, filter repository.MovementFilter, limit, offset int) ([]*entity.InventoryMovement, error) {
	var (
		where []string
		args  []any
	)
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		where = append(where, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	query := `SELECT ` + movementColumns + ` FROM inventory_movements`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY seq LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapQuery("list movements", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, wrap("scan movement", err)
		}
		list = append(list, m)
	}
	return list, wrapQuery("list movements", rows.Err())
}

// CountByProduct cuenta los movimientos que referencian un producto.
func (r *InventoryMovementRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM inventory_movements WHERE product_id = $1`, productID).Scan(&n)
	if err != nil {
		return 0, wrapQuery("count movements", err)
	}
	return n, nil
}
