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

var _ repository.SupplyOrderRepository = (*SupplyOrderRepo)(nil)

const supplyOrderColumns = `id, product_id, requested_quantity, received_quantity, status, supplier, requested_at,
	estimated_delivery_at, delivered_at, unit_cost, total, urgent, notes, updated_at`

// SupplyOrderRepo órdenes de suministro sobre PostgreSQL.
type SupplyOrderRepo struct {
	q Querier
}

// NewSupplyOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplyOrderRepository(q Querier) *SupplyOrderRepo {
	return &SupplyOrderRepo{q: q}
}

func scanSupplyOrder(row pgx.Row) (*entity.SupplyOrder, error) {
	var o entity.SupplyOrder
	err := row.Scan(
		&o.ID, &o.ProductID, &o.RequestedQuantity, &o.ReceivedQuantity, &o.Status, &o.Supplier,
		&o.RequestedAt, &o.EstimatedDeliveryAt, &o.DeliveredAt, &o.UnitCost, &o.Total,
		&o.Urgent, &o.Notes, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste una orden. Un producto inexistente devuelve domain.ErrProductNotFound.
func (r *SupplyOrderRepo) Create(ctx context.Context, o *entity.SupplyOrder) error {
	query := `
		INSERT INTO supply_orders (` + supplyOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.ProductID, o.RequestedQuantity, o.ReceivedQuantity, o.Status, o.Supplier,
		o.RequestedAt, o.EstimatedDeliveryAt, o.DeliveredAt, o.UnitCost, o.Total,
		o.Urgent, o.Notes, o.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrProductNotFound
		}
		return wrap("insert supply order", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *SupplyOrderRepo) GetByID(ctx context.Context, id string) (*entity.SupplyOrder, error) {
	o, err := scanSupplyOrder(r.q.QueryRow(ctx, `SELECT `+supplyOrderColumns+` FROM supply_orders WHERE id = $1`, id))
	if err != nil {
		if missingRow(err) {
			return nil, nil
		}
		return nil, wrap("get supply order", err)
	}
	return o, nil
}

// Update reemplaza los campos mutables de la orden.
func (r *SupplyOrderRepo) Update(ctx context.Context, o *entity.SupplyOrder) error {
	query := `
		UPDATE supply_orders SET requested_quantity = $2, received_quantity = $3, status = $4, supplier = $5,
			estimated_delivery_at = $6, delivered_at = $7, unit_cost = $8, total = $9, urgent = $10,
			notes = $11, updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		o.ID, o.RequestedQuantity, o.ReceivedQuantity, o.Status, o.Supplier,
		o.EstimatedDeliveryAt, o.DeliveredAt, o.UnitCost, o.Total, o.Urgent,
		o.Notes, o.UpdatedAt,
	)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrSupplyOrderNotFound
		}
		return wrap("update supply order", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSupplyOrderNotFound
	}
	return nil
}

// List lista órdenes, las más recientes primero.
func (r *SupplyOrderRepo) List(ctx context.Context, filter repository.SupplyOrderFilter, limit, offset int) ([]*entity.SupplyOrder, error) {
	var (
		where []string
		args  []any
	)
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		where = append(where, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	query := `SELECT ` + supplyOrderColumns + ` FROM supply_orders`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY requested_at DESC, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapQuery("list supply orders", err)
	}
	defer rows.Close()
	var list []*entity.SupplyOrder
	for rows.Next() {
		o, err := scanSupplyOrder(rows)
		if err != nil {
			return nil, wrap("scan supply order", err)
		}
		list = append(list, o)
	}
	return list, wrapQuery("list supply orders", rows.Err())
}

// CountByProduct cuenta las órdenes que referencian un producto.
func (r *SupplyOrderRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM supply_orders WHERE product_id = $1`, productID).Scan(&n)
	if err != nil {
		return 0, wrapQuery("count supply orders", err)
	}
	return n, nil
}

// Delete elimina una orden.
func (r *SupplyOrderRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM supply_orders WHERE id = $1`, id)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrSupplyOrderNotFound
		}
		return wrap("delete supply order", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSupplyOrderNotFound
	}
	return nil
}
