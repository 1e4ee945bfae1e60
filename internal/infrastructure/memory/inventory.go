package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/residencia-api/internal/domain"
	"github.com/jhoicas/residencia-api/internal/domain/entity"
	"github.com/jhoicas/residencia-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository           = (*ProductRepo)(nil)
	_ repository.InventoryMovementRepository = (*MovementRepo)(nil)
	_ repository.SupplyOrderRepository       = (*SupplyOrderRepo)(nil)
)

// ProductRepo productos en memoria.
type ProductRepo struct{ h handle }

func findProduct(st *state, id string) int {
	for i := range st.products {
		if st.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.h.write(func(st *state) error {
		for _, existing := range st.products {
			if existing.Code == p.Code || existing.ID == p.ID {
				return domain.ErrDuplicate
			}
		}
		st.products = append(st.products, *p)
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.h.read(func(st *state) error {
		if i := findProduct(st, id); i >= 0 {
			p := st.products[i]
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.h.read(func(st *state) error {
		for _, p := range st.products {
			if p.Code == code {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: la transacción ya tiene el estado en exclusiva.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.h.write(func(st *state) error {
		i := findProduct(st, p.ID)
		if i < 0 {
			return domain.ErrProductNotFound
		}
		for _, other := range st.products {
			if other.Code == p.Code && other.ID != p.ID {
				return domain.ErrDuplicate
			}
		}
		stored := st.products[i]
		updated := *p
		updated.CurrentStock = stored.CurrentStock
		updated.Version = stored.Version
		updated.CreatedAt = stored.CreatedAt
		st.products[i] = updated
		return nil
	})
}

func (r *ProductRepo) UpdateStock(_ context.Context, id string, stock decimal.Decimal, expectedVersion int64) error {
	return r.h.write(func(st *state) error {
		i := findProduct(st, id)
		if i < 0 || st.products[i].Version != expectedVersion {
			return domain.ErrConcurrentUpdate
		}
		if stock.IsNegative() {
			return domain.ErrInsufficientStock
		}
		st.products[i].CurrentStock = stock
		st.products[i].Version++
		st.products[i].UpdatedAt = time.Now().UTC()
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.h.read(func(st *state) error {
		matched := make([]entity.Product, 0, len(st.products))
		for _, p := range st.products {
			if filter.Category != "" && p.Category != filter.Category {
				continue
			}
			matched = append(matched, p)
		}
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Code < matched[j].Code })
		start, end := page(len(matched), limit, offset)
		for i := start; i < end; i++ {
			p := matched[i]
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) ListBelowMinimum(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.h.read(func(st *state) error {
		for _, p := range st.products {
			if p.BelowMinimum() {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	return out, err
}

// Delete respeta la integridad referencial igual que la FK ON DELETE RESTRICT.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		i := findProduct(st, id)
		if i < 0 {
			return domain.ErrProductNotFound
		}
		for _, m := range st.movements {
			if m.ProductID == id {
				return domain.ErrReferenced
			}
		}
		for _, o := range st.supplyOrders {
			if o.ProductID == id {
				return domain.ErrReferenced
			}
		}
		st.products = append(st.products[:i], st.products[i+1:]...)
		return nil
	})
}

// MovementRepo libro de movimientos en memoria; el orden del slice es el orden de inserción.
type MovementRepo struct{ h handle }

func (r *MovementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	return r.h.write(func(st *state) error {
		if findProduct(st, m.ProductID) < 0 {
			return domain.ErrProductNotFound
		}
		st.nextSeq()
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.InventoryMovement, error) {
	var out *entity.InventoryMovement
	err := r.h.read(func(st *state) error {
		for _, m := range st.movements {
			if m.ID == id {
				m := m
				out = &m
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) List(_ context.Context, filter repository.MovementFilter, limit, offset int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	err := r.h.read(func(st *state) error {
		matched := make([]entity.InventoryMovement, 0, len(st.movements))
		for _, m := range st.movements {
			if filter.ProductID != "" && m.ProductID != filter.ProductID {
				continue
			}
			if filter.Type != "" && m.Type != filter.Type {
				continue
			}
			matched = append(matched, m)
		}
		start, end := page(len(matched), limit, offset)
		for i := start; i < end; i++ {
			m := matched[i]
			out = append(out, &m)
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	n := 0
	err := r.h.read(func(st *state) error {
		for _, m := range st.movements {
			if m.ProductID == productID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// SupplyOrderRepo órdenes de suministro en memoria.
type SupplyOrderRepo struct{ h handle }

func findSupplyOrder(st *state, id string) int {
	for i := range st.supplyOrders {
		if st.supplyOrders[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *SupplyOrderRepo) Create(_ context.Context, o *entity.SupplyOrder) error {
	return r.h.write(func(st *state) error {
		if findProduct(st, o.ProductID) < 0 {
			return domain.ErrProductNotFound
		}
		st.supplyOrders = append(st.supplyOrders, *o)
		return nil
	})
}

func (r *SupplyOrderRepo) GetByID(_ context.Context, id string) (*entity.SupplyOrder, error) {
	var out *entity.SupplyOrder
	err := r.h.read(func(st *state) error {
		if i := findSupplyOrder(st, id); i >= 0 {
			o := st.supplyOrders[i]
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *SupplyOrderRepo) Update(_ context.Context, o *entity.SupplyOrder) error {
	return r.h.write(func(st *state) error {
		i := findSupplyOrder(st, o.ID)
		if i < 0 {
			return domain.ErrSupplyOrderNotFound
		}
		st.supplyOrders[i] = *o
		return nil
	})
}

// List devuelve las órdenes más recientes primero.
func (r *SupplyOrderRepo) List(_ context.Context, filter repository.SupplyOrderFilter, limit, offset int) ([]*entity.SupplyOrder, error) {
	var out []*entity.SupplyOrder
	err := r.h.read(func(st *state) error {
		matched := make([]entity.SupplyOrder, 0, len(st.supplyOrders))
		for i := len(st.supplyOrders) - 1; i >= 0; i-- {
			o := st.supplyOrders[i]
			if filter.ProductID != "" && o.ProductID != filter.ProductID {
				continue
			}
			if filter.Status != "" && o.Status != filter.Status {
				continue
			}
			matched = append(matched, o)
		}
		start, end := page(len(matched), limit, offset)
		for i := start; i < end; i++ {
			o := matched[i]
			out = append(out, &o)
		}
		return nil
	})
	return out, err
}

func (r *SupplyOrderRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	n := 0
	err := r.h.read(func(st *state) error {
		for _, o := range st.supplyOrders {
			if o.ProductID == productID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *SupplyOrderRepo) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		i := findSupplyOrder(st, id)
		if i < 0 {
			return domain.ErrSupplyOrderNotFound
		}
		st.supplyOrders = append(st.supplyOrders[:i], st.supplyOrders[i+1:]...)
		return nil
	})
}
