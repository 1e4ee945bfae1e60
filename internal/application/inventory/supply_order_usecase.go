package inventory

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/residencia-api/internal/application/dto"
	"github.com/jhoicas/residencia-api/internal/domain"
	"github.com/jhoicas/residencia-api/internal/domain/entity"
	"github.com/jhoicas/residencia-api/internal/domain/inventory"
	"github.com/jhoicas/residencia-api/internal/domain/repository"
)

// SupplyOrderUseCase gestiona las órdenes de suministro. Recibir una orden no mueve stock:
// la entrada física se registra aparte con un movimiento.
type SupplyOrderUseCase struct {
	repo        repository.SupplyOrderRepository
	productRepo repository.ProductRepository
	now         func() time.Time
}

// NewSupplyOrderUseCase construye el caso de uso.
func NewSupplyOrderUseCase(repo repository.SupplyOrderRepository, productRepo repository.ProductRepository) *SupplyOrderUseCase {
	return &SupplyOrderUseCase{repo: repo, productRepo: productRepo, now: time.Now}
}

// Create registra una orden para un producto existente. Si no llega total se calcula
// como costo_unitario × cantidad_solicitada.
func (uc *SupplyOrderUseCase) Create(ctx context.Context, in dto.CreateSupplyOrderRequest) (*dto.SupplyOrderResponse, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, domain.Invalid("producto_id", "requerido")
	}
	if !in.RequestedQuantity.GreaterThan(decimal.Zero) {
		return nil, domain.Invalid("cantidad_solicitada", "debe ser mayor que cero")
	}
	if err := inventory.CheckScale("cantidad_solicitada", in.RequestedQuantity, inventory.QuantityPlaces); err != nil {
		return nil, err
	}
	supplier := strings.TrimSpace(in.Supplier)
	if err := validateSupplier(supplier); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = entity.SupplyStatusPending
	}
	if !entity.ValidSupplyStatus(status) {
		return nil, domain.Invalid("estado", "estado desconocido")
	}
	received := decimal.Zero
	if in.ReceivedQuantity != nil {
		if in.ReceivedQuantity.IsNegative() {
			return nil, domain.Invalid("cantidad_recibida", "no puede ser negativa")
		}
		if err := inventory.CheckScale("cantidad_recibida", *in.ReceivedQuantity, inventory.QuantityPlaces); err != nil {
			return nil, err
		}
		received = *in.ReceivedQuantity
	}
	if err := validateCosts(in.UnitCost, in.Total); err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	now := uc.now().UTC()
	order := &entity.SupplyOrder{
		ID:                  uuid.New().String(),
		ProductID:           product.ID,
		RequestedQuantity:   in.RequestedQuantity,
		ReceivedQuantity:    received,
		Status:              status,
		Supplier:            supplier,
		RequestedAt:         now,
		EstimatedDeliveryAt: in.EstimatedDeliveryAt,
		UnitCost:            in.UnitCost,
		Total:               orderTotal(in.UnitCost, in.Total, in.RequestedQuantity),
		Urgent:              in.Urgent,
		Notes:               in.Notes,
		UpdatedAt:           now,
	}
	if err := uc.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	return ToSupplyOrderResponse(order), nil
}

// GetByID obtiene una orden por ID.
func (uc *SupplyOrderUseCase) GetByID(ctx context.Context, id string) (*dto.SupplyOrderResponse, error) {
	order, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrSupplyOrderNotFound
	}
	return ToSupplyOrderResponse(order), nil
}

// Update aplica una actualización parcial. Cualquier estado puede pasar a cualquier otro.
func (uc *SupplyOrderUseCase) Update(ctx context.Context, id string, in dto.UpdateSupplyOrderRequest) (*dto.SupplyOrderResponse, error) {
	order, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrSupplyOrderNotFound
	}
	if in.RequestedQuantity != nil {
		if !in.RequestedQuantity.GreaterThan(decimal.Zero) {
			return nil, domain.Invalid("cantidad_solicitada", "debe ser mayor que cero")
		}
		if err := inventory.CheckScale("cantidad_solicitada", *in.RequestedQuantity, inventory.QuantityPlaces); err != nil {
			return nil, err
		}
		order.RequestedQuantity = *in.RequestedQuantity
	}
	if in.ReceivedQuantity != nil {
		if in.ReceivedQuantity.IsNegative() {
			return nil, domain.Invalid("cantidad_recibida", "no puede ser negativa")
		}
		if err := inventory.CheckScale("cantidad_recibida", *in.ReceivedQuantity, inventory.QuantityPlaces); err != nil {
			return nil, err
		}
		order.ReceivedQuantity = *in.ReceivedQuantity
	}
	if in.Status != nil {
		if !entity.ValidSupplyStatus(*in.Status) {
			return nil, domain.Invalid("estado", "estado desconocido")
		}
		order.Status = *in.Status
	}
	if in.Supplier != nil {
		supplier := strings.TrimSpace(*in.Supplier)
		if err := validateSupplier(supplier); err != nil {
			return nil, err
		}
		order.Supplier = supplier
	}
	if in.EstimatedDeliveryAt != nil {
		order.EstimatedDeliveryAt = in.EstimatedDeliveryAt
	}
	if in.DeliveredAt != nil {
		order.DeliveredAt = in.DeliveredAt
	}
	if err := validateCosts(in.UnitCost, in.Total); err != nil {
		return nil, err
	}
	if in.UnitCost != nil {
		order.UnitCost = in.UnitCost
	}
	if in.Total != nil {
		order.Total = in.Total
	} else if in.UnitCost != nil || in.RequestedQuantity != nil {
		order.Total = orderTotal(order.UnitCost, nil, order.RequestedQuantity)
	}
	if in.Urgent != nil {
		order.Urgent = *in.Urgent
	}
	if in.Notes != nil {
		order.Notes = *in.Notes
	}
	order.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	return ToSupplyOrderResponse(order), nil
}

// List lista órdenes filtradas por producto y/o estado.
func (uc *SupplyOrderUseCase) List(ctx context.Context, filter repository.SupplyOrderFilter, page dto.PageRequest) (*dto.SupplyOrderListResponse, error) {
	if filter.Status != "" && !entity.ValidSupplyStatus(filter.Status) {
		return nil, domain.Invalid("estado", "estado desconocido")
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplyOrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *ToSupplyOrderResponse(o))
	}
	return &dto.SupplyOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina una orden de suministro.
func (uc *SupplyOrderUseCase) Delete(ctx context.Context, id string) error {
	order, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrSupplyOrderNotFound
	}
	return uc.repo.Delete(ctx, id)
}

func validateSupplier(s string) error {
	if n := utf8.RuneCountInString(s); n == 0 || n > 200 {
		return domain.Invalid("proveedor", "entre 1 y 200 caracteres")
	}
	return nil
}

func validateCosts(unitCost, total *decimal.Decimal) error {
	if unitCost != nil {
		if unitCost.IsNegative() {
			return domain.Invalid("costo_unitario", "no puede ser negativo")
		}
		if err := inventory.CheckScale("costo_unitario", *unitCost, inventory.MoneyPlaces); err != nil {
			return err
		}
	}
	if total != nil {
		if total.IsNegative() {
			return domain.Invalid("total", "no puede ser negativo")
		}
		if err := inventory.CheckScale("total", *total, inventory.MoneyPlaces); err != nil {
			return err
		}
	}
	return nil
}

func orderTotal(unitCost, total *decimal.Decimal, qty decimal.Decimal) *decimal.Decimal {
	if total != nil {
		return total
	}
	if unitCost == nil {
		return nil
	}
	t := unitCost.Mul(qty).Round(inventory.MoneyPlaces)
	return &t
}

// ToSupplyOrderResponse convierte la entidad a DTO de salida.
func ToSupplyOrderResponse(o *entity.SupplyOrder) *dto.SupplyOrderResponse {
	if o == nil {
		return nil
	}
	return &dto.SupplyOrderResponse{
		ID:                  o.ID,
		ProductID:           o.ProductID,
		RequestedQuantity:   o.RequestedQuantity,
		ReceivedQuantity:    o.ReceivedQuantity,
		Status:              o.Status,
		Supplier:            o.Supplier,
		RequestedAt:         o.RequestedAt,
		EstimatedDeliveryAt: o.EstimatedDeliveryAt,
		DeliveredAt:         o.DeliveredAt,
		UnitCost:            o.UnitCost,
		Total:               o.Total,
		Urgent:              o.Urgent,
		Notes:               o.Notes,
	}
}
