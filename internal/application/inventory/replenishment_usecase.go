package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/residencia-api/internal/application/dto"
	"github.com/jhoicas/residencia-api/internal/domain/entity"
	"github.com/jhoicas/residencia-api/internal/domain/repository"
)

// idealStockFactor múltiplo del stock mínimo que se busca alcanzar al reponer.
var idealStockFactor = decimal.NewFromFloat(1.5)

// ReplenishmentUseCase arma la lista de productos bajo mínimo con la cantidad sugerida de pedido,
// descontando lo que ya viene en órdenes abiertas.
type ReplenishmentUseCase struct {
	productRepo repository.ProductRepository
	supplyRepo  repository.SupplyOrderRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	productRepo repository.ProductRepository,
	supplyRepo repository.SupplyOrderRepository,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		productRepo: productRepo,
		supplyRepo:  supplyRepo,
	}
}

// ListLowStock devuelve los productos con stock_actual < stock_minimo ordenados por urgencia
// (mayor déficit relativo primero). Prioridad 1 = más urgente.
func (uc *ReplenishmentUseCase) ListLowStock(ctx context.Context) ([]dto.LowStockItemResponse, error) {
	products, err := uc.productRepo.ListBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LowStockItemResponse, 0, len(products))
	for _, p := range products {
		pending, err := uc.pendingQuantity(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		suggested := p.MinimumStock.Mul(idealStockFactor).Sub(p.CurrentStock).Sub(pending)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		items = append(items, dto.LowStockItemResponse{
			Product:           *ToProductResponse(p),
			Deficit:           p.MinimumStock.Sub(p.CurrentStock),
			PendingQuantity:   pending,
			SuggestedQuantity: suggested,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		ra, rb := deficitRatio(a), deficitRatio(b)
		if !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		return a.Deficit.GreaterThan(b.Deficit)
	})
	for i := range items {
		items[i].Priority = i + 1
	}
	return items, nil
}

// pendingQuantity suma lo solicitado y aún no recibido en órdenes no cerradas.
func (uc *ReplenishmentUseCase) pendingQuantity(ctx context.Context, productID string) (decimal.Decimal, error) {
	orders, err := uc.supplyRepo.List(ctx, repository.SupplyOrderFilter{ProductID: productID}, 500, 0)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, o := range orders {
		switch o.Status {
		case entity.SupplyStatusPending, entity.SupplyStatusProcessing, entity.SupplyStatusShipped:
			if rest := o.RequestedQuantity.Sub(o.ReceivedQuantity); rest.IsPositive() {
				total = total.Add(rest)
			}
		}
	}
	return total, nil
}

func deficitRatio(item dto.LowStockItemResponse) decimal.Decimal {
	if !item.Product.MinimumStock.IsPositive() {
		return decimal.Zero
	}
	return item.Deficit.Div(item.Product.MinimumStock)
}
