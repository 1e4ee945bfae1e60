package inventory_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jhoicas/residencia-api/internal/application/dto"
	"github.com/jhoicas/residencia-api/internal/application/inventory"
	"github.com/jhoicas/residencia-api/internal/application/ports"
	"github.com/jhoicas/residencia-api/internal/domain"
	"github.com/jhoicas/residencia-api/internal/domain/entity"
	"github.com/jhoicas/residencia-api/internal/domain/repository"
	"github.com/jhoicas/residencia-api/internal/infrastructure/memory"
	"github.com/jhoicas/residencia-api/pkg/logger"
)

type fixture struct {
	store    *memory.Store
	products *inventory.ProductUseCase
	ledger   *inventory.RegisterMovementUseCase
	orders   *inventory.SupplyOrderUseCase
	lowStock *inventory.ReplenishmentUseCase
}

func newFixture(t *testing.T, pub ports.EventPublisher) *fixture {
	t.Helper()
	store := memory.New()
	return &fixture{
		store:    store,
		products: inventory.NewProductUseCase(store.Products(), store),
		ledger:   inventory.NewRegisterMovementUseCase(store, store.Movements(), pub, logger.Nop()),
		orders:   inventory.NewSupplyOrderUseCase(store.SupplyOrders(), store.Products()),
		lowStock: inventory.NewReplenishmentUseCase(store.Products(), store.SupplyOrders()),
	}
}

func (f *fixture) product(t *testing.T, code string, minimum int64) *dto.ProductResponse {
	t.Helper()
	p, err := f.products.Create(context.Background(), dto.CreateProductRequest{
		Code:         code,
		Name:         "Producto " + code,
		Category:     entity.CategoryMedication,
		Unit:         entity.UnitBox,
		MinimumStock: decimal.NewFromInt(minimum),
	})
	require.NoError(t, err)
	return p
}

func input(productID, kind string, qty int64) inventory.MovementInputDTO {
	return inventory.MovementInputDTO{
		ProductID:   productID,
		Type:        kind,
		Quantity:    decimal.NewFromInt(qty),
		Responsible: "Enfermera de turno",
		Reason:      "administración",
	}
}

func (f *fixture) stock(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.CurrentStock
}

func TestRegisterMovement_EntradaYSalida(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "MED-001", 0)

	_, err := f.ledger.RegisterMovement(ctx, input(p.ID, entity.MovementTypeIN, 10))
	require.NoError(t, err)

	mov, err := f.ledger.RegisterMovement(ctx, input(p.ID, entity.MovementTypeOUT, 4))
	require.NoError(t, err)
	assert.True(t, mov.StockBefore.Equal(decimal.NewFromInt(10)))
	assert.True(t, mov.StockAfter.Equal(decimal.NewFromInt(6)))
	assert.True(t, f.stock(t, p.ID).Equal(decimal.NewFromInt(6)))

	_, err = f.ledger.RegisterMovement(ctx, input(p.ID, entity.MovementTypeOUT, 10))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.stock(t, p.ID).Equal(decimal.NewFromInt(6)), "un rechazo no modifica el stock")

	list, err := f.ledger.ListMovements(ctx, repository.MovementFilter{ProductID: p.ID}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2, "el rechazo no deja movimiento")
}

func TestRegisterMovement_Validaciones(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "MED-001", 0)

	cases := []struct {
		name  string
		in    inventory.MovementInputDTO
		field string
	}{
		{"cantidad cero", input(p.ID, entity.MovementTypeIN, 0), "cantidad"},
		{"cantidad negativa", input(p.ID, entity.MovementTypeIN, -3), "cantidad"},
		{"tipo desconocido", input(p.ID, "ajuste", 1), "tipo_movimiento"},
		{"sin responsable", func() inventory.MovementInputDTO {
			in := input(p.ID, entity.MovementTypeIN, 1)
			in.Responsible = "  "
			return in
		}(), "responsable"},
		{"sin motivo", func() inventory.MovementInputDTO {
			in := input(p.ID, entity.MovementTypeIN, 1)
			in.Reason = ""
			return in
		}(), "motivo"},
		{"más de tres decimales", func() inventory.MovementInputDTO {
			in := input(p.ID, entity.MovementTypeIN, 1)
			in.Quantity = decimal.RequireFromString("0.0005")
			return in
		}(), "cantidad"},
		{"redondearía a cero", func() inventory.MovementInputDTO {
			in := input(p.ID, entity.MovementTypeIN, 1)
			in.Quantity = decimal.RequireFromString("0.0004")
			return in
		}(), "cantidad"},
		{"fuera de rango", func() inventory.MovementInputDTO {
			in := input(p.ID, entity.MovementTypeIN, 1)
			in.Quantity = decimal.New(1, 11)
			return in
		}(), "cantidad"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ledger.RegisterMovement(ctx, tc.in)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRegisterMovement_TresDecimalesSeConservan(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "MED-002", 0)

	_, err := f.ledger.RegisterMovement(ctx, inventory.MovementInputDTO{
		ProductID: p.ID, Type: entity.MovementTypeIN, Quantity: decimal.RequireFromString("1.2500"),
		Responsible: "Almacén", Reason: "compra",
	})
	require.NoError(t, err, "los ceros a la derecha no cuentan como decimales")
	_, err = f.ledger.RegisterMovement(ctx, inventory.MovementInputDTO{
		ProductID: p.ID, Type: entity.MovementTypeOUT, Quantity: decimal.RequireFromString("0.125"),
		Responsible: "Enfermería", Reason: "curación",
	})
	require.NoError(t, err)
	assert.True(t, f.stock(t, p.ID).Equal(decimal.RequireFromString("1.125")))

	_, err = f.ledger.RegisterMovement(ctx, inventory.MovementInputDTO{
		ProductID: p.ID, Type: entity.MovementTypeOUT, Quantity: decimal.RequireFromString("0.0005"),
		Responsible: "Enfermería", Reason: "curación",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, f.stock(t, p.ID).Equal(decimal.RequireFromString("1.125")), "un movimiento rechazado no toca el stock")
}

func TestRegisterMovement_ProductoInexistente(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.ledger.RegisterMovement(context.Background(), input("no-existe", entity.MovementTypeIN, 1))
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// El stock final es la suma de entradas menos las salidas aceptadas y nunca es negativo.
func TestRegisterMovement_StockIgualASumaDelLibro(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "MED-001", 0)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		kind := entity.MovementTypeIN
		if rng.Intn(2) == 0 {
			kind = entity.MovementTypeOUT
		}
		_, err := f.ledger.RegisterMovement(ctx, input(p.ID, kind, int64(rng.Intn(9)+1)))
		if err != nil {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
		require.False(t, f.stock(t, p.ID).IsNegative())
	}

	list, err := f.ledger.ListMovements(ctx, repository.MovementFilter{ProductID: p.ID}, dto.PageRequest{Limit: 500})
	require.NoError(t, err)
	sum := decimal.Zero
	prev := decimal.Zero
	for _, m := range list.Items {
		require.True(t, m.StockBefore.Equal(prev), "cada movimiento parte del stock anterior")
		if m.Type == entity.MovementTypeIN {
			sum = sum.Add(m.Quantity)
		} else {
			sum = sum.Sub(m.Quantity)
		}
		prev = m.StockAfter
	}
	assert.True(t, sum.Equal(f.stock(t, p.ID)))
}

func TestRegisterMovement_SalidasConcurrentes(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "MED-001", 0)
	_, err := f.ledger.RegisterMovement(ctx, input(p.ID, entity.MovementTypeIN, 5))
	require.NoError(t, err)

	const workers = 10
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		ok         int
		rejected   int
		unexpected []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.RegisterMovement(ctx, input(p.ID, entity.MovementTypeOUT, 5))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				unexpected = append(unexpected, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, unexpected)
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, rejected)
	assert.True(t, f.stock(t, p.ID).IsZero())
}

func TestRegisterMovement_PublicaEventos(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := ports.NewMockEventPublisher(ctrl)
	f := newFixture(t, pub)
	ctx := context.Background()
	p := f.product(t, "MED-001", 5)

	gomock.InOrder(
		pub.EXPECT().Publish(gomock.Any(), gomock.Cond(func(x any) bool {
			ev, ok := x.(ports.Event)
			if !ok {
				return false
			}
			return ev.Type == ports.EventMovementRegistered && ev.AggregateID == p.ID
		})).Return(nil),
		pub.EXPECT().Publish(gomock.Any(), gomock.Cond(func(x any) bool {
			ev, ok := x.(ports.Event)
			if !ok {
				return false
			}
			return ev.Type == ports.EventLowStock && ev.AggregateID == p.ID
		})).Return(nil),
	)
	_, err := f.ledger.RegisterMovement(ctx, input(p.ID, entity.MovementTypeIN, 3))
	require.NoError(t, err)

	// Por encima del mínimo solo se publica el movimiento.
	pub.EXPECT().Publish(gomock.Any(), gomock.Cond(func(x any) bool {
		ev, ok := x.(ports.Event)
		if !ok {
			return false
		}
		return ev.Type == ports.EventMovementRegistered
	})).Return(nil)
	_, err = f.ledger.RegisterMovement(ctx, input(p.ID, entity.MovementTypeIN, 10))
	require.NoError(t, err)
}

func TestRegisterMovement_FalloAlPublicarNoDeshace(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := ports.NewMockEventPublisher(ctrl)
	f := newFixture(t, pub)
	p := f.product(t, "MED-001", 0)

	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker caído")).AnyTimes()
	mov, err := f.ledger.RegisterMovement(context.Background(), input(p.ID, entity.MovementTypeIN, 7))
	require.NoError(t, err)
	assert.NotEmpty(t, mov.ID)
	assert.True(t, f.stock(t, p.ID).Equal(decimal.NewFromInt(7)))
}

func TestRegisterMovement_SinPublicarSiFalla(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := ports.NewMockEventPublisher(ctrl)
	f := newFixture(t, pub)
	p := f.product(t, "MED-001", 0)

	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)
	_, err := f.ledger.RegisterMovement(context.Background(), input(p.ID, entity.MovementTypeOUT, 1))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestListMovements_FiltroPorTipo(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.product(t, "A", 0)
	b := f.product(t, "B", 0)
	for _, in := range []inventory.MovementInputDTO{
		input(a.ID, entity.MovementTypeIN, 5),
		input(b.ID, entity.MovementTypeIN, 5),
		input(a.ID, entity.MovementTypeOUT, 1),
	} {
		_, err := f.ledger.RegisterMovement(ctx, in)
		require.NoError(t, err)
	}

	out, err := f.ledger.ListMovements(ctx, repository.MovementFilter{Type: entity.MovementTypeIN}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)

	out, err = f.ledger.ListMovements(ctx, repository.MovementFilter{ProductID: a.ID, Type: entity.MovementTypeOUT}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].StockAfter.Equal(decimal.NewFromInt(4)))

	_, err = f.ledger.ListMovements(ctx, repository.MovementFilter{Type: "ajuste"}, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProduct_CrearValidaYDuplicado(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "MED-001", 2)
	assert.True(t, p.CurrentStock.IsZero())

	_, err := f.products.Create(ctx, dto.CreateProductRequest{Code: "MED-001", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.products.Create(ctx, dto.CreateProductRequest{Code: "", Name: "Sin código"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "codigo", ve.Field)

	def, err := f.products.Create(ctx, dto.CreateProductRequest{Code: "X-1", Name: "Por defecto"})
	require.NoError(t, err)
	assert.Equal(t, entity.CategoryOther, def.Category)
	assert.Equal(t, entity.UnitPiece, def.Unit)
}

func TestProduct_ActualizacionParcial(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "MED-001", 2)
	f.product(t, "MED-002", 2)

	name := "Nuevo nombre"
	out, err := f.products.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo nombre", out.Name)
	assert.Equal(t, "MED-001", out.Code)

	code := "MED-002"
	_, err = f.products.Update(ctx, p.ID, dto.UpdateProductRequest{Code: &code})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.products.Update(ctx, "no-existe", dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProduct_StockMinimoConMasDeTresDecimales(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "MED-001", 2)

	_, err := f.products.Create(ctx, dto.CreateProductRequest{
		Code: "MED-002", Name: "Gasas", MinimumStock: decimal.RequireFromString("0.0001"),
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "stock_minimo", ve.Field)

	minimo := decimal.RequireFromString("1.2345")
	_, err = f.products.Update(ctx, p.ID, dto.UpdateProductRequest{MinimumStock: &minimo})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "stock_minimo", ve.Field)

	got, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.MinimumStock.Equal(decimal.NewFromInt(2)))
}

func TestProduct_ListPorCategoria(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.product(t, "MED-001", 0)
	_, err := f.products.Create(ctx, dto.CreateProductRequest{Code: "LIM-001", Name: "Cloro", Category: entity.CategoryCleaning})
	require.NoError(t, err)

	out, err := f.products.List(ctx, repository.ProductFilter{Category: entity.CategoryCleaning}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "LIM-001", out.Items[0].Code)

	out, err = f.products.List(ctx, repository.ProductFilter{}, dto.PageRequest{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "MED-001", out.Items[0].Code, "listado ordenado por código")
}

func TestProduct_BorradoRestringido(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	conMovimiento := f.product(t, "A", 0)
	_, err := f.ledger.RegisterMovement(ctx, input(conMovimiento.ID, entity.MovementTypeIN, 1))
	require.NoError(t, err)
	assert.ErrorIs(t, f.products.Delete(ctx, conMovimiento.ID), domain.ErrReferenced)

	conOrden := f.product(t, "B", 0)
	_, err = f.orders.Create(ctx, dto.CreateSupplyOrderRequest{
		ProductID: conOrden.ID, RequestedQuantity: decimal.NewFromInt(1), Supplier: "Proveedor",
	})
	require.NoError(t, err)
	assert.ErrorIs(t, f.products.Delete(ctx, conOrden.ID), domain.ErrReferenced)

	libre := f.product(t, "C", 0)
	require.NoError(t, f.products.Delete(ctx, libre.ID))
	_, err = f.products.GetByID(ctx, libre.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.ErrorIs(t, f.products.Delete(ctx, libre.ID), domain.ErrProductNotFound)
}

func TestSupplyOrder_TotalYActualizacion(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "MED-001", 0)

	cost := decimal.RequireFromString("12.50")
	o, err := f.orders.Create(ctx, dto.CreateSupplyOrderRequest{
		ProductID: p.ID, RequestedQuantity: decimal.NewFromInt(4), Supplier: "Farmacia", UnitCost: &cost,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SupplyStatusPending, o.Status)
	require.NotNil(t, o.Total)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(50)))

	// Cualquier transición de estado está permitida y no afecta el stock.
	for _, st := range []string{"recibido", "pendiente", "cancelado"} {
		o, err = f.orders.Update(ctx, o.ID, dto.UpdateSupplyOrderRequest{Status: &st})
		require.NoError(t, err)
		assert.Equal(t, st, o.Status)
	}
	assert.True(t, f.stock(t, p.ID).IsZero())

	qty := decimal.NewFromInt(8)
	o, err = f.orders.Update(ctx, o.ID, dto.UpdateSupplyOrderRequest{RequestedQuantity: &qty})
	require.NoError(t, err)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(100)), "el total se recalcula")

	bad := "perdido"
	_, err = f.orders.Update(ctx, o.ID, dto.UpdateSupplyOrderRequest{Status: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.orders.Create(ctx, dto.CreateSupplyOrderRequest{
		ProductID: "no-existe", RequestedQuantity: decimal.NewFromInt(1), Supplier: "X",
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestSupplyOrder_EscalaDeCantidadesYCostos(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "MED-001", 0)

	cost := decimal.RequireFromString("12.50")
	o, err := f.orders.Create(ctx, dto.CreateSupplyOrderRequest{
		ProductID: p.ID, RequestedQuantity: decimal.RequireFromString("1.333"), Supplier: "Farmacia", UnitCost: &cost,
	})
	require.NoError(t, err)
	require.NotNil(t, o.Total)
	assert.Equal(t, "16.66", o.Total.StringFixed(2), "el total calculado se redondea a centavos")
	assert.True(t, o.Total.Equal(o.Total.Round(2)))

	cases := []struct {
		name  string
		req   dto.CreateSupplyOrderRequest
		field string
	}{
		{"cantidad con cuatro decimales", dto.CreateSupplyOrderRequest{
			ProductID: p.ID, RequestedQuantity: decimal.RequireFromString("1.2345"), Supplier: "X",
		}, "cantidad_solicitada"},
		{"costo con tres decimales", func() dto.CreateSupplyOrderRequest {
			c := decimal.RequireFromString("1.005")
			return dto.CreateSupplyOrderRequest{ProductID: p.ID, RequestedQuantity: decimal.NewFromInt(1), Supplier: "X", UnitCost: &c}
		}(), "costo_unitario"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.orders.Create(ctx, tc.req)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}

	qty := decimal.RequireFromString("2.0001")
	_, err = f.orders.Update(ctx, o.ID, dto.UpdateSupplyOrderRequest{RequestedQuantity: &qty})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "cantidad_solicitada", ve.Field)
}

func TestSupplyOrder_ListYBorrado(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "MED-001", 0)
	q := f.product(t, "MED-002", 0)
	for _, id := range []string{p.ID, p.ID, q.ID} {
		_, err := f.orders.Create(ctx, dto.CreateSupplyOrderRequest{ProductID: id, RequestedQuantity: decimal.NewFromInt(1), Supplier: "X"})
		require.NoError(t, err)
	}

	out, err := f.orders.List(ctx, repository.SupplyOrderFilter{ProductID: p.ID}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)

	require.NoError(t, f.orders.Delete(ctx, out.Items[0].ID))
	_, err = f.orders.GetByID(ctx, out.Items[0].ID)
	assert.ErrorIs(t, err, domain.ErrSupplyOrderNotFound)
}

func TestListLowStock_SugerenciaYPrioridad(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	vacio := f.product(t, "A", 10)
	parcial := f.product(t, "B", 10)
	f.product(t, "C", 0)

	_, err := f.ledger.RegisterMovement(ctx, input(parcial.ID, entity.MovementTypeIN, 8))
	require.NoError(t, err)
	_, err = f.orders.Create(ctx, dto.CreateSupplyOrderRequest{
		ProductID: vacio.ID, RequestedQuantity: decimal.NewFromInt(5), Supplier: "X",
	})
	require.NoError(t, err)

	list, err := f.lowStock.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, vacio.ID, list[0].Product.ID)
	assert.Equal(t, 1, list[0].Priority)
	assert.True(t, list[0].PendingQuantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, list[0].SuggestedQuantity.Equal(decimal.NewFromInt(10)), "15 - 0 - 5 en camino")

	assert.Equal(t, parcial.ID, list[1].Product.ID)
	assert.Equal(t, 2, list[1].Priority)
	assert.True(t, list[1].SuggestedQuantity.Equal(decimal.NewFromInt(7)), "15 - 8")
}
