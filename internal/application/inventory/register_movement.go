package inventory

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/residencia-api/internal/application/dto"
	"github.com/jhoicas/residencia-api/internal/application/ports"
	"github.com/jhoicas/residencia-api/internal/domain"
	"github.com/jhoicas/residencia-api/internal/domain/entity"
	"github.com/jhoicas/residencia-api/internal/domain/inventory"
	"github.com/jhoicas/residencia-api/internal/domain/repository"
	"github.com/jhoicas/residencia-api/pkg/logger"
)

// RegisterMovementUseCase registra movimientos del libro (entrada/salida) de forma transaccional,
// con bloqueo de fila del producto (SELECT FOR UPDATE) y escritura condicionada por versión.
type RegisterMovementUseCase struct {
	txRunner  TxRunner
	movRepo   repository.InventoryMovementRepository
	publisher ports.EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso. publisher puede ser nil (sin eventos).
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	movRepo repository.InventoryMovementRepository,
	publisher ports.EventPublisher,
	log *logger.Logger,
) *RegisterMovementUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RegisterMovementUseCase{
		txRunner:  txRunner,
		movRepo:   movRepo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// MovementInputDTO entrada para registrar un movimiento.
type MovementInputDTO struct {
	ProductID   string
	Type        string
	Quantity    decimal.Decimal
	Responsible string
	Reason      string
	Reference   string
	Notes       string
}

// MovementInputFromRequest adapta el body HTTP al caso de uso.
func MovementInputFromRequest(in dto.RegisterMovementRequest) MovementInputDTO {
	return MovementInputDTO{
		ProductID:   in.ProductID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		Responsible: in.Responsible,
		Reason:      in.Reason,
		Reference:   in.Reference,
		Notes:       in.Notes,
	}
}

func (in MovementInputDTO) validate() error {
	if strings.TrimSpace(in.ProductID) == "" {
		return domain.Invalid("producto_id", "requerido")
	}
	if in.Type != entity.MovementTypeIN && in.Type != entity.MovementTypeOUT {
		return domain.Invalid("tipo_movimiento", "debe ser entrada o salida")
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.Invalid("cantidad", "debe ser mayor que cero")
	}
	if err := inventory.CheckScale("cantidad", in.Quantity, inventory.QuantityPlaces); err != nil {
		return err
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(in.Responsible)); n == 0 || n > 200 {
		return domain.Invalid("responsable", "entre 1 y 200 caracteres")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return domain.Invalid("motivo", "requerido")
	}
	if utf8.RuneCountInString(in.Reference) > 100 {
		return domain.Invalid("documento_referencia", "máximo 100 caracteres")
	}
	return nil
}

// RegisterMovement bloquea el producto, calcula el nuevo stock, lo escribe y agrega el movimiento
// en la misma transacción: ambos cambios quedan o ninguno. Un stock resultante negativo devuelve
// domain.ErrInsufficientStock y no modifica nada.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*entity.InventoryMovement, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var (
		movement *entity.InventoryMovement
		product  entity.Product
	)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		_ repository.SupplyOrderRepository,
	) error {
		locked, err := productRepo.GetForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrProductNotFound
		}

		next, err := inventory.ApplyMovement(locked.CurrentStock, input.Type, input.Quantity)
		if err != nil {
			return err
		}
		if err := productRepo.UpdateStock(ctx, locked.ID, next, locked.Version); err != nil {
			return err
		}

		movement = &entity.InventoryMovement{
			ID:          uuid.New().String(),
			ProductID:   locked.ID,
			Type:        input.Type,
			Quantity:    input.Quantity,
			StockBefore: locked.CurrentStock,
			StockAfter:  next,
			Responsible: strings.TrimSpace(input.Responsible),
			Reason:      strings.TrimSpace(input.Reason),
			Reference:   input.Reference,
			Notes:       input.Notes,
			CreatedAt:   uc.now().UTC(),
		}
		if err := movRepo.Create(ctx, movement); err != nil {
			return err
		}

		product = *locked
		product.CurrentStock = next
		product.Version = locked.Version + 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	events := []ports.Event{
		ports.NewEvent(ports.EventMovementRegistered, movement.ProductID, ToMovementResponse(movement)),
	}
	if product.BelowMinimum() {
		events = append(events, ports.NewEvent(ports.EventLowStock, product.ID, ToProductResponse(&product)))
	}
	ports.PublishAll(ctx, uc.publisher, uc.log, events...)

	return movement, nil
}

// ListMovements devuelve el libro en orden de inserción, filtrado por producto y/o tipo.
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter, page dto.PageRequest) (*dto.MovementListResponse, error) {
	if filter.Type != "" && filter.Type != entity.MovementTypeIN && filter.Type != entity.MovementTypeOUT {
		return nil, domain.Invalid("tipo_movimiento", "debe ser entrada o salida")
	}
	page.DefaultPage()
	list, err := uc.movRepo.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// GetMovement obtiene un movimiento por ID.
func (uc *RegisterMovementUseCase) GetMovement(ctx context.Context, id string) (*dto.MovementResponse, error) {
	m, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return ToMovementResponse(m), nil
}

// ToMovementResponse convierte la entidad a DTO de salida.
func ToMovementResponse(m *entity.InventoryMovement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Responsible: m.Responsible,
		Reason:      m.Reason,
		Reference:   m.Reference,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
	}
}
