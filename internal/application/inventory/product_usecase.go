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

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia vía movimientos.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner TxRunner
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner TxRunner) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner, now: time.Now}
}

// Create crea un nuevo producto con stock 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if err := validateCode(in.Code); err != nil {
		return nil, err
	}
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if in.Category == "" {
		in.Category = entity.CategoryOther
	}
	if !entity.ValidCategory(in.Category) {
		return nil, domain.Invalid("categoria", "categoría desconocida")
	}
	if in.Unit == "" {
		in.Unit = entity.UnitPiece
	}
	if !entity.ValidUnit(in.Unit) {
		return nil, domain.Invalid("unidad_medida", "unidad desconocida")
	}
	if in.MinimumStock.IsNegative() {
		return nil, domain.Invalid("stock_minimo", "no puede ser negativo")
	}
	if err := inventory.CheckScale("stock_minimo", in.MinimumStock, inventory.QuantityPlaces); err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := uc.now().UTC()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Code:         in.Code,
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		Unit:         in.Unit,
		CurrentStock: decimal.Zero,
		MinimumStock: in.MinimumStock,
		Location:     in.Location,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return ToProductResponse(product), nil
}

// Update aplica una actualización parcial. No permite modificar el stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if err := validateCode(code); err != nil {
			return nil, err
		}
		if code != product.Code {
			other, err := uc.repo.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, domain.ErrDuplicate
			}
		}
		product.Code = code
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		if !entity.ValidCategory(*in.Category) {
			return nil, domain.Invalid("categoria", "categoría desconocida")
		}
		product.Category = *in.Category
	}
	if in.Unit != nil {
		if !entity.ValidUnit(*in.Unit) {
			return nil, domain.Invalid("unidad_medida", "unidad desconocida")
		}
		product.Unit = *in.Unit
	}
	if in.MinimumStock != nil {
		if in.MinimumStock.IsNegative() {
			return nil, domain.Invalid("stock_minimo", "no puede ser negativo")
		}
		if err := inventory.CheckScale("stock_minimo", *in.MinimumStock, inventory.QuantityPlaces); err != nil {
			return nil, err
		}
		product.MinimumStock = *in.MinimumStock
	}
	if in.Location != nil {
		product.Location = *in.Location
	}
	if in.Notes != nil {
		product.Notes = *in.Notes
	}
	product.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List lista productos con paginación, opcionalmente por categoría.
func (uc *ProductUseCase) List(ctx context.Context, filter repository.ProductFilter, page dto.PageRequest) (*dto.ProductListResponse, error) {
	if filter.Category != "" && !entity.ValidCategory(filter.Category) {
		return nil, domain.Invalid("categoria", "categoría desconocida")
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un producto sin movimientos ni órdenes de suministro.
// Con referencias devuelve domain.ErrReferenced; la FK ON DELETE RESTRICT cubre la carrera restante.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		supplyRepo repository.SupplyOrderRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		movements, err := movRepo.CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		orders, err := supplyRepo.CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		if movements > 0 || orders > 0 {
			return domain.ErrReferenced
		}
		return productRepo.Delete(ctx, id)
	})
}

func validateCode(code string) error {
	if n := utf8.RuneCountInString(code); n == 0 || n > 50 {
		return domain.Invalid("codigo", "entre 1 y 50 caracteres")
	}
	return nil
}

func validateName(name string) error {
	if n := utf8.RuneCountInString(name); n == 0 || n > 200 {
		return domain.Invalid("nombre", "entre 1 y 200 caracteres")
	}
	return nil
}

// ToProductResponse convierte la entidad a DTO de salida.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Unit:         p.Unit,
		CurrentStock: p.CurrentStock,
		MinimumStock: p.MinimumStock,
		BelowMinimum: p.BelowMinimum(),
		Location:     p.Location,
		Notes:        p.Notes,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
