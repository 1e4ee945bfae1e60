package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock inicial siempre es 0:
// las existencias entran con un movimiento de entrada.
type CreateProductRequest struct {
	Code         string          `json:"codigo"`
	Name         string          `json:"nombre"`
	Description  string          `json:"descripcion"`
	Category     string          `json:"categoria"`
	Unit         string          `json:"unidad_medida"`
	MinimumStock decimal.Decimal `json:"stock_minimo"`
	Location     string          `json:"ubicacion"`
	Notes        string          `json:"notas"`
}

// UpdateProductRequest actualización parcial: solo se aplican los campos presentes.
type UpdateProductRequest struct {
	Code         *string          `json:"codigo"`
	Name         *string          `json:"nombre"`
	Description  *string          `json:"descripcion"`
	Category     *string          `json:"categoria"`
	Unit         *string          `json:"unidad_medida"`
	MinimumStock *decimal.Decimal `json:"stock_minimo"`
	Location     *string          `json:"ubicacion"`
	Notes        *string          `json:"notas"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"codigo"`
	Name         string          `json:"nombre"`
	Description  string          `json:"descripcion"`
	Category     string          `json:"categoria"`
	Unit         string          `json:"unidad_medida"`
	CurrentStock decimal.Decimal `json:"stock_actual"`
	MinimumStock decimal.Decimal `json:"stock_minimo"`
	BelowMinimum bool            `json:"bajo_minimo"`
	Location     string          `json:"ubicacion"`
	Notes        string          `json:"notas"`
	CreatedAt    time.Time       `json:"fecha_creacion"`
	UpdatedAt    time.Time       `json:"fecha_actualizacion"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
