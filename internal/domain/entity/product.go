package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de producto.
const (
	CategoryMedication    = "medicamento"
	CategoryWoundCare     = "material_curacion"
	CategoryCleaning      = "limpieza"
	CategoryFood          = "alimentos"
	CategoryStationery    = "papeleria"
	CategoryBedding       = "ropa_cama"
	CategoryMedicalDevice = "equipo_medico"
	CategoryOther         = "otros"
)

// Unidades de medida.
const (
	UnitPiece      = "pieza"
	UnitBox        = "caja"
	UnitPack       = "paquete"
	UnitKilogram   = "kilogramo"
	UnitLiter      = "litro"
	UnitGram       = "gramo"
	UnitMilliliter = "mililitro"
)

// ValidCategory indica si c es una categoría conocida.
func ValidCategory(c string) bool {
	switch c {
	case CategoryMedication, CategoryWoundCare, CategoryCleaning, CategoryFood,
		CategoryStationery, CategoryBedding, CategoryMedicalDevice, CategoryOther:
		return true
	}
	return false
}

// ValidUnit indica si u es una unidad de medida conocida.
func ValidUnit(u string) bool {
	switch u {
	case UnitPiece, UnitBox, UnitPack, UnitKilogram, UnitLiter, UnitGram, UnitMilliliter:
		return true
	}
	return false
}

// Product representa un insumo del almacén de la residencia.
// CurrentStock solo lo modifica el libro de movimientos; Version se incrementa en cada cambio de stock.
type Product struct {
	ID           string
	Code         string // código único
	Name         string
	Description  string
	Category     string
	Unit         string
	CurrentStock decimal.Decimal
	MinimumStock decimal.Decimal
	Location     string
	Notes        string
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BelowMinimum indica si el stock actual está por debajo del mínimo configurado.
func (p *Product) BelowMinimum() bool {
	return p.CurrentStock.LessThan(p.MinimumStock)
}
