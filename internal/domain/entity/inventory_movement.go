package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN  = "entrada"
	MovementTypeOUT = "salida"
)

// InventoryMovement es un registro inmutable del libro de stock. Nunca se actualiza ni se borra.
type InventoryMovement struct {
	ID          string
	ProductID   string
	Type        string
	Quantity    decimal.Decimal // siempre positiva; el signo lo da Type
	StockBefore decimal.Decimal
	StockAfter  decimal.Decimal
	Responsible string
	Reason      string
	Reference   string // factura, remisión, orden de suministro
	Notes       string
	CreatedAt   time.Time
}
