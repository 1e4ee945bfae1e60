package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de suministro. Cualquier estado puede seguir a cualquier otro.
const (
	SupplyStatusPending    = "pendiente"
	SupplyStatusProcessing = "procesando"
	SupplyStatusShipped    = "enviado"
	SupplyStatusReceived   = "recibido"
	SupplyStatusCancelled  = "cancelado"
)

// ValidSupplyStatus indica si s es un estado de suministro conocido.
func ValidSupplyStatus(s string) bool {
	switch s {
	case SupplyStatusPending, SupplyStatusProcessing, SupplyStatusShipped,
		SupplyStatusReceived, SupplyStatusCancelled:
		return true
	}
	return false
}

// SupplyOrder es una solicitud de compra para reabastecer un producto.
// Recibirla no modifica el stock: la entrada se registra aparte como movimiento.
type SupplyOrder struct {
	ID                  string
	ProductID           string
	RequestedQuantity   decimal.Decimal
	ReceivedQuantity    decimal.Decimal
	Status              string
	Supplier            string
	RequestedAt         time.Time
	EstimatedDeliveryAt *time.Time
	DeliveredAt         *time.Time
	UnitCost            *decimal.Decimal
	Total               *decimal.Decimal
	Urgent              bool
	Notes               string
	UpdatedAt           time.Time
}
