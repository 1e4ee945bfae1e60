package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventario/movimientos.
type RegisterMovementRequest struct {
	ProductID   string          `json:"producto_id"`
	Type        string          `json:"tipo_movimiento"`
	Quantity    decimal.Decimal `json:"cantidad"`
	Responsible string          `json:"responsable"`
	Reason      string          `json:"motivo"`
	Reference   string          `json:"documento_referencia,omitempty"`
	Notes       string          `json:"notas,omitempty"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"producto_id"`
	Type        string          `json:"tipo_movimiento"`
	Quantity    decimal.Decimal `json:"cantidad"`
	StockBefore decimal.Decimal `json:"stock_anterior"`
	StockAfter  decimal.Decimal `json:"stock_nuevo"`
	Responsible string          `json:"responsable"`
	Reason      string          `json:"motivo"`
	Reference   string          `json:"documento_referencia,omitempty"`
	Notes       string          `json:"notas,omitempty"`
	CreatedAt   time.Time       `json:"fecha_movimiento"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateSupplyOrderRequest entrada para crear una orden de suministro.
type CreateSupplyOrderRequest struct {
	ProductID           string           `json:"producto_id"`
	RequestedQuantity   decimal.Decimal  `json:"cantidad_solicitada"`
	ReceivedQuantity    *decimal.Decimal `json:"cantidad_recibida,omitempty"`
	Status              string           `json:"estado,omitempty"`
	Supplier            string           `json:"proveedor"`
	EstimatedDeliveryAt *time.Time       `json:"fecha_entrega_estimada,omitempty"`
	UnitCost            *decimal.Decimal `json:"costo_unitario,omitempty"`
	Total               *decimal.Decimal `json:"total,omitempty"`
	Urgent              bool             `json:"urgente"`
	Notes               string           `json:"notas,omitempty"`
}

// UpdateSupplyOrderRequest actualización parcial; el estado puede pasar a cualquier otro.
type UpdateSupplyOrderRequest struct {
	RequestedQuantity   *decimal.Decimal `json:"cantidad_solicitada"`
	ReceivedQuantity    *decimal.Decimal `json:"cantidad_recibida"`
	Status              *string          `json:"estado"`
	Supplier            *string          `json:"proveedor"`
	EstimatedDeliveryAt *time.Time       `json:"fecha_entrega_estimada"`
	DeliveredAt         *time.Time       `json:"fecha_entrega_real"`
	UnitCost            *decimal.Decimal `json:"costo_unitario"`
	Total               *decimal.Decimal `json:"total"`
	Urgent              *bool            `json:"urgente"`
	Notes               *string          `json:"notas"`
}

// SupplyOrderResponse salida de una orden de suministro.
type SupplyOrderResponse struct {
	ID                  string           `json:"id"`
	ProductID           string           `json:"producto_id"`
	RequestedQuantity   decimal.Decimal  `json:"cantidad_solicitada"`
	ReceivedQuantity    decimal.Decimal  `json:"cantidad_recibida"`
	Status              string           `json:"estado"`
	Supplier            string           `json:"proveedor"`
	RequestedAt         time.Time        `json:"fecha_solicitud"`
	EstimatedDeliveryAt *time.Time       `json:"fecha_entrega_estimada,omitempty"`
	DeliveredAt         *time.Time       `json:"fecha_entrega_real,omitempty"`
	UnitCost            *decimal.Decimal `json:"costo_unitario,omitempty"`
	Total               *decimal.Decimal `json:"total,omitempty"`
	Urgent              bool             `json:"urgente"`
	Notes               string           `json:"notas,omitempty"`
}

// SupplyOrderListResponse lista paginada de órdenes de suministro.
type SupplyOrderListResponse struct {
	Items []SupplyOrderResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// LowStockItemResponse producto por debajo de su stock mínimo con la cantidad sugerida a pedir.
type LowStockItemResponse struct {
	Product           ProductResponse `json:"producto"`
	Deficit           decimal.Decimal `json:"deficit"`
	PendingQuantity   decimal.Decimal `json:"cantidad_en_camino"`
	SuggestedQuantity decimal.Decimal `json:"cantidad_sugerida"`
	Priority          int             `json:"prioridad"`
}
