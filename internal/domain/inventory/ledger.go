package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/residencia-api/internal/domain"
	"github.com/jhoicas/residencia-api/internal/domain/entity"
)

// Decimales que conservan las columnas NUMERIC: cantidades (14,3) y montos (14,2).
const (
	QuantityPlaces int32 = 3
	MoneyPlaces    int32 = 2
)

// CheckScale rechaza valores que PostgreSQL redondearía o no podría guardar con esos decimales.
func CheckScale(field string, v decimal.Decimal, places int32) error {
	if !v.Equal(v.Truncate(places)) {
		return domain.Invalid(field, fmt.Sprintf("máximo %d decimales", places))
	}
	if v.Abs().GreaterThanOrEqual(decimal.New(1, 14-places)) {
		return domain.Invalid(field, "fuera de rango")
	}
	return nil
}

// ApplyMovement calcula el stock resultante de aplicar un movimiento (servicio de dominio).
// entrada: actual + cantidad; salida: actual - cantidad, rechazada si el resultado es negativo.
func ApplyMovement(current decimal.Decimal, movementType string, quantity decimal.Decimal) (decimal.Decimal, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return current, domain.Invalid("cantidad", "debe ser mayor que cero")
	}
	switch movementType {
	case entity.MovementTypeIN:
		next := current.Add(quantity)
		if err := CheckScale("cantidad", next, QuantityPlaces); err != nil {
			return current, domain.Invalid("cantidad", "el stock resultante excede el máximo")
		}
		return next, nil
	case entity.MovementTypeOUT:
		next := current.Sub(quantity)
		if next.IsNegative() {
			return current, domain.ErrInsufficientStock
		}
		return next, nil
	}
	return current, domain.Invalid("tipo_movimiento", "debe ser entrada o salida")
}

// Replay recorre los movimientos aceptados en orden y devuelve el stock que justifican.
// Sirve para auditar que Product.CurrentStock coincide con el libro.
func Replay(movements []*entity.InventoryMovement) (decimal.Decimal, error) {
	stock := decimal.Zero
	for _, m := range movements {
		next, err := ApplyMovement(stock, m.Type, m.Quantity)
		if err != nil {
			return stock, err
		}
		stock = next
	}
	return stock, nil
}
