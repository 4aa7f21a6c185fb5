package kardex

import (
	"github.com/shopspring/decimal"

	"github.com/jdrueda/slotstock-api/internal/domain"
)

// Balance es el estado de una línea de costo: cantidad en mano (entera) y
// costo promedio ponderado. Las funciones de este paquete son puras (sin I/O):
// reciben el balance vigente y un movimiento propuesto y devuelven el balance
// resultante o fallan. La cantidad nunca queda negativa y la división por
// cantidad cero corta a promedio 0, nunca a error.
type Balance struct {
	Qty     int64
	AvgCost decimal.Decimal
}

// TotalValue devuelve el valor retenido del inventario (Qty * AvgCost).
func (b Balance) TotalValue() decimal.Decimal {
	return b.AvgCost.Mul(decimal.NewFromInt(b.Qty))
}

// ApplyIn aplica una entrada de qty unidades a unitCost:
// NuevoPromedio = (Qty*AvgCost + qty*unitCost) / (Qty + qty).
func ApplyIn(b Balance, qty int64, unitCost decimal.Decimal) (Balance, error) {
	if qty <= 0 || unitCost.LessThan(decimal.Zero) {
		return Balance{}, domain.ErrInvalidInput
	}
	newQty := b.Qty + qty
	inTotal := unitCost.Mul(decimal.NewFromInt(qty))
	return Balance{
		Qty:     newQty,
		AvgCost: averageOf(b.TotalValue().Add(inTotal), newQty),
	}, nil
}

// ApplyOut aplica una salida de qty unidades al costo promedio vigente.
// El promedio no cambia en una salida. Devuelve el costo unitario usado
// (para que el caller lo registre como costo de venta).
// Falla con ErrInsufficientStock si no hay cantidad suficiente.
func ApplyOut(b Balance, qty int64) (Balance, decimal.Decimal, error) {
	if qty <= 0 {
		return Balance{}, decimal.Zero, domain.ErrInvalidInput
	}
	if b.Qty < qty {
		return Balance{}, decimal.Zero, domain.ErrInsufficientStock
	}
	newQty := b.Qty - qty
	avg := b.AvgCost
	if newQty == 0 {
		avg = decimal.Zero
	}
	return Balance{Qty: newQty, AvgCost: avg}, b.AvgCost, nil
}

// ApplyAdjust aplica un ajuste firmado de cantidad y/o de valor:
// deltaQty puede ser 0 (corrección de solo costo) o distinto de 0 (corrección
// de capacidad). NuevoValor = Qty*AvgCost + deltaTotalCost;
// NuevoPromedio = NuevoValor / NuevaCantidad (0 si queda en 0).
// Devuelve además el costo unitario a registrar en el movimiento:
// deltaTotalCost/deltaQty cuando deltaQty != 0, si no 0.
// Falla con ErrNegativeInventory si la cantidad o el valor retenido
// quedarían por debajo de 0 (el promedio nunca es negativo).
func ApplyAdjust(b Balance, deltaQty int64, deltaTotalCost decimal.Decimal) (Balance, decimal.Decimal, error) {
	newQty := b.Qty + deltaQty
	if newQty < 0 {
		return Balance{}, decimal.Zero, domain.ErrNegativeInventory
	}
	unitCost := decimal.Zero
	if deltaQty != 0 {
		unitCost = deltaTotalCost.Div(decimal.NewFromInt(deltaQty))
	}
	newValue := b.TotalValue().Add(deltaTotalCost)
	if newValue.IsNegative() {
		return Balance{}, decimal.Zero, domain.ErrNegativeInventory
	}
	return Balance{
		Qty:     newQty,
		AvgCost: averageOf(newValue, newQty),
	}, unitCost, nil
}

// averageOf divide el valor entre la cantidad; 0 cuando la cantidad es 0.
func averageOf(value decimal.Decimal, qty int64) decimal.Decimal {
	if qty == 0 {
		return decimal.Zero
	}
	return value.Div(decimal.NewFromInt(qty))
}
