package kardex

import (
	"github.com/shopspring/decimal"

	"github.com/jdrueda/slotstock-api/internal/domain"
	"github.com/jdrueda/slotstock-api/internal/domain/entity"
)

// Recompute deriva el balance desde cero reproduciendo todo el historial de
// movimientos en orden cronológico: suma cantidad y valor en IN/ADJUST y los
// resta en OUT. Es la fuente de verdad para auditoría y reparación de deriva;
// O(n) por llamada, así que la ruta caliente usa el camino incremental
// (ApplyIn/ApplyOut/ApplyAdjust), que debe producir el mismo resultado para
// la misma secuencia de movimientos.
func Recompute(movements []*entity.KardexMovement) (Balance, error) {
	var qty int64
	value := decimal.Zero

	for _, m := range movements {
		switch m.Type {
		case entity.MovementIN, entity.MovementADJUST:
			// IN lleva magnitud positiva; ADJUST puede ser firmado
			qty += m.Qty
			value = value.Add(m.TotalCost)
		case entity.MovementOUT:
			// OUT lleva magnitud positiva y se resta
			qty -= m.Qty
			value = value.Sub(m.TotalCost)
		default:
			return Balance{}, domain.ErrInvalidInput
		}
		if qty < 0 {
			return Balance{}, domain.ErrNegativeInventory
		}
	}
	return Balance{Qty: qty, AvgCost: averageOf(value, qty)}, nil
}
