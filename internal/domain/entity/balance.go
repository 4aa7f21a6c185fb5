package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemBalance es el balance vigente de una línea de costo (company, platform):
// cantidad en mano y costo promedio ponderado. Única fila por par; se crea en
// el primer movimiento y nunca se borra. Invariante: QtyOnHand es la suma
// firmada de los movimientos y AvgCost es el valor retenido / QtyOnHand
// (0 cuando la cantidad es 0). La fila es el punto de serialización: toda
// mutación la lee con SELECT ... FOR UPDATE dentro de su transacción.
type ItemBalance struct {
	CompanyID  string
	PlatformID string
	QtyOnHand  int64
	AvgCost    decimal.Decimal
	UpdatedAt  time.Time
}
