package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier representa un proveedor de cuentas de streaming.
// HistoricalSpend acumula el gasto total en compras de cuentas; se mantiene
// atómicamente junto con la compra o corrección de costo de cada cuenta.
type Supplier struct {
	ID              string
	CompanyID       string
	Name            string
	Contact         string
	HistoricalSpend decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
