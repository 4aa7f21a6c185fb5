package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta de perfil.
const (
	SaleActive   = "ACTIVE"
	SaleCanceled = "CANCELED"
)

// Sale representa la venta de un perfil a un cliente.
// CostAtSale es el costo promedio ponderado vigente al momento de la venta
// (lo devuelve el kardex en la salida); no se reescribe si después se corrige
// el costo de adquisición de la cuenta.
type Sale struct {
	ID           string
	CompanyID    string
	PlatformID   string
	AccountID    string
	ProfileID    string
	CustomerID   string
	SalePrice    decimal.Decimal
	SaleDate     time.Time
	DaysAssigned int
	CutoffDate   time.Time // SaleDate + DaysAssigned
	CostAtSale   decimal.Decimal
	Status       string // ACTIVE, CANCELED
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CreatedBy    string
}
