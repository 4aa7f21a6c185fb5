package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del kardex.
const (
	MovementIN     = "IN"     // entrada de perfiles (compra o aumento de capacidad)
	MovementOUT    = "OUT"    // salida por venta, al costo promedio vigente
	MovementADJUST = "ADJUST" // ajuste de cantidad y/o de costo (puede ser firmado)
)

// Referencias de origen de un movimiento.
const (
	RefAccountPurchase     = "ACCOUNT_PURCHASE"     // compra de cuenta
	RefProfileSale         = "PROFILE_SALE"         // venta de un perfil
	RefProfileAdjust       = "PROFILE_ADJUST"       // cambio de perfiles totales
	RefCostAdjust          = "COST_ADJUST"          // corrección del costo de adquisición
	RefAccountInactivation = "ACCOUNT_INACTIVATION" // inactivación de la cuenta
	RefSaleReversal        = "SALE_REVERSAL"        // anulación de una venta
	RefManual              = "MANUAL"               // movimiento manual vía API
)

// KardexMovement es un hecho inmutable del kardex: nunca se actualiza ni se
// borra después de creado. La única mutación permitida es completar SaleID
// en un paso posterior de la misma transacción lógica (enlace venta-movimiento).
// Qty lleva magnitud no negativa en IN y OUT (el tipo determina el signo al
// reconstruir el balance) y delta firmado en ADJUST.
// StockAfter y AvgCostAfter son el snapshot del balance resultante, para
// auditoría y para el recálculo por replay.
type KardexMovement struct {
	ID           string
	CompanyID    string
	PlatformID   string
	Type         string
	RefType      string
	Qty          int64
	UnitCost     decimal.Decimal
	TotalCost    decimal.Decimal
	StockAfter   int64
	AvgCostAfter decimal.Decimal
	AccountID    *string
	SaleID       *string
	CreatedAt    time.Time
	CreatedBy    string
}
