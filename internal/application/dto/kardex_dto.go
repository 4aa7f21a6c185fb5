package dto

import "github.com/shopspring/decimal"

// RegisterMovementRequest body para POST /api/kardex/movements (movimiento manual).
// IN: qty > 0 y unit_cost >= 0. OUT: qty > 0 (sale al promedio vigente).
// ADJUST: qty firmado y/o delta_total_cost firmado (qty 0 = solo costo).
type RegisterMovementRequest struct {
	PlatformID     string           `json:"platform_id"`
	Type           string           `json:"type"` // IN, OUT, ADJUST
	Qty            int64            `json:"qty"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	DeltaTotalCost *decimal.Decimal `json:"delta_total_cost,omitempty"`
}

// MovementResponse representación de un movimiento del kardex.
// Los costos se exponen redondeados a 2 decimales; internamente se
// conserva la precisión completa.
type MovementResponse struct {
	ID           string  `json:"id"`
	PlatformID   string  `json:"platform_id"`
	Type         string  `json:"type"`
	RefType      string  `json:"ref_type"`
	Qty          int64   `json:"qty"`
	UnitCost     string  `json:"unit_cost"`
	TotalCost    string  `json:"total_cost"`
	StockAfter   int64   `json:"stock_after"`
	AvgCostAfter string  `json:"avg_cost_after"`
	AccountID    *string `json:"account_id,omitempty"`
	SaleID       *string `json:"sale_id,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// BalanceResponse balance vigente de (company, platform).
type BalanceResponse struct {
	PlatformID string `json:"platform_id"`
	QtyOnHand  int64  `json:"qty_on_hand"`
	AvgCost    string `json:"avg_cost"`
	UpdatedAt  string `json:"updated_at"`
}

// RecomputeResponse resultado del recálculo por replay contra el balance incremental.
type RecomputeResponse struct {
	PlatformID    string `json:"platform_id"`
	StoredQty     int64  `json:"stored_qty"`
	StoredAvg     string `json:"stored_avg_cost"`
	RecomputedQty int64  `json:"recomputed_qty"`
	RecomputedAvg string `json:"recomputed_avg_cost"`
	Drift         bool   `json:"drift"`
	Repaired      bool   `json:"repaired"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
