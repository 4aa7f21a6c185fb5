package dto

import "github.com/shopspring/decimal"

// CreateSaleRequest body para POST /api/sales (vender un perfil de una cuenta).
// El sistema elige el perfil AVAILABLE de menor número dentro de la cuenta.
type CreateSaleRequest struct {
	AccountID    string          `json:"account_id"`
	CustomerID   string          `json:"customer_id"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	SaleDate     string          `json:"sale_date"` // RFC 3339 o YYYY-MM-DD
	DaysAssigned int             `json:"days_assigned"`
	Notes        string          `json:"notes,omitempty"`
}

// SaleResponse representación de una venta.
type SaleResponse struct {
	ID           string `json:"id"`
	CompanyID    string `json:"company_id"`
	PlatformID   string `json:"platform_id"`
	AccountID    string `json:"account_id"`
	ProfileID    string `json:"profile_id"`
	CustomerID   string `json:"customer_id"`
	SalePrice    string `json:"sale_price"`
	SaleDate     string `json:"sale_date"`
	DaysAssigned int    `json:"days_assigned"`
	CutoffDate   string `json:"cutoff_date"`
	CostAtSale   string `json:"cost_at_sale"`
	Profit       string `json:"profit"` // sale_price - cost_at_sale
	Status       string `json:"status"`
	Notes        string `json:"notes,omitempty"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
