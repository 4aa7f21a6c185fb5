package dto

import "time"

// CreateCompanyRequest body para POST /api/companies.
type CreateCompanyRequest struct {
	Name    string `json:"name"`
	NIT     string `json:"nit"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// CompanyResponse representación de una empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NIT       string    `json:"nit"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyListResponse listado paginado de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreatePlatformRequest body para POST /api/platforms.
type CreatePlatformRequest struct {
	Name        string `json:"name"`
	MaxProfiles int    `json:"max_profiles,omitempty"`
}

// UpdatePlatformRequest body para PUT /api/platforms/:id.
type UpdatePlatformRequest struct {
	Name        *string `json:"name,omitempty"`
	MaxProfiles *int    `json:"max_profiles,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// PlatformResponse representación de una plataforma del catálogo.
type PlatformResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Name        string    `json:"name"`
	MaxProfiles int       `json:"max_profiles,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlatformListResponse listado paginado de plataformas.
type PlatformListResponse struct {
	Items []PlatformResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateSupplierRequest body para POST /api/suppliers.
type CreateSupplierRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

// SupplierResponse representación de un proveedor.
type SupplierResponse struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"company_id"`
	Name            string    `json:"name"`
	Contact         string    `json:"contact,omitempty"`
	HistoricalSpend string    `json:"historical_spend"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SupplierListResponse listado paginado de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// CustomerResponse representación de un cliente.
type CustomerResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerListResponse listado paginado de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// InventoryValueLine una línea del reporte de valor de inventario.
type InventoryValueLine struct {
	PlatformID   string `json:"platform_id"`
	PlatformName string `json:"platform_name"`
	QtyOnHand    int64  `json:"qty_on_hand"`
	AvgCost      string `json:"avg_cost"`
	TotalValue   string `json:"total_value"`
}

// InventoryValueResponse reporte de valor de inventario por plataforma.
type InventoryValueResponse struct {
	Lines      []InventoryValueLine `json:"lines"`
	GrandTotal string               `json:"grand_total"`
}

// SalesReportResponse reporte de ventas de un rango de fechas: solo las ventas
// activas cuentan para ingreso, costo y utilidad; las anuladas se reportan aparte.
type SalesReportResponse struct {
	From          string `json:"from,omitempty"`
	To            string `json:"to,omitempty"`
	SalesCount    int    `json:"sales_count"`
	CanceledCount int    `json:"canceled_count"`
	Revenue       string `json:"revenue"`
	Cost          string `json:"cost"`
	Profit        string `json:"profit"` // revenue - cost
}
