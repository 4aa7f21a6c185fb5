package dto

import "github.com/shopspring/decimal"

// CreateAccountRequest body para POST /api/accounts (compra de una cuenta).
// El proveedor puede darse por id o inline (se crea si no existe por nombre).
type CreateAccountRequest struct {
	PlatformID    string                 `json:"platform_id"`
	SupplierID    string                 `json:"supplier_id,omitempty"`
	Supplier      *InlineSupplierRequest `json:"supplier,omitempty"`
	EmailLogin    string                 `json:"email_login"`
	PasswordLogin string                 `json:"password_login"`
	ProfilesTotal int                    `json:"profiles_total"`
	TotalCost     decimal.Decimal        `json:"total_cost"`
	PurchasedAt   string                 `json:"purchased_at"` // RFC 3339 o YYYY-MM-DD
	CutOffAt      string                 `json:"cut_off_at"`
	Notes         string                 `json:"notes,omitempty"`
}

// InlineSupplierRequest proveedor creado junto con la cuenta.
type InlineSupplierRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

// UpdateAccountRequest body para PUT /api/accounts/:id. Todos los campos son
// opcionales; profiles_total dispara el redimensionamiento de capacidad y
// total_cost la corrección de costo de adquisición (ajuste de solo costo).
type UpdateAccountRequest struct {
	EmailLogin    *string          `json:"email_login,omitempty"`
	PasswordLogin *string          `json:"password_login,omitempty"`
	ProfilesTotal *int             `json:"profiles_total,omitempty"`
	TotalCost     *decimal.Decimal `json:"total_cost,omitempty"`
	PurchasedAt   *string          `json:"purchased_at,omitempty"`
	CutOffAt      *string          `json:"cut_off_at,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

// ProfileResponse representación de un perfil de la cuenta.
type ProfileResponse struct {
	ID        string `json:"id"`
	ProfileNo int    `json:"profile_no"`
	Status    string `json:"status"`
}

// AccountResponse representación de una cuenta con sus perfiles.
type AccountResponse struct {
	ID            string            `json:"id"`
	CompanyID     string            `json:"company_id"`
	PlatformID    string            `json:"platform_id"`
	SupplierID    *string           `json:"supplier_id,omitempty"`
	EmailLogin    string            `json:"email_login"`
	ProfilesTotal int               `json:"profiles_total"`
	PurchasedAt   string            `json:"purchased_at"`
	CutOffAt      string            `json:"cut_off_at"`
	TotalCost     string            `json:"total_cost"`
	Status        string            `json:"status"`
	Notes         string            `json:"notes,omitempty"`
	Profiles      []ProfileResponse `json:"profiles,omitempty"`
}

// AccountListResponse listado paginado de cuentas.
type AccountListResponse struct {
	Items []AccountResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
