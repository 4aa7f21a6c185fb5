package entity

import "time"

// Company representa una organización/tenant del sistema (multi-tenant).
// Todo dato de negocio (plataformas, cuentas, kardex, ventas) está scoped por CompanyID.
type Company struct {
	ID        string
	Name      string
	NIT       string // NIT o identificación fiscal (con o sin dígito de verificación)
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
