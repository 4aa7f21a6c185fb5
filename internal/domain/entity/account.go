package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una cuenta de streaming (lote de compra).
const (
	AccountActive   = "ACTIVE"
	AccountInactive = "INACTIVE"
)

// Account representa una cuenta de streaming comprada (un lote).
// La compra crea ProfilesTotal perfiles vendibles numerados 1..N; la cuenta
// es dueña exclusiva de sus perfiles (un perfil no se reasigna ni sobrevive a la cuenta).
// TotalCost es el costo de adquisición vigente; puede corregirse después de la
// compra con un ajuste de solo costo en el kardex.
type Account struct {
	ID            string
	CompanyID     string
	PlatformID    string
	SupplierID    *string // nil si se compró sin proveedor registrado
	EmailLogin    string
	PasswordLogin string
	ProfilesTotal int
	PurchasedAt   time.Time
	CutOffAt      time.Time // fecha de corte/vencimiento de la cuenta
	TotalCost     decimal.Decimal
	Status        string // ACTIVE, INACTIVE
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string
}

// UnitCost devuelve el costo por perfil derivado del costo total vigente
// sobre el total de perfiles indicado (0 si el divisor es 0).
func (a *Account) UnitCost(profiles int) decimal.Decimal {
	if profiles <= 0 {
		return decimal.Zero
	}
	return a.TotalCost.Div(decimal.NewFromInt(int64(profiles)))
}
