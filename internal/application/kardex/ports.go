package kardex

import (
	"context"

	"github.com/jdrueda/slotstock-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción de BD.
// El runner los construye sobre la tx para que kardex, cuentas, perfiles y
// ventas se muevan juntos de forma atómica.
type Repos struct {
	Movements repository.MovementRepository
	Balances  repository.BalanceRepository
	Accounts  repository.AccountRepository
	Profiles  repository.ProfileRepository
	Sales     repository.SaleRepository
	Suppliers repository.SupplierRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad: cualquier error en fn
// revierte movimiento, balance y cambios de estado de cuentas/perfiles.
// La implementación de Postgres reintenta fallos de serialización con backoff
// y devuelve domain.ErrConcurrencyConflict al agotar los reintentos.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Repos) error) error
}
