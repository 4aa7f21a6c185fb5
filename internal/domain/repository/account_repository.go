package repository

import "github.com/jdrueda/slotstock-api/internal/domain/entity"

// AccountRepository define el puerto de persistencia para cuentas (lotes).
type AccountRepository interface {
	Create(account *entity.Account) error
	GetByID(id string) (*entity.Account, error)
	// GetForUpdate bloquea la fila de la cuenta dentro de la tx para
	// serializar cambios de capacidad, costo y estado sobre la misma cuenta.
	GetForUpdate(id string) (*entity.Account, error)
	Update(account *entity.Account) error
	UpdateStatus(id, status string) error
	ListByCompany(companyID, platformID string, includeInactive bool, limit, offset int) ([]*entity.Account, error)
}
