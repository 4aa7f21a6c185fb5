package repository

import "github.com/jdrueda/slotstock-api/internal/domain/entity"

// BalanceRepository define el puerto para el balance por (company, platform).
// Usado dentro de transacciones: GetForUpdate bloquea la fila (SELECT FOR UPDATE)
// y es el punto de serialización de todas las mutaciones sobre ese par.
type BalanceRepository interface {
	// Get devuelve el balance vigente, o balance cero si la fila no existe aún.
	Get(companyID, platformID string) (*entity.ItemBalance, error)
	// GetForUpdate igual que Get pero bloqueando la fila dentro de la tx.
	GetForUpdate(companyID, platformID string) (*entity.ItemBalance, error)
	// Upsert escribe el balance, creándolo si no existe (idempotente).
	Upsert(balance *entity.ItemBalance) error
	ListByCompany(companyID string) ([]*entity.ItemBalance, error)
}
