package repository

import "github.com/jdrueda/slotstock-api/internal/domain/entity"

// ProfileRepository define el puerto de persistencia para perfiles (slots).
type ProfileRepository interface {
	CreateBatch(profiles []*entity.Profile) error
	GetByID(id string) (*entity.Profile, error)
	ListByAccount(accountID string) ([]*entity.Profile, error)
	CountByStatus(accountID, status string) (int, error)
	// FirstAvailableForUpdate toma el perfil AVAILABLE de menor número de la
	// cuenta bloqueando la fila (FOR UPDATE SKIP LOCKED en Postgres), de modo
	// que dos ventas concurrentes nunca tomen el mismo perfil.
	FirstAvailableForUpdate(accountID string) (*entity.Profile, error)
	// ListAvailableDescForUpdate devuelve hasta limit perfiles AVAILABLE de la
	// cuenta (limit <= 0 devuelve todos), del número más alto al más bajo,
	// bloqueando las filas. Es el orden determinista con el que se dan de baja
	// perfiles al reducir capacidad o inactivar la cuenta.
	ListAvailableDescForUpdate(accountID string, limit int) ([]*entity.Profile, error)
	UpdateStatus(id, status string) error
}
