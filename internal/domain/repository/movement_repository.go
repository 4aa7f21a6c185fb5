package repository

import (
	"time"

	"github.com/jdrueda/slotstock-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del kardex.
// La tabla es insert-only: no hay Update ni Delete. LinkSale completa la
// referencia a la venta en un movimiento ya creado (única mutación permitida,
// campo no financiero).
type MovementRepository interface {
	Create(movement *entity.KardexMovement) error
	GetByID(id string) (*entity.KardexMovement, error)
	LinkSale(movementID, saleID string) error
	// ListByItem devuelve los movimientos de (company, platform) en orden
	// cronológico ascendente; es la entrada del recálculo por replay.
	ListByItem(companyID, platformID string) ([]*entity.KardexMovement, error)
	ListByItemPaged(companyID, platformID string, from, to *time.Time, limit, offset int) ([]*entity.KardexMovement, error)
}
