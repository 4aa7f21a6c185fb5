package repository

import (
	"time"

	"github.com/jdrueda/slotstock-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas de perfiles.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	UpdateStatus(id, status string) error
	// ListByCompany lista ventas con filtro opcional de rango de fechas de
	// venta; limit <= 0 devuelve todas (reportes).
	ListByCompany(companyID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error)
}
