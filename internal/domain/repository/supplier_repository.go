package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jdrueda/slotstock-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	GetByCompanyAndName(companyID, name string) (*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	// IncrementSpend suma delta (puede ser negativo) al gasto histórico del
	// proveedor; se llama dentro de la misma tx que la compra o corrección.
	IncrementSpend(id string, delta decimal.Decimal) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Supplier, error)
}
