package repository

import "github.com/jdrueda/slotstock-api/internal/domain/entity"

// PlatformRepository define el puerto de persistencia del catálogo de plataformas.
type PlatformRepository interface {
	Create(platform *entity.Platform) error
	GetByID(id string) (*entity.Platform, error)
	GetByCompanyAndName(companyID, name string) (*entity.Platform, error)
	Update(platform *entity.Platform) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Platform, error)
}
