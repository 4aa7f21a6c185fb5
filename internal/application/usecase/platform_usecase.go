package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jdrueda/slotstock-api/internal/application/dto"
	"github.com/jdrueda/slotstock-api/internal/domain"
	"github.com/jdrueda/slotstock-api/internal/domain/entity"
	"github.com/jdrueda/slotstock-api/internal/domain/repository"
)

// PlatformUseCase maneja el catálogo de plataformas de streaming de la empresa.
type PlatformUseCase struct {
	repo repository.PlatformRepository
}

// NewPlatformUseCase construye el caso de uso.
func NewPlatformUseCase(repo repository.PlatformRepository) *PlatformUseCase {
	return &PlatformUseCase{repo: repo}
}

// Create crea una plataforma. Devuelve domain.ErrDuplicate si el nombre ya existe en la empresa.
func (uc *PlatformUseCase) Create(companyID string, in dto.CreatePlatformRequest) (*dto.PlatformResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCompanyAndName(companyID, in.Name)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	platform := &entity.Platform{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Name:        in.Name,
		MaxProfiles: in.MaxProfiles,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(platform); err != nil {
		return nil, err
	}
	return toPlatformResponse(platform), nil
}

// GetByID obtiene una plataforma validando que pertenezca a la empresa.
func (uc *PlatformUseCase) GetByID(companyID, id string) (*dto.PlatformResponse, error) {
	platform, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if platform == nil || platform.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toPlatformResponse(platform), nil
}

// Update actualiza nombre, máximo de perfiles o estado.
func (uc *PlatformUseCase) Update(companyID, id string, in dto.UpdatePlatformRequest) (*dto.PlatformResponse, error) {
	platform, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if platform == nil || platform.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil && *in.Name != platform.Name {
		existing, _ := uc.repo.GetByCompanyAndName(companyID, *in.Name)
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
		platform.Name = *in.Name
	}
	if in.MaxProfiles != nil {
		platform.MaxProfiles = *in.MaxProfiles
	}
	if in.Status != nil {
		platform.Status = *in.Status
	}
	platform.UpdatedAt = time.Now()
	if err := uc.repo.Update(platform); err != nil {
		return nil, err
	}
	return toPlatformResponse(platform), nil
}

// List lista plataformas de la empresa con paginación.
func (uc *PlatformUseCase) List(companyID string, limit, offset int) (*dto.PlatformListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PlatformResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPlatformResponse(p))
	}
	return &dto.PlatformListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toPlatformResponse(p *entity.Platform) *dto.PlatformResponse {
	if p == nil {
		return nil
	}
	return &dto.PlatformResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		Name:        p.Name,
		MaxProfiles: p.MaxProfiles,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
