package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jdrueda/slotstock-api/internal/domain"
	"github.com/jdrueda/slotstock-api/internal/domain/entity"
	"github.com/jdrueda/slotstock-api/internal/domain/repository"
)

var _ repository.PlatformRepository = (*PlatformRepo)(nil)

// PlatformRepo implementación de PlatformRepository sobre PostgreSQL.
type PlatformRepo struct {
	q Querier
}

// NewPlatformRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewPlatformRepository(q Querier) *PlatformRepo {
	return &PlatformRepo{q: q}
}

const platformColumns = `id, company_id, name, max_profiles, status, created_at, updated_at`

// Create inserta una plataforma. Devuelve domain.ErrDuplicate si el nombre ya existe en la empresa.
func (r *PlatformRepo) Create(p *entity.Platform) error {
	query := `
		INSERT INTO platforms (` + platformColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.CompanyID, p.Name, p.MaxProfiles, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert platform: %w", err)
	}
	return nil
}

// GetByID obtiene una plataforma por ID (nil si no existe).
func (r *PlatformRepo) GetByID(id string) (*entity.Platform, error) {
	query := `SELECT ` + platformColumns + ` FROM platforms WHERE id = $1`
	return r.getOne(query, id)
}

// GetByCompanyAndName obtiene una plataforma por nombre dentro de la empresa (nil si no existe).
func (r *PlatformRepo) GetByCompanyAndName(companyID, name string) (*entity.Platform, error) {
	query := `SELECT ` + platformColumns + ` FROM platforms WHERE company_id = $1 AND name = $2`
	return r.getOne(query, companyID, name)
}

func (r *PlatformRepo) getOne(query string, args ...any) (*entity.Platform, error) {
	var p entity.Platform
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.MaxProfiles, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get platform: %w", err)
	}
	return &p, nil
}

// Update persiste los campos editables de la plataforma.
func (r *PlatformRepo) Update(p *entity.Platform) error {
	query := `
		UPDATE platforms SET name = $2, max_profiles = $3, status = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, p.ID, p.Name, p.MaxProfiles, p.Status, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update platform: %w", err)
	}
	return nil
}

// ListByCompany lista plataformas de la empresa con paginación.
func (r *PlatformRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Platform, error) {
	query := `
		SELECT ` + platformColumns + `
		FROM platforms WHERE company_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	defer rows.Close()
	var list []*entity.Platform
	for rows.Next() {
		var p entity.Platform
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &p.MaxProfiles, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan platform: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
