package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jdrueda/slotstock-api/internal/domain/entity"
	"github.com/jdrueda/slotstock-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo implementación de ProfileRepository sobre PostgreSQL.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador de perfiles. Pasar pool o tx (Querier).
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

const profileColumns = `id, account_id, profile_no, status, created_at, updated_at`

// CreateBatch inserta los perfiles de una cuenta en un solo batch.
func (r *ProfileRepo) CreateBatch(profiles []*entity.Profile) error {
	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, p := range profiles {
		_, err := r.q.Exec(context.Background(), query,
			p.ID, p.AccountID, p.ProfileNo, p.Status, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert profile %d: %w", p.ProfileNo, err)
		}
	}
	return nil
}

// GetByID obtiene un perfil por ID (nil si no existe).
func (r *ProfileRepo) GetByID(id string) (*entity.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	var p entity.Profile
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.AccountID, &p.ProfileNo, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// ListByAccount devuelve los perfiles de la cuenta ordenados por número.
func (r *ProfileRepo) ListByAccount(accountID string) ([]*entity.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles WHERE account_id = $1
		ORDER BY profile_no ASC`
	rows, err := r.q.Query(context.Background(), query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()
	return collectProfiles(rows)
}

// CountByStatus cuenta los perfiles de la cuenta en un estado.
func (r *ProfileRepo) CountByStatus(accountID, status string) (int, error) {
	query := `SELECT count(*) FROM profiles WHERE account_id = $1 AND status = $2`
	var n int
	if err := r.q.QueryRow(context.Background(), query, accountID, status).Scan(&n); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}

// FirstAvailableForUpdate toma el perfil AVAILABLE de menor número bloqueando
// la fila. SKIP LOCKED hace que ventas concurrentes tomen perfiles distintos
// en vez de esperarse entre sí.
func (r *ProfileRepo) FirstAvailableForUpdate(accountID string) (*entity.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE account_id = $1 AND status = 'AVAILABLE'
		ORDER BY profile_no ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED`
	var p entity.Profile
	err := r.q.QueryRow(context.Background(), query, accountID).Scan(
		&p.ID, &p.AccountID, &p.ProfileNo, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("first available profile: %w", err)
	}
	return &p, nil
}

// ListAvailableDescForUpdate devuelve hasta limit perfiles AVAILABLE (limit <= 0
// devuelve todos) del número más alto al más bajo, bloqueando las filas.
func (r *ProfileRepo) ListAvailableDescForUpdate(accountID string, limit int) ([]*entity.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE account_id = $1 AND status = 'AVAILABLE'
		ORDER BY profile_no DESC`
	args := []any{accountID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}
	query += " FOR UPDATE"
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list available profiles: %w", err)
	}
	defer rows.Close()
	return collectProfiles(rows)
}

// UpdateStatus cambia el estado de un perfil.
func (r *ProfileRepo) UpdateStatus(id, status string) error {
	query := `UPDATE profiles SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update profile status: %w", err)
	}
	return nil
}

func collectProfiles(rows pgx.Rows) ([]*entity.Profile, error) {
	var list []*entity.Profile
	for rows.Next() {
		var p entity.Profile
		if err := rows.Scan(&p.ID, &p.AccountID, &p.ProfileNo, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
