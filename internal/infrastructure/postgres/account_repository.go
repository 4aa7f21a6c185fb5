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

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación de AccountRepository sobre PostgreSQL.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador de cuentas. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

const accountColumns = `
	id, company_id, platform_id, supplier_id, email_login, password_login,
	profiles_total, purchased_at, cut_off_at, total_cost, status, notes,
	created_at, updated_at, created_by`

// Create inserta una cuenta.
func (r *AccountRepo) Create(a *entity.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.CompanyID, a.PlatformID, a.SupplierID, a.EmailLogin, a.PasswordLogin,
		a.ProfilesTotal, a.PurchasedAt, a.CutOffAt, a.TotalCost, a.Status, a.Notes,
		a.CreatedAt, a.UpdatedAt, a.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID (nil si no existe).
func (r *AccountRepo) GetByID(id string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.getOne(query, id)
}

// GetForUpdate obtiene la cuenta bloqueando la fila dentro de la tx.
func (r *AccountRepo) GetForUpdate(id string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

func (r *AccountRepo) getOne(query string, args ...any) (*entity.Account, error) {
	var a entity.Account
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&a.ID, &a.CompanyID, &a.PlatformID, &a.SupplierID, &a.EmailLogin, &a.PasswordLogin,
		&a.ProfilesTotal, &a.PurchasedAt, &a.CutOffAt, &a.TotalCost, &a.Status, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt, &a.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

// Update persiste los campos editables de la cuenta.
func (r *AccountRepo) Update(a *entity.Account) error {
	query := `
		UPDATE accounts SET
			email_login = $2, password_login = $3, profiles_total = $4,
			purchased_at = $5, cut_off_at = $6, total_cost = $7, notes = $8,
			updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.EmailLogin, a.PasswordLogin, a.ProfilesTotal,
		a.PurchasedAt, a.CutOffAt, a.TotalCost, a.Notes, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

// UpdateStatus cambia el estado de la cuenta.
func (r *AccountRepo) UpdateStatus(id, status string) error {
	query := `UPDATE accounts SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update account status: %w", err)
	}
	return nil
}

// ListByCompany lista cuentas de la empresa, opcionalmente por plataforma y
// excluyendo INACTIVE salvo que se pida lo contrario.
func (r *AccountRepo) ListByCompany(companyID, platformID string, includeInactive bool, limit, offset int) ([]*entity.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1
		  AND ($2 = '' OR platform_id = $2)
		  AND ($3 OR status <> 'INACTIVE')
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, companyID, platformID, includeInactive, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Account
	for rows.Next() {
		var a entity.Account
		if err := rows.Scan(
			&a.ID, &a.CompanyID, &a.PlatformID, &a.SupplierID, &a.EmailLogin, &a.PasswordLogin,
			&a.ProfilesTotal, &a.PurchasedAt, &a.CutOffAt, &a.TotalCost, &a.Status, &a.Notes,
			&a.CreatedAt, &a.UpdatedAt, &a.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
