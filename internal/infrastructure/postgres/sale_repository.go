package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jdrueda/slotstock-api/internal/domain/entity"
	"github.com/jdrueda/slotstock-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `
	id, company_id, platform_id, account_id, profile_id, customer_id,
	sale_price, sale_date, days_assigned, cutoff_date, cost_at_sale,
	status, notes, created_at, updated_at, created_by`

// Create inserta una venta.
func (r *SaleRepo) Create(s *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.CompanyID, s.PlatformID, s.AccountID, s.ProfileID, s.CustomerID,
		s.SalePrice, s.SaleDate, s.DaysAssigned, s.CutoffDate, s.CostAtSale,
		s.Status, s.Notes, s.CreatedAt, s.UpdatedAt, s.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID (nil si no existe).
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.CompanyID, &s.PlatformID, &s.AccountID, &s.ProfileID, &s.CustomerID,
		&s.SalePrice, &s.SaleDate, &s.DaysAssigned, &s.CutoffDate, &s.CostAtSale,
		&s.Status, &s.Notes, &s.CreatedAt, &s.UpdatedAt, &s.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// UpdateStatus cambia el estado de la venta.
func (r *SaleRepo) UpdateStatus(id, status string) error {
	query := `UPDATE sales SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	return nil
}

// ListByCompany lista ventas de la empresa con filtro opcional de rango de
// fechas de venta, de la más reciente a la más antigua.
func (r *SaleRepo) ListByCompany(companyID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE company_id = $1
		  AND ($2::timestamptz IS NULL OR sale_date >= $2)
		  AND ($3::timestamptz IS NULL OR sale_date <= $3)
		ORDER BY sale_date DESC, id DESC
		LIMIT NULLIF($4, 0) OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, companyID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(
			&s.ID, &s.CompanyID, &s.PlatformID, &s.AccountID, &s.ProfileID, &s.CustomerID,
			&s.SalePrice, &s.SaleDate, &s.DaysAssigned, &s.CutoffDate, &s.CostAtSale,
			&s.Status, &s.Notes, &s.CreatedAt, &s.UpdatedAt, &s.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
