package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jdrueda/slotstock-api/internal/domain/entity"
	"github.com/jdrueda/slotstock-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL.
// La fila (company_id, platform_id) es el punto de serialización de todas
// las mutaciones de inventario sobre esa línea de costo.
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de balances. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get obtiene el balance vigente, o balance cero si la fila no existe aún.
func (r *BalanceRepo) Get(companyID, platformID string) (*entity.ItemBalance, error) {
	return r.get(companyID, platformID, false)
}

// GetForUpdate obtiene el balance y bloquea la fila para update (SELECT FOR UPDATE).
func (r *BalanceRepo) GetForUpdate(companyID, platformID string) (*entity.ItemBalance, error) {
	return r.get(companyID, platformID, true)
}

func (r *BalanceRepo) get(companyID, platformID string, forUpdate bool) (*entity.ItemBalance, error) {
	query := `
		SELECT company_id, platform_id, qty_on_hand, avg_cost, updated_at
		FROM item_balances WHERE company_id = $1 AND platform_id = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var b entity.ItemBalance
	err := r.q.QueryRow(context.Background(), query, companyID, platformID).Scan(
		&b.CompanyID, &b.PlatformID, &b.QtyOnHand, &b.AvgCost, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.ItemBalance{CompanyID: companyID, PlatformID: platformID, AvgCost: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

// Upsert escribe el balance, creándolo si no existe.
func (r *BalanceRepo) Upsert(b *entity.ItemBalance) error {
	query := `
		INSERT INTO item_balances (company_id, platform_id, qty_on_hand, avg_cost, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (company_id, platform_id)
		DO UPDATE SET qty_on_hand = EXCLUDED.qty_on_hand, avg_cost = EXCLUDED.avg_cost, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query, b.CompanyID, b.PlatformID, b.QtyOnHand, b.AvgCost, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// ListByCompany devuelve todos los balances de la empresa.
func (r *BalanceRepo) ListByCompany(companyID string) ([]*entity.ItemBalance, error) {
	query := `
		SELECT company_id, platform_id, qty_on_hand, avg_cost, updated_at
		FROM item_balances WHERE company_id = $1
		ORDER BY platform_id`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.ItemBalance
	for rows.Next() {
		var b entity.ItemBalance
		if err := rows.Scan(&b.CompanyID, &b.PlatformID, &b.QtyOnHand, &b.AvgCost, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
