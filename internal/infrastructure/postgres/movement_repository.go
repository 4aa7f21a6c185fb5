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

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL.
// La tabla kardex_movements es insert-only; LinkSale es la única mutación.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `
	id, company_id, platform_id, type, ref_type, qty, unit_cost, total_cost,
	stock_after, avg_cost_after, account_id, sale_id, created_at, created_by`

// Create inserta un movimiento del kardex.
func (r *MovementRepo) Create(m *entity.KardexMovement) error {
	query := `
		INSERT INTO kardex_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.CompanyID, m.PlatformID, m.Type, m.RefType, m.Qty, m.UnitCost, m.TotalCost,
		m.StockAfter, m.AvgCostAfter, m.AccountID, m.SaleID, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID (nil si no existe).
func (r *MovementRepo) GetByID(id string) (*entity.KardexMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM kardex_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// LinkSale completa la referencia a la venta en un movimiento ya creado.
// Solo escribe sale_id; el resto de la fila es inmutable.
func (r *MovementRepo) LinkSale(movementID, saleID string) error {
	query := `UPDATE kardex_movements SET sale_id = $2 WHERE id = $1 AND sale_id IS NULL`
	tag, err := r.q.Exec(context.Background(), query, movementID, saleID)
	if err != nil {
		return fmt.Errorf("link sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("link sale: movimiento %s no existe o ya tiene venta", movementID)
	}
	return nil
}

// ListByItem devuelve los movimientos de (company, platform) en orden cronológico
// ascendente, con el ID como desempate estable.
func (r *MovementRepo) ListByItem(companyID, platformID string) ([]*entity.KardexMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM kardex_movements
		WHERE company_id = $1 AND platform_id = $2
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, companyID, platformID)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// ListByItemPaged devuelve movimientos con filtro opcional de fechas y paginación,
// del más reciente al más antiguo.
func (r *MovementRepo) ListByItemPaged(companyID, platformID string, from, to *time.Time, limit, offset int) ([]*entity.KardexMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM kardex_movements
		WHERE company_id = $1 AND platform_id = $2
		  AND ($3::timestamptz IS NULL OR created_at >= $3)
		  AND ($4::timestamptz IS NULL OR created_at <= $4)
		ORDER BY created_at DESC, id DESC
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(context.Background(), query, companyID, platformID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements paged: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

func scanMovement(row pgx.Row) (*entity.KardexMovement, error) {
	var m entity.KardexMovement
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.PlatformID, &m.Type, &m.RefType, &m.Qty, &m.UnitCost, &m.TotalCost,
		&m.StockAfter, &m.AvgCostAfter, &m.AccountID, &m.SaleID, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMovements(rows pgx.Rows) ([]*entity.KardexMovement, error) {
	var list []*entity.KardexMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
