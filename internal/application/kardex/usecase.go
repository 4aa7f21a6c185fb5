package kardex

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jdrueda/slotstock-api/internal/application/dto"
	"github.com/jdrueda/slotstock-api/internal/domain"
	"github.com/jdrueda/slotstock-api/internal/domain/entity"
	dkardex "github.com/jdrueda/slotstock-api/internal/domain/kardex"
	"github.com/jdrueda/slotstock-api/internal/domain/repository"
)

// LedgerUseCase registra movimientos del kardex de forma transaccional
// (IN, OUT, ADJUST) con bloqueo de la fila de balance (SELECT FOR UPDATE)
// y Commit/Rollback. Cada operación pública es una transacción completa;
// las variantes *Tx componen dentro de una transacción del caller
// (compra de cuenta, venta de perfil, redimensionamiento).
type LedgerUseCase struct {
	txRunner    TxRunner
	movements   repository.MovementRepository
	balances    repository.BalanceRepository
	platformRepo repository.PlatformRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	movements repository.MovementRepository,
	balances repository.BalanceRepository,
	platformRepo repository.PlatformRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:     txRunner,
		movements:    movements,
		balances:     balances,
		platformRepo: platformRepo,
	}
}

// RegisterInTx aplica una entrada usando los repositorios del caller (misma tx):
// bloquea la fila de balance, calcula el nuevo promedio ponderado, guarda el
// movimiento con el snapshot resultante y persiste el balance.
func (uc *LedgerUseCase) RegisterInTx(
	tx Repos,
	companyID, platformID string,
	qty int64,
	unitCost decimal.Decimal,
	refType string,
	accountID *string,
	userID string,
	now time.Time,
) (*entity.KardexMovement, error) {
	balance, err := tx.Balances.GetForUpdate(companyID, platformID)
	if err != nil {
		return nil, err
	}
	next, err := dkardex.ApplyIn(dkardex.Balance{Qty: balance.QtyOnHand, AvgCost: balance.AvgCost}, qty, unitCost)
	if err != nil {
		return nil, err
	}
	mov := &entity.KardexMovement{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		PlatformID:   platformID,
		Type:         entity.MovementIN,
		RefType:      refType,
		Qty:          qty,
		UnitCost:     unitCost,
		TotalCost:    unitCost.Mul(decimal.NewFromInt(qty)),
		StockAfter:   next.Qty,
		AvgCostAfter: next.AvgCost,
		AccountID:    accountID,
		CreatedAt:    now,
		CreatedBy:    userID,
	}
	if err := tx.Movements.Create(mov); err != nil {
		return nil, err
	}
	if err := uc.upsertBalance(tx, balance, next, now); err != nil {
		return nil, err
	}
	return mov, nil
}

// RegisterOutTx aplica una salida al costo promedio vigente (misma tx del caller).
// Devuelve el movimiento y el costo unitario usado, para que el caller lo
// persista como costo de venta. Falla con ErrInsufficientStock si no hay cantidad.
func (uc *LedgerUseCase) RegisterOutTx(
	tx Repos,
	companyID, platformID string,
	qty int64,
	refType string,
	accountID *string,
	userID string,
	now time.Time,
) (*entity.KardexMovement, decimal.Decimal, error) {
	balance, err := tx.Balances.GetForUpdate(companyID, platformID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	next, unitCost, err := dkardex.ApplyOut(dkardex.Balance{Qty: balance.QtyOnHand, AvgCost: balance.AvgCost}, qty)
	if err != nil {
		return nil, decimal.Zero, err
	}
	mov := &entity.KardexMovement{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		PlatformID:   platformID,
		Type:         entity.MovementOUT,
		RefType:      refType,
		Qty:          qty,
		UnitCost:     unitCost,
		TotalCost:    unitCost.Mul(decimal.NewFromInt(qty)),
		StockAfter:   next.Qty,
		AvgCostAfter: next.AvgCost,
		AccountID:    accountID,
		CreatedAt:    now,
		CreatedBy:    userID,
	}
	if err := tx.Movements.Create(mov); err != nil {
		return nil, decimal.Zero, err
	}
	if err := uc.upsertBalance(tx, balance, next, now); err != nil {
		return nil, decimal.Zero, err
	}
	return mov, unitCost, nil
}

// RegisterAdjustTx aplica un ajuste firmado de cantidad y/o valor (misma tx del
// caller). deltaQty 0 con deltaTotalCost != 0 es una corrección de solo costo.
// Falla con ErrNegativeInventory si la cantidad quedaría por debajo de 0.
func (uc *LedgerUseCase) RegisterAdjustTx(
	tx Repos,
	companyID, platformID string,
	deltaQty int64,
	deltaTotalCost decimal.Decimal,
	refType string,
	accountID *string,
	userID string,
	now time.Time,
) (*entity.KardexMovement, error) {
	if deltaQty == 0 && deltaTotalCost.IsZero() {
		return nil, domain.ErrInvalidInput // no hay nada que ajustar
	}
	balance, err := tx.Balances.GetForUpdate(companyID, platformID)
	if err != nil {
		return nil, err
	}
	next, unitCost, err := dkardex.ApplyAdjust(dkardex.Balance{Qty: balance.QtyOnHand, AvgCost: balance.AvgCost}, deltaQty, deltaTotalCost)
	if err != nil {
		return nil, err
	}
	mov := &entity.KardexMovement{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		PlatformID:   platformID,
		Type:         entity.MovementADJUST,
		RefType:      refType,
		Qty:          deltaQty,
		UnitCost:     unitCost,
		TotalCost:    deltaTotalCost,
		StockAfter:   next.Qty,
		AvgCostAfter: next.AvgCost,
		AccountID:    accountID,
		CreatedAt:    now,
		CreatedBy:    userID,
	}
	if err := tx.Movements.Create(mov); err != nil {
		return nil, err
	}
	if err := uc.upsertBalance(tx, balance, next, now); err != nil {
		return nil, err
	}
	return mov, nil
}

func (uc *LedgerUseCase) upsertBalance(tx Repos, current *entity.ItemBalance, next dkardex.Balance, now time.Time) error {
	current.QtyOnHand = next.Qty
	current.AvgCost = next.AvgCost
	current.UpdatedAt = now
	return tx.Balances.Upsert(current)
}

// RegisterIn registra una entrada en su propia transacción.
func (uc *LedgerUseCase) RegisterIn(ctx context.Context, companyID, platformID string, qty int64, unitCost decimal.Decimal, refType, userID string) error {
	if refType == "" {
		refType = entity.RefManual
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(tx Repos) error {
		_, err := uc.RegisterInTx(tx, companyID, platformID, qty, unitCost, refType, nil, userID, now)
		return err
	})
}

// RegisterOut registra una salida en su propia transacción y devuelve el
// costo unitario usado (promedio vigente al momento de la salida).
func (uc *LedgerUseCase) RegisterOut(ctx context.Context, companyID, platformID string, qty int64, refType, userID string) (decimal.Decimal, error) {
	if refType == "" {
		refType = entity.RefManual
	}
	now := time.Now()
	var unitCost decimal.Decimal
	err := uc.txRunner.Run(ctx, func(tx Repos) error {
		_, uc2, err := uc.RegisterOutTx(tx, companyID, platformID, qty, refType, nil, userID, now)
		unitCost = uc2
		return err
	})
	return unitCost, err
}

// RegisterAdjust registra un ajuste en su propia transacción.
func (uc *LedgerUseCase) RegisterAdjust(ctx context.Context, companyID, platformID string, deltaQty int64, deltaTotalCost decimal.Decimal, refType, userID string) error {
	if refType == "" {
		refType = entity.RefManual
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(tx Repos) error {
		_, err := uc.RegisterAdjustTx(tx, companyID, platformID, deltaQty, deltaTotalCost, refType, nil, userID, now)
		return err
	})
}

// RegisterMovement adapta el request HTTP a la operación tipada que corresponda.
// Usar desde handlers que tengan companyID, userID y dto.RegisterMovementRequest.
func (uc *LedgerUseCase) RegisterMovement(ctx context.Context, companyID, userID string, in dto.RegisterMovementRequest) error {
	if in.PlatformID == "" {
		return domain.ErrInvalidInput
	}
	platform, err := uc.platformRepo.GetByID(in.PlatformID)
	if err != nil || platform == nil {
		return domain.ErrNotFound
	}
	if platform.CompanyID != companyID {
		return domain.ErrForbidden
	}
	switch in.Type {
	case entity.MovementIN:
		if in.Qty <= 0 || in.UnitCost == nil || in.UnitCost.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		return uc.RegisterIn(ctx, companyID, in.PlatformID, in.Qty, *in.UnitCost, entity.RefManual, userID)
	case entity.MovementOUT:
		if in.Qty <= 0 {
			return domain.ErrInvalidInput
		}
		_, err := uc.RegisterOut(ctx, companyID, in.PlatformID, in.Qty, entity.RefManual, userID)
		return err
	case entity.MovementADJUST:
		delta := decimal.Zero
		if in.DeltaTotalCost != nil {
			delta = *in.DeltaTotalCost
		}
		return uc.RegisterAdjust(ctx, companyID, in.PlatformID, in.Qty, delta, entity.RefManual, userID)
	default:
		return domain.ErrInvalidInput
	}
}

// GetBalance devuelve el balance vigente de (company, platform); balance cero
// si no hay movimientos aún. Lectura eventual: no autoriza mutaciones, esas
// releen la fila con FOR UPDATE dentro de su transacción.
func (uc *LedgerUseCase) GetBalance(ctx context.Context, companyID, platformID string) (*dto.BalanceResponse, error) {
	balance, err := uc.balances.Get(companyID, platformID)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{
		PlatformID: platformID,
		QtyOnHand:  balance.QtyOnHand,
		AvgCost:    balance.AvgCost.StringFixed(2),
		UpdatedAt:  balance.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// ListMovements lista los movimientos de una plataforma con paginación.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, companyID, platformID string, from, to *time.Time, limit, offset int) (*dto.MovementListResponse, error) {
	list, err := uc.movements.ListByItemPaged(companyID, platformID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toMovementResponse(m *entity.KardexMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:           m.ID,
		PlatformID:   m.PlatformID,
		Type:         m.Type,
		RefType:      m.RefType,
		Qty:          m.Qty,
		UnitCost:     m.UnitCost.StringFixed(2),
		TotalCost:    m.TotalCost.StringFixed(2),
		StockAfter:   m.StockAfter,
		AvgCostAfter: m.AvgCostAfter.StringFixed(2),
		AccountID:    m.AccountID,
		SaleID:       m.SaleID,
		CreatedAt:    m.CreatedAt.Format(time.RFC3339),
	}
}
