package kardex_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdrueda/slotstock-api/internal/application/dto"
	appkardex "github.com/jdrueda/slotstock-api/internal/application/kardex"
	"github.com/jdrueda/slotstock-api/internal/domain"
	"github.com/jdrueda/slotstock-api/internal/domain/entity"
	"github.com/jdrueda/slotstock-api/internal/infrastructure/memory"
)

const (
	testCompanyID = "comp-1"
	testPlatform  = "plat-1"
	testUserID    = "user-1"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

// newLedger construye el caso de uso sobre un store en memoria con una
// plataforma de la empresa de prueba ya registrada.
func newLedger(t *testing.T) (*appkardex.LedgerUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.Platforms[testPlatform] = &entity.Platform{
		ID: testPlatform, CompanyID: testCompanyID, Name: "Netflix", Status: "active",
	}
	store.Platforms["plat-ajena"] = &entity.Platform{
		ID: "plat-ajena", CompanyID: "otra-empresa", Name: "Disney", Status: "active",
	}
	repos := store.Repos()
	ledger := appkardex.NewLedgerUseCase(
		&memory.TxRunner{Store: store},
		repos.Movements,
		repos.Balances,
		&memory.PlatformRepo{S: store},
	)
	return ledger, store
}

func TestRegisterMovement_EntradaYSalidaManual(t *testing.T) {
	ledger, store := newLedger(t)
	ctx := context.Background()

	err := ledger.RegisterMovement(ctx, testCompanyID, testUserID, dto.RegisterMovementRequest{
		PlatformID: testPlatform,
		Type:       entity.MovementIN,
		Qty:        5,
		UnitCost:   ptr(dec("10000")),
	})
	require.NoError(t, err)

	err = ledger.RegisterMovement(ctx, testCompanyID, testUserID, dto.RegisterMovementRequest{
		PlatformID: testPlatform,
		Type:       entity.MovementOUT,
		Qty:        2,
	})
	require.NoError(t, err)

	balance, err := ledger.GetBalance(ctx, testCompanyID, testPlatform)
	require.NoError(t, err)
	assert.EqualValues(t, 3, balance.QtyOnHand)
	assert.Equal(t, "10000.00", balance.AvgCost)

	require.Len(t, store.Movements, 2)
	assert.Equal(t, entity.RefManual, store.Movements[0].RefType)
	assert.Equal(t, entity.MovementIN, store.Movements[0].Type)
	assert.EqualValues(t, 5, store.Movements[0].StockAfter)
	assert.Equal(t, entity.MovementOUT, store.Movements[1].Type)
	assert.EqualValues(t, 3, store.Movements[1].StockAfter)
}

func TestRegisterMovement_AjusteDeSoloCosto(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.RegisterIn(ctx, testCompanyID, testPlatform, 5, dec("10000"), "", testUserID))

	err := ledger.RegisterMovement(ctx, testCompanyID, testUserID, dto.RegisterMovementRequest{
		PlatformID:     testPlatform,
		Type:           entity.MovementADJUST,
		Qty:            0,
		DeltaTotalCost: ptr(dec("5000")),
	})
	require.NoError(t, err)

	balance, err := ledger.GetBalance(ctx, testCompanyID, testPlatform)
	require.NoError(t, err)
	assert.EqualValues(t, 5, balance.QtyOnHand)
	assert.Equal(t, "11000.00", balance.AvgCost)
}

func TestRegisterMovement_ValidacionDePlataforma(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()
	in := dto.RegisterMovementRequest{Type: entity.MovementIN, Qty: 1, UnitCost: ptr(dec("10"))}

	in.PlatformID = "no-existe"
	assert.ErrorIs(t, ledger.RegisterMovement(ctx, testCompanyID, testUserID, in), domain.ErrNotFound)

	in.PlatformID = "plat-ajena"
	assert.ErrorIs(t, ledger.RegisterMovement(ctx, testCompanyID, testUserID, in), domain.ErrForbidden)
}

func TestRegisterMovement_TipoDesconocido(t *testing.T) {
	ledger, _ := newLedger(t)

	err := ledger.RegisterMovement(context.Background(), testCompanyID, testUserID, dto.RegisterMovementRequest{
		PlatformID: testPlatform,
		Type:       "TRANSFER",
		Qty:        1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterOut_StockInsuficiente(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.RegisterIn(ctx, testCompanyID, testPlatform, 1, dec("10000"), "", testUserID))

	_, err := ledger.RegisterOut(ctx, testCompanyID, testPlatform, 2, "", testUserID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestRegisterAdjust_InventarioNegativo(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.RegisterIn(ctx, testCompanyID, testPlatform, 2, dec("10000"), "", testUserID))

	err := ledger.RegisterAdjust(ctx, testCompanyID, testPlatform, -3, dec("-30000"), "", testUserID)
	assert.ErrorIs(t, err, domain.ErrNegativeInventory)
}

func TestRegisterAdjust_SinCambios(t *testing.T) {
	ledger, _ := newLedger(t)

	err := ledger.RegisterAdjust(context.Background(), testCompanyID, testPlatform, 0, decimal.Zero, "", testUserID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetBalance_SinMovimientos(t *testing.T) {
	ledger, _ := newLedger(t)

	balance, err := ledger.GetBalance(context.Background(), testCompanyID, testPlatform)
	require.NoError(t, err)
	assert.EqualValues(t, 0, balance.QtyOnHand)
	assert.Equal(t, "0.00", balance.AvgCost)
}

func TestRecompute_SinDeriva(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.RegisterIn(ctx, testCompanyID, testPlatform, 5, dec("10000"), "", testUserID))
	_, err := ledger.RegisterOut(ctx, testCompanyID, testPlatform, 2, "", testUserID)
	require.NoError(t, err)

	out, err := ledger.Recompute(ctx, testCompanyID, testPlatform, false)
	require.NoError(t, err)

	assert.False(t, out.Drift)
	assert.False(t, out.Repaired)
	assert.EqualValues(t, 3, out.StoredQty)
	assert.EqualValues(t, 3, out.RecomputedQty)
	assert.Equal(t, out.StoredAvg, out.RecomputedAvg)
}

func TestRecompute_DetectaYReparaDeriva(t *testing.T) {
	ledger, store := newLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.RegisterIn(ctx, testCompanyID, testPlatform, 5, dec("10000"), "", testUserID))

	// Corromper el balance incremental para simular deriva
	corrupted := store.Balances[testCompanyID+"|"+testPlatform]
	corrupted.QtyOnHand = 7
	corrupted.AvgCost = dec("9000")

	// Sin repair: reporta la deriva pero no toca el balance
	out, err := ledger.Recompute(ctx, testCompanyID, testPlatform, false)
	require.NoError(t, err)
	assert.True(t, out.Drift)
	assert.False(t, out.Repaired)
	assert.EqualValues(t, 7, out.StoredQty)
	assert.EqualValues(t, 5, out.RecomputedQty)
	assert.EqualValues(t, 7, store.Balances[testCompanyID+"|"+testPlatform].QtyOnHand)

	// Con repair: sobreescribe el balance con el resultado del replay
	out, err = ledger.Recompute(ctx, testCompanyID, testPlatform, true)
	require.NoError(t, err)
	assert.True(t, out.Drift)
	assert.True(t, out.Repaired)

	repaired := store.Balances[testCompanyID+"|"+testPlatform]
	assert.EqualValues(t, 5, repaired.QtyOnHand)
	assert.True(t, repaired.AvgCost.Equal(dec("10000")))
}

func TestTxRunner_PropagaError(t *testing.T) {
	store := memory.NewStore()
	store.Platforms[testPlatform] = &entity.Platform{ID: testPlatform, CompanyID: testCompanyID}
	repos := store.Repos()
	ledger := appkardex.NewLedgerUseCase(
		&memory.TxRunner{Store: store, FailWith: domain.ErrConcurrencyConflict},
		repos.Movements, repos.Balances, &memory.PlatformRepo{S: store},
	)

	err := ledger.RegisterIn(context.Background(), testCompanyID, testPlatform, 1, dec("10"), "", testUserID)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
}
