package kardex_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdrueda/slotstock-api/internal/domain"
	"github.com/jdrueda/slotstock-api/internal/domain/entity"
	"github.com/jdrueda/slotstock-api/internal/domain/kardex"
)

func mov(movType string, qty int64, totalCost string) *entity.KardexMovement {
	return &entity.KardexMovement{
		Type:      movType,
		Qty:       qty,
		TotalCost: dec(totalCost),
	}
}

func TestRecompute_HistorialVacio(t *testing.T) {
	b, err := kardex.Recompute(nil)
	require.NoError(t, err)

	assert.EqualValues(t, 0, b.Qty)
	assert.True(t, b.AvgCost.IsZero())
}

func TestRecompute_SumaEntradasYRestaSalidas(t *testing.T) {
	history := []*entity.KardexMovement{
		mov(entity.MovementIN, 5, "50000"),
		mov(entity.MovementOUT, 1, "10000"),
		mov(entity.MovementIN, 5, "100000"),
	}

	b, err := kardex.Recompute(history)
	require.NoError(t, err)

	assert.EqualValues(t, 9, b.Qty)
	expected := dec("140000").Div(decimal.NewFromInt(9))
	assert.True(t, b.AvgCost.Equal(expected), "promedio esperado %s, fue %s", expected, b.AvgCost)
}

func TestRecompute_AjustesFirmados(t *testing.T) {
	history := []*entity.KardexMovement{
		mov(entity.MovementIN, 5, "50000"),
		// corrección de solo costo
		mov(entity.MovementADJUST, 0, "5000"),
		// reducción de capacidad al promedio vigente (11.000)
		mov(entity.MovementADJUST, -2, "-22000"),
	}

	b, err := kardex.Recompute(history)
	require.NoError(t, err)

	assert.EqualValues(t, 3, b.Qty)
	assert.True(t, b.AvgCost.Equal(dec("11000")), "promedio esperado 11000, fue %s", b.AvgCost)
}

func TestRecompute_HistorialInconsistenteFalla(t *testing.T) {
	history := []*entity.KardexMovement{
		mov(entity.MovementIN, 1, "10000"),
		mov(entity.MovementOUT, 2, "20000"),
	}

	_, err := kardex.Recompute(history)
	assert.ErrorIs(t, err, domain.ErrNegativeInventory)
}

func TestRecompute_TipoDesconocidoFalla(t *testing.T) {
	history := []*entity.KardexMovement{mov("TRANSFER", 1, "10")}

	_, err := kardex.Recompute(history)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestRecompute_EquivaleAlCaminoIncremental verifica que reproducir el
// historial produce exactamente el mismo balance que aplicar los movimientos
// uno a uno con ApplyIn/ApplyOut/ApplyAdjust.
func TestRecompute_EquivaleAlCaminoIncremental(t *testing.T) {
	incremental := kardex.Balance{}
	var history []*entity.KardexMovement

	appendIn := func(qty int64, unitCost string) {
		var err error
		incremental, err = kardex.ApplyIn(incremental, qty, dec(unitCost))
		require.NoError(t, err)
		history = append(history, mov(entity.MovementIN, qty, dec(unitCost).Mul(decimal.NewFromInt(qty)).String()))
	}
	appendOut := func(qty int64) {
		var err error
		var cost decimal.Decimal
		incremental, cost, err = kardex.ApplyOut(incremental, qty)
		require.NoError(t, err)
		history = append(history, mov(entity.MovementOUT, qty, cost.Mul(decimal.NewFromInt(qty)).String()))
	}
	appendAdjust := func(deltaQty int64, deltaTotal string) {
		var err error
		incremental, _, err = kardex.ApplyAdjust(incremental, deltaQty, dec(deltaTotal))
		require.NoError(t, err)
		history = append(history, mov(entity.MovementADJUST, deltaQty, deltaTotal))
	}

	appendIn(5, "10000")
	appendOut(1)
	appendIn(4, "20000")
	appendAdjust(0, "8000")
	appendOut(3)
	appendAdjust(-1, incremental.AvgCost.Neg().String())

	replayed, err := kardex.Recompute(history)
	require.NoError(t, err)

	assert.Equal(t, incremental.Qty, replayed.Qty)
	assert.True(t, incremental.AvgCost.Equal(replayed.AvgCost),
		"incremental %s vs replay %s", incremental.AvgCost, replayed.AvgCost)
}
