package kardex_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdrueda/slotstock-api/internal/domain"
	"github.com/jdrueda/slotstock-api/internal/domain/kardex"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de costeo promedio ponderado
//
// Escenario de referencia trabajado a mano:
//   - Compra de una cuenta con 5 perfiles a $50.000 total → 5 uds a promedio 10.000
//   - Venta de 1 perfil → salida a 10.000, quedan 4 uds, el promedio no cambia
//   - Compra de otra cuenta con 5 perfiles a $100.000 → promedio (4·10000+100000)/9
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestApplyIn_PrimeraCompra(t *testing.T) {
	b, err := kardex.ApplyIn(kardex.Balance{}, 5, dec("10000"))
	require.NoError(t, err)

	assert.EqualValues(t, 5, b.Qty)
	assert.True(t, b.AvgCost.Equal(dec("10000")), "promedio esperado 10000, fue %s", b.AvgCost)
	assert.True(t, b.TotalValue().Equal(dec("50000")))
}

func TestApplyIn_RecalculaPromedio(t *testing.T) {
	// 4 uds a 10.000 + 5 uds a 20.000 (total 100.000) → 9 uds a 15.555,55...
	b := kardex.Balance{Qty: 4, AvgCost: dec("10000")}

	b, err := kardex.ApplyIn(b, 5, dec("20000"))
	require.NoError(t, err)

	assert.EqualValues(t, 9, b.Qty)
	expected := dec("140000").Div(decimal.NewFromInt(9))
	assert.True(t, b.AvgCost.Equal(expected), "promedio esperado %s, fue %s", expected, b.AvgCost)
}

func TestApplyIn_Invalido(t *testing.T) {
	_, err := kardex.ApplyIn(kardex.Balance{}, 0, dec("10"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero debe rechazarse")

	_, err = kardex.ApplyIn(kardex.Balance{}, 1, dec("-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "costo unitario negativo debe rechazarse")
}

func TestApplyOut_SaleAlPromedioVigente(t *testing.T) {
	b := kardex.Balance{Qty: 5, AvgCost: dec("10000")}

	b, costUsed, err := kardex.ApplyOut(b, 1)
	require.NoError(t, err)

	assert.EqualValues(t, 4, b.Qty)
	assert.True(t, costUsed.Equal(dec("10000")), "la salida se valora al promedio vigente")
	assert.True(t, b.AvgCost.Equal(dec("10000")), "una salida no cambia el promedio")
}

func TestApplyOut_StockInsuficiente(t *testing.T) {
	b := kardex.Balance{Qty: 2, AvgCost: dec("10000")}

	_, _, err := kardex.ApplyOut(b, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestApplyOut_VaciaElInventario(t *testing.T) {
	b := kardex.Balance{Qty: 1, AvgCost: dec("10000")}

	b, _, err := kardex.ApplyOut(b, 1)
	require.NoError(t, err)

	assert.EqualValues(t, 0, b.Qty)
	assert.True(t, b.AvgCost.IsZero(), "con cantidad 0 el promedio se corta a 0")
}

func TestApplyAdjust_SoloCosto(t *testing.T) {
	// Corrección de solo costo: deltaQty 0, el valor sube 5.000 → promedio sube
	b := kardex.Balance{Qty: 5, AvgCost: dec("10000")}

	b, unitCost, err := kardex.ApplyAdjust(b, 0, dec("5000"))
	require.NoError(t, err)

	assert.EqualValues(t, 5, b.Qty)
	assert.True(t, unitCost.IsZero(), "con deltaQty 0 el costo unitario del movimiento es 0")
	assert.True(t, b.AvgCost.Equal(dec("11000")), "promedio esperado 11000, fue %s", b.AvgCost)
}

func TestApplyAdjust_BajaAlPromedio_NoCambiaPromedio(t *testing.T) {
	// Retiro de 2 uds valoradas al promedio vigente: el promedio queda igual.
	b := kardex.Balance{Qty: 5, AvgCost: dec("10000")}

	b, unitCost, err := kardex.ApplyAdjust(b, -2, dec("-20000"))
	require.NoError(t, err)

	assert.EqualValues(t, 3, b.Qty)
	assert.True(t, unitCost.Equal(dec("10000")))
	assert.True(t, b.AvgCost.Equal(dec("10000")), "un ajuste valorado al promedio no lo altera")
}

func TestApplyAdjust_InventarioNegativo(t *testing.T) {
	b := kardex.Balance{Qty: 2, AvgCost: dec("10000")}

	_, _, err := kardex.ApplyAdjust(b, -3, dec("-30000"))
	assert.ErrorIs(t, err, domain.ErrNegativeInventory)
}

func TestApplyAdjust_ValorRetenidoNegativo(t *testing.T) {
	// Corrección de solo costo que retira más valor del retenido:
	// con 1 ud a 20 el valor retenido es 20; un delta de -100 dejaría
	// el promedio en -80. Debe rechazarse igual que una cantidad negativa.
	b := kardex.Balance{Qty: 1, AvgCost: dec("20")}

	_, _, err := kardex.ApplyAdjust(b, 0, dec("-100"))
	assert.ErrorIs(t, err, domain.ErrNegativeInventory)
}

func TestApplyAdjust_VaciaElValorConCantidadEnMano(t *testing.T) {
	// Retirar exactamente el valor retenido es válido: quedan unidades
	// a promedio 0, no un promedio negativo.
	b := kardex.Balance{Qty: 2, AvgCost: dec("10000")}

	b, _, err := kardex.ApplyAdjust(b, 0, dec("-20000"))
	require.NoError(t, err)

	assert.EqualValues(t, 2, b.Qty)
	assert.True(t, b.AvgCost.IsZero())
}

func TestApplyAdjust_VaciaCortaPromedioACero(t *testing.T) {
	b := kardex.Balance{Qty: 2, AvgCost: dec("10000")}

	b, _, err := kardex.ApplyAdjust(b, -2, dec("-20000"))
	require.NoError(t, err)

	assert.EqualValues(t, 0, b.Qty)
	assert.True(t, b.AvgCost.IsZero())
}

// TestCosteo_EscenarioCompleto reproduce el escenario de referencia de punta
// a punta con el camino incremental.
func TestCosteo_EscenarioCompleto(t *testing.T) {
	b := kardex.Balance{}

	// Compra: 5 perfiles a 50.000 total
	b, err := kardex.ApplyIn(b, 5, dec("10000"))
	require.NoError(t, err)
	assert.True(t, b.AvgCost.Equal(dec("10000")))

	// Venta de un perfil
	b, costAtSale, err := kardex.ApplyOut(b, 1)
	require.NoError(t, err)
	assert.True(t, costAtSale.Equal(dec("10000")))
	assert.EqualValues(t, 4, b.Qty)

	// Segunda compra: 5 perfiles a 100.000 total
	b, err = kardex.ApplyIn(b, 5, dec("20000"))
	require.NoError(t, err)
	assert.EqualValues(t, 9, b.Qty)

	expected := dec("140000").Div(decimal.NewFromInt(9))
	assert.True(t, b.AvgCost.Equal(expected), "promedio esperado %s, fue %s", expected, b.AvgCost)
	assert.True(t, b.TotalValue().Equal(dec("140000")))
}
