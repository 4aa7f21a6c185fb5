package accounts_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdrueda/slotstock-api/internal/application/accounts"
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

// fechas de compra/corte válidas: mañana y dentro de un mes
func purchaseDates() (string, string) {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		time.Now().AddDate(0, 1, 0).Format("2006-01-02")
}

type fixture struct {
	store  *memory.Store
	ledger *appkardex.LedgerUseCase
	uc     *accounts.AccountUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.Platforms[testPlatform] = &entity.Platform{
		ID: testPlatform, CompanyID: testCompanyID, Name: "Netflix", Status: "active",
	}
	store.Platforms["plat-ajena"] = &entity.Platform{
		ID: "plat-ajena", CompanyID: "otra-empresa", Name: "Disney", Status: "active",
	}
	repos := store.Repos()
	txRunner := &memory.TxRunner{Store: store}
	platformRepo := &memory.PlatformRepo{S: store}
	ledger := appkardex.NewLedgerUseCase(txRunner, repos.Movements, repos.Balances, platformRepo)
	uc := accounts.NewAccountUseCase(txRunner, ledger, repos.Accounts, repos.Profiles, platformRepo, repos.Suppliers)
	return &fixture{store: store, ledger: ledger, uc: uc}
}

// createAccount compra una cuenta con los perfiles y costo total indicados.
func (f *fixture) createAccount(t *testing.T, profiles int, totalCost string) *dto.AccountResponse {
	t.Helper()
	purchased, cutoff := purchaseDates()
	resp, err := f.uc.Create(context.Background(), testCompanyID, testUserID, dto.CreateAccountRequest{
		PlatformID:    testPlatform,
		EmailLogin:    "cuenta@proveedor.com",
		PasswordLogin: "secreto",
		ProfilesTotal: profiles,
		TotalCost:     dec(totalCost),
		PurchasedAt:   purchased,
		CutOffAt:      cutoff,
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) balance(t *testing.T) (int64, decimal.Decimal) {
	t.Helper()
	b := f.store.Balances[testCompanyID+"|"+testPlatform]
	if b == nil {
		return 0, decimal.Zero
	}
	return b.QtyOnHand, b.AvgCost
}

// ──────────────────────────────────────────────────────────────────────────────
// Compra
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CompraGeneraPerfilesYEntrada(t *testing.T) {
	f := newFixture(t)

	resp := f.createAccount(t, 5, "50000")

	assert.Equal(t, entity.AccountActive, resp.Status)
	assert.Equal(t, "50000.00", resp.TotalCost)
	require.Len(t, resp.Profiles, 5)
	for i, p := range resp.Profiles {
		assert.Equal(t, i+1, p.ProfileNo, "los perfiles se numeran 1..N")
		assert.Equal(t, entity.ProfileAvailable, p.Status)
	}

	qty, avg := f.balance(t)
	assert.EqualValues(t, 5, qty)
	assert.True(t, avg.Equal(dec("10000")), "promedio esperado 10000, fue %s", avg)

	require.Len(t, f.store.Movements, 1)
	mov := f.store.Movements[0]
	assert.Equal(t, entity.MovementIN, mov.Type)
	assert.Equal(t, entity.RefAccountPurchase, mov.RefType)
	assert.EqualValues(t, 5, mov.Qty)
	require.NotNil(t, mov.AccountID)
	assert.Equal(t, resp.ID, *mov.AccountID)
}

func TestCreate_FechaDeCompraPasada(t *testing.T) {
	f := newFixture(t)
	_, cutoff := purchaseDates()

	_, err := f.uc.Create(context.Background(), testCompanyID, testUserID, dto.CreateAccountRequest{
		PlatformID:    testPlatform,
		EmailLogin:    "cuenta@proveedor.com",
		ProfilesTotal: 5,
		TotalCost:     dec("50000"),
		PurchasedAt:   time.Now().AddDate(0, 0, -2).Format("2006-01-02"),
		CutOffAt:      cutoff,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPurchase)
}

func TestCreate_CorteDebeSerPosteriorALaCompra(t *testing.T) {
	f := newFixture(t)
	purchased, _ := purchaseDates()

	_, err := f.uc.Create(context.Background(), testCompanyID, testUserID, dto.CreateAccountRequest{
		PlatformID:    testPlatform,
		EmailLogin:    "cuenta@proveedor.com",
		ProfilesTotal: 5,
		TotalCost:     dec("50000"),
		PurchasedAt:   purchased,
		CutOffAt:      purchased, // mismo día: inválido
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPurchase)
}

func TestCreate_PlataformaDeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	purchased, cutoff := purchaseDates()

	_, err := f.uc.Create(context.Background(), testCompanyID, testUserID, dto.CreateAccountRequest{
		PlatformID:    "plat-ajena",
		EmailLogin:    "cuenta@proveedor.com",
		ProfilesTotal: 5,
		TotalCost:     dec("50000"),
		PurchasedAt:   purchased,
		CutOffAt:      cutoff,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_ProveedorInlineAcumulaGasto(t *testing.T) {
	f := newFixture(t)
	purchased, cutoff := purchaseDates()

	resp, err := f.uc.Create(context.Background(), testCompanyID, testUserID, dto.CreateAccountRequest{
		PlatformID:    testPlatform,
		Supplier:      &dto.InlineSupplierRequest{Name: "Mayorista Cuentas", Contact: "wa +57 300"},
		EmailLogin:    "cuenta@proveedor.com",
		ProfilesTotal: 4,
		TotalCost:     dec("40000"),
		PurchasedAt:   purchased,
		CutOffAt:      cutoff,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.SupplierID)

	supplier := f.store.Suppliers[*resp.SupplierID]
	require.NotNil(t, supplier)
	assert.Equal(t, "Mayorista Cuentas", supplier.Name)
	assert.True(t, supplier.HistoricalSpend.Equal(dec("40000")),
		"el gasto histórico debe acumular el costo de la compra")

	// Segunda compra con el mismo nombre: reutiliza el proveedor
	resp2, err := f.uc.Create(context.Background(), testCompanyID, testUserID, dto.CreateAccountRequest{
		PlatformID:    testPlatform,
		Supplier:      &dto.InlineSupplierRequest{Name: "Mayorista Cuentas"},
		EmailLogin:    "cuenta2@proveedor.com",
		ProfilesTotal: 2,
		TotalCost:     dec("20000"),
		PurchasedAt:   purchased,
		CutOffAt:      cutoff,
	})
	require.NoError(t, err)
	assert.Equal(t, *resp.SupplierID, *resp2.SupplierID)
	assert.True(t, f.store.Suppliers[*resp.SupplierID].HistoricalSpend.Equal(dec("60000")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Redimensionamiento de capacidad
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_AumentaPerfiles(t *testing.T) {
	f := newFixture(t)
	account := f.createAccount(t, 4, "40000")

	newTotal := 8
	resp, err := f.uc.Update(context.Background(), testCompanyID, testUserID, account.ID, dto.UpdateAccountRequest{
		ProfilesTotal: &newTotal,
	})
	require.NoError(t, err)

	assert.Equal(t, 8, resp.ProfilesTotal)
	require.Len(t, resp.Profiles, 8)
	assert.Equal(t, 8, resp.Profiles[7].ProfileNo, "los perfiles nuevos continúan la numeración")

	// IN de 4 a costo unitario 40000/8 = 5000 → 8 uds, valor 60000, promedio 7500
	qty, avg := f.balance(t)
	assert.EqualValues(t, 8, qty)
	assert.True(t, avg.Equal(dec("7500")), "promedio esperado 7500, fue %s", avg)

	last := f.store.Movements[len(f.store.Movements)-1]
	assert.Equal(t, entity.MovementIN, last.Type)
	assert.Equal(t, entity.RefProfileAdjust, last.RefType)
	assert.EqualValues(t, 4, last.Qty)
}

func TestUpdate_ReducePerfiles_BloqueaLosDeNumeroMasAlto(t *testing.T) {
	f := newFixture(t)
	account := f.createAccount(t, 5, "50000")

	newTotal := 3
	resp, err := f.uc.Update(context.Background(), testCompanyID, testUserID, account.ID, dto.UpdateAccountRequest{
		ProfilesTotal: &newTotal,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.ProfilesTotal)

	byNo := map[int]string{}
	for _, p := range resp.Profiles {
		byNo[p.ProfileNo] = p.Status
	}
	assert.Equal(t, entity.ProfileAvailable, byNo[1])
	assert.Equal(t, entity.ProfileAvailable, byNo[2])
	assert.Equal(t, entity.ProfileAvailable, byNo[3])
	assert.Equal(t, entity.ProfileBlocked, byNo[4], "la baja bloquea primero los números más altos")
	assert.Equal(t, entity.ProfileBlocked, byNo[5])

	// ADJUST -2 al promedio vigente: el promedio no cambia
	qty, avg := f.balance(t)
	assert.EqualValues(t, 3, qty)
	assert.True(t, avg.Equal(dec("10000")))

	last := f.store.Movements[len(f.store.Movements)-1]
	assert.Equal(t, entity.MovementADJUST, last.Type)
	assert.EqualValues(t, -2, last.Qty)
	assert.True(t, last.TotalCost.Equal(dec("-20000")))
}

func TestUpdate_NoReduceBajoLosVendidos(t *testing.T) {
	f := newFixture(t)
	account := f.createAccount(t, 3, "30000")

	// Marcar dos perfiles como vendidos directamente en el store
	sold := 0
	for _, p := range f.store.Profiles {
		if p.AccountID == account.ID && sold < 2 {
			p.Status = entity.ProfileSold
			sold++
		}
	}

	newTotal := 1
	_, err := f.uc.Update(context.Background(), testCompanyID, testUserID, account.ID, dto.UpdateAccountRequest{
		ProfilesTotal: &newTotal,
	})
	assert.ErrorIs(t, err, domain.ErrCapacityBelowSold)
}

// ──────────────────────────────────────────────────────────────────────────────
// Corrección de costo
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_CorreccionDeCostoMueveElPromedio(t *testing.T) {
	f := newFixture(t)
	purchased, cutoff := purchaseDates()
	resp, err := f.uc.Create(context.Background(), testCompanyID, testUserID, dto.CreateAccountRequest{
		PlatformID:    testPlatform,
		Supplier:      &dto.InlineSupplierRequest{Name: "Mayorista"},
		EmailLogin:    "cuenta@proveedor.com",
		ProfilesTotal: 5,
		TotalCost:     dec("50000"),
		PurchasedAt:   purchased,
		CutOffAt:      cutoff,
	})
	require.NoError(t, err)

	newCost := dec("55000")
	updated, err := f.uc.Update(context.Background(), testCompanyID, testUserID, resp.ID, dto.UpdateAccountRequest{
		TotalCost: &newCost,
	})
	require.NoError(t, err)
	assert.Equal(t, "55000.00", updated.TotalCost)

	// ADJUST qty=0 con delta +5000 → promedio 11000, stock intacto
	qty, avg := f.balance(t)
	assert.EqualValues(t, 5, qty)
	assert.True(t, avg.Equal(dec("11000")), "promedio esperado 11000, fue %s", avg)

	last := f.store.Movements[len(f.store.Movements)-1]
	assert.Equal(t, entity.MovementADJUST, last.Type)
	assert.Equal(t, entity.RefCostAdjust, last.RefType)
	assert.EqualValues(t, 0, last.Qty)

	// El gasto del proveedor acompaña la corrección
	assert.True(t, f.store.Suppliers[*resp.SupplierID].HistoricalSpend.Equal(dec("55000")))
}

func TestUpdate_CorreccionDeCostoNoDejaPromedioNegativo(t *testing.T) {
	f := newFixture(t)
	account := f.createAccount(t, 2, "20000")

	// Tras vender un perfil el inventario retiene 1 ud a 10.000. Bajar el
	// costo de la cuenta a 0 retiraría 20.000, más de lo retenido.
	_, err := f.ledger.RegisterOut(context.Background(), testCompanyID, testPlatform, 1, entity.RefManual, testUserID)
	require.NoError(t, err)

	newCost := dec("0")
	_, err = f.uc.Update(context.Background(), testCompanyID, testUserID, account.ID, dto.UpdateAccountRequest{
		TotalCost: &newCost,
	})
	assert.ErrorIs(t, err, domain.ErrNegativeInventory)

	qty, avg := f.balance(t)
	assert.EqualValues(t, 1, qty)
	assert.True(t, avg.Equal(dec("10000")), "el balance no debe alterarse si la corrección se rechaza")

	got, err := f.uc.GetByID(context.Background(), testCompanyID, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "20000.00", got.TotalCost, "el costo de la cuenta no debe alterarse")
}

func TestUpdate_CuentaInactiva(t *testing.T) {
	f := newFixture(t)
	account := f.createAccount(t, 2, "20000")
	require.NoError(t, f.uc.Deactivate(context.Background(), testCompanyID, testUserID, account.ID))

	notes := "intento de edición"
	_, err := f.uc.Update(context.Background(), testCompanyID, testUserID, account.ID, dto.UpdateAccountRequest{
		Notes: &notes,
	})
	assert.ErrorIs(t, err, domain.ErrAccountInactive)
}

// ──────────────────────────────────────────────────────────────────────────────
// Inactivación
// ──────────────────────────────────────────────────────────────────────────────

func TestDeactivate_BloqueaYRetiraDelInventario(t *testing.T) {
	f := newFixture(t)
	account := f.createAccount(t, 5, "50000")

	require.NoError(t, f.uc.Deactivate(context.Background(), testCompanyID, testUserID, account.ID))

	got, err := f.uc.GetByID(context.Background(), testCompanyID, account.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AccountInactive, got.Status)
	for _, p := range got.Profiles {
		assert.Equal(t, entity.ProfileBlocked, p.Status)
	}

	qty, avg := f.balance(t)
	assert.EqualValues(t, 0, qty)
	assert.True(t, avg.IsZero(), "con inventario en 0 el promedio se corta a 0")

	last := f.store.Movements[len(f.store.Movements)-1]
	assert.Equal(t, entity.MovementADJUST, last.Type)
	assert.Equal(t, entity.RefAccountInactivation, last.RefType)
	assert.EqualValues(t, -5, last.Qty)
}

func TestDeactivate_EsIdempotente(t *testing.T) {
	f := newFixture(t)
	account := f.createAccount(t, 3, "30000")

	require.NoError(t, f.uc.Deactivate(context.Background(), testCompanyID, testUserID, account.ID))
	movsAfterFirst := len(f.store.Movements)

	// Segunda inactivación: no-op, sin error ni movimientos nuevos
	require.NoError(t, f.uc.Deactivate(context.Background(), testCompanyID, testUserID, account.ID))
	assert.Equal(t, movsAfterFirst, len(f.store.Movements))
}

func TestDeactivate_CuentaDeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	account := f.createAccount(t, 2, "20000")

	err := f.uc.Deactivate(context.Background(), "otra-empresa", testUserID, account.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
