package sales_test

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
	"github.com/jdrueda/slotstock-api/internal/application/sales"
	"github.com/jdrueda/slotstock-api/internal/domain"
	"github.com/jdrueda/slotstock-api/internal/domain/entity"
	"github.com/jdrueda/slotstock-api/internal/infrastructure/memory"
)

const (
	testCompanyID  = "comp-1"
	testPlatform   = "plat-1"
	testUserID     = "user-1"
	testCustomerID = "cust-1"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// stubReceipts evita generar PDFs reales en los tests.
type stubReceipts struct {
	lastData sales.ReceiptData
}

func (s *stubReceipts) Generate(data sales.ReceiptData) ([]byte, error) {
	s.lastData = data
	return []byte("%PDF-stub"), nil
}

type fixture struct {
	store    *memory.Store
	uc       *sales.SaleUseCase
	accounts *accounts.AccountUseCase
	receipts *stubReceipts
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.Companies[testCompanyID] = &entity.Company{ID: testCompanyID, Name: "Streaming SAS"}
	store.Platforms[testPlatform] = &entity.Platform{
		ID: testPlatform, CompanyID: testCompanyID, Name: "Netflix", Status: "active",
	}
	store.Customers[testCustomerID] = &entity.Customer{
		ID: testCustomerID, CompanyID: testCompanyID, Name: "Ana Pérez",
	}
	store.Customers["cust-ajeno"] = &entity.Customer{
		ID: "cust-ajeno", CompanyID: "otra-empresa", Name: "Cliente Ajeno",
	}

	repos := store.Repos()
	txRunner := &memory.TxRunner{Store: store}
	platformRepo := &memory.PlatformRepo{S: store}
	ledger := appkardex.NewLedgerUseCase(txRunner, repos.Movements, repos.Balances, platformRepo)
	accountUC := accounts.NewAccountUseCase(txRunner, ledger, repos.Accounts, repos.Profiles, platformRepo, repos.Suppliers)
	receipts := &stubReceipts{}
	saleUC := sales.NewSaleUseCase(
		txRunner, ledger,
		repos.Sales, repos.Accounts, repos.Profiles,
		&memory.CustomerRepo{S: store}, platformRepo, &memory.CompanyRepo{S: store},
		receipts,
	)
	return &fixture{store: store, uc: saleUC, accounts: accountUC, receipts: receipts}
}

// buyAccount compra una cuenta con los perfiles y costo indicados.
func (f *fixture) buyAccount(t *testing.T, profiles int, totalCost string) string {
	t.Helper()
	resp, err := f.accounts.Create(context.Background(), testCompanyID, testUserID, dto.CreateAccountRequest{
		PlatformID:    testPlatform,
		EmailLogin:    "cuenta@proveedor.com",
		PasswordLogin: "secreto",
		ProfilesTotal: profiles,
		TotalCost:     dec(totalCost),
		PurchasedAt:   time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		CutOffAt:      time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
	})
	require.NoError(t, err)
	return resp.ID
}

func (f *fixture) sell(t *testing.T, accountID string) *dto.SaleResponse {
	t.Helper()
	resp, err := f.uc.Create(context.Background(), testCompanyID, testUserID, dto.CreateSaleRequest{
		AccountID:    accountID,
		CustomerID:   testCustomerID,
		SalePrice:    dec("25000"),
		SaleDate:     time.Now().Format("2006-01-02"),
		DaysAssigned: 30,
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
// Venta
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_VendeElPerfilDeMenorNumero(t *testing.T) {
	f := newFixture(t)
	accountID := f.buyAccount(t, 5, "50000")

	resp := f.sell(t, accountID)

	assert.Equal(t, entity.SaleActive, resp.Status)
	assert.Equal(t, "10000.00", resp.CostAtSale, "el costo de venta es el promedio vigente")
	assert.Equal(t, "15000.00", resp.Profit)

	profile := f.store.Profiles[resp.ProfileID]
	require.NotNil(t, profile)
	assert.Equal(t, 1, profile.ProfileNo, "se vende primero el perfil de menor número")
	assert.Equal(t, entity.ProfileSold, profile.Status)

	// Segunda venta: toma el siguiente disponible
	resp2 := f.sell(t, accountID)
	assert.Equal(t, 2, f.store.Profiles[resp2.ProfileID].ProfileNo)

	qty, avg := f.balance(t)
	assert.EqualValues(t, 3, qty)
	assert.True(t, avg.Equal(dec("10000")), "una salida no cambia el promedio")
}

func TestCreate_EnlazaElMovimientoConLaVenta(t *testing.T) {
	f := newFixture(t)
	accountID := f.buyAccount(t, 2, "20000")

	resp := f.sell(t, accountID)

	var out *entity.KardexMovement
	for _, m := range f.store.Movements {
		if m.Type == entity.MovementOUT {
			out = m
		}
	}
	require.NotNil(t, out)
	assert.Equal(t, entity.RefProfileSale, out.RefType)
	require.NotNil(t, out.SaleID)
	assert.Equal(t, resp.ID, *out.SaleID)
}

func TestCreate_FechaDeCorteDerivada(t *testing.T) {
	f := newFixture(t)
	accountID := f.buyAccount(t, 2, "20000")

	resp, err := f.uc.Create(context.Background(), testCompanyID, testUserID, dto.CreateSaleRequest{
		AccountID:    accountID,
		CustomerID:   testCustomerID,
		SalePrice:    dec("25000"),
		SaleDate:     "2026-09-01",
		DaysAssigned: 30,
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-09-01", resp.SaleDate)
	assert.Equal(t, "2026-10-01", resp.CutoffDate, "corte = fecha de venta + días asignados")
}

func TestCreate_SinPerfilesDisponibles(t *testing.T) {
	f := newFixture(t)
	accountID := f.buyAccount(t, 1, "10000")
	f.sell(t, accountID)

	_, err := f.uc.Create(context.Background(), testCompanyID, testUserID, dto.CreateSaleRequest{
		AccountID:    accountID,
		CustomerID:   testCustomerID,
		SalePrice:    dec("25000"),
		SaleDate:     time.Now().Format("2006-01-02"),
		DaysAssigned: 30,
	})
	assert.ErrorIs(t, err, domain.ErrNoAvailableProfile)
}

func TestCreate_CuentaInactiva(t *testing.T) {
	f := newFixture(t)
	accountID := f.buyAccount(t, 2, "20000")
	require.NoError(t, f.accounts.Deactivate(context.Background(), testCompanyID, testUserID, accountID))

	_, err := f.uc.Create(context.Background(), testCompanyID, testUserID, dto.CreateSaleRequest{
		AccountID:    accountID,
		CustomerID:   testCustomerID,
		SalePrice:    dec("25000"),
		SaleDate:     time.Now().Format("2006-01-02"),
		DaysAssigned: 30,
	})
	assert.ErrorIs(t, err, domain.ErrAccountInactive)
}

func TestCreate_ClienteDeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	accountID := f.buyAccount(t, 2, "20000")

	_, err := f.uc.Create(context.Background(), testCompanyID, testUserID, dto.CreateSaleRequest{
		AccountID:    accountID,
		CustomerID:   "cust-ajeno",
		SalePrice:    dec("25000"),
		SaleDate:     time.Now().Format("2006-01-02"),
		DaysAssigned: 30,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_ValidaEntrada(t *testing.T) {
	f := newFixture(t)
	accountID := f.buyAccount(t, 2, "20000")
	base := dto.CreateSaleRequest{
		AccountID:    accountID,
		CustomerID:   testCustomerID,
		SalePrice:    dec("25000"),
		SaleDate:     time.Now().Format("2006-01-02"),
		DaysAssigned: 30,
	}

	in := base
	in.DaysAssigned = 0
	_, err := f.uc.Create(context.Background(), testCompanyID, testUserID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = base
	in.SalePrice = dec("-1")
	_, err = f.uc.Create(context.Background(), testCompanyID, testUserID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = base
	in.SaleDate = "31/08/2026"
	_, err = f.uc.Create(context.Background(), testCompanyID, testUserID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Anulación
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_RestauraElPerfilYReingresaAlCostoCongelado(t *testing.T) {
	f := newFixture(t)
	accountID := f.buyAccount(t, 5, "50000")
	sale := f.sell(t, accountID)

	// El promedio se mueve después de la venta (corrección de costo +5000)
	newCost := dec("45000")
	_, err := f.accounts.Update(context.Background(), testCompanyID, testUserID, accountID, dto.UpdateAccountRequest{
		TotalCost: &newCost,
	})
	require.NoError(t, err)

	canceled, err := f.uc.Cancel(context.Background(), testCompanyID, testUserID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleCanceled, canceled.Status)
	assert.Equal(t, "10000.00", canceled.CostAtSale, "el costo congelado no se reescribe")

	profile := f.store.Profiles[sale.ProfileID]
	assert.Equal(t, entity.ProfileAvailable, profile.Status)

	// Reingreso de 1 ud a 10000 (costo congelado), no al promedio nuevo
	last := f.store.Movements[len(f.store.Movements)-1]
	assert.Equal(t, entity.MovementIN, last.Type)
	assert.Equal(t, entity.RefSaleReversal, last.RefType)
	assert.True(t, last.UnitCost.Equal(dec("10000")))
	require.NotNil(t, last.SaleID)
	assert.Equal(t, sale.ID, *last.SaleID)

	qty, _ := f.balance(t)
	assert.EqualValues(t, 5, qty)
}

func TestCancel_DobleAnulacion(t *testing.T) {
	f := newFixture(t)
	accountID := f.buyAccount(t, 2, "20000")
	sale := f.sell(t, accountID)

	_, err := f.uc.Cancel(context.Background(), testCompanyID, testUserID, sale.ID)
	require.NoError(t, err)

	_, err = f.uc.Cancel(context.Background(), testCompanyID, testUserID, sale.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCancel_VentaDeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	accountID := f.buyAccount(t, 2, "20000")
	sale := f.sell(t, accountID)

	_, err := f.uc.Cancel(context.Background(), "otra-empresa", testUserID, sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Comprobante
// ──────────────────────────────────────────────────────────────────────────────

func TestReceipt_ArmaLosDatosDelComprobante(t *testing.T) {
	f := newFixture(t)
	accountID := f.buyAccount(t, 3, "30000")
	sale := f.sell(t, accountID)

	pdf, err := f.uc.Receipt(context.Background(), testCompanyID, sale.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)

	data := f.receipts.lastData
	assert.Equal(t, sale.ID, data.SaleID)
	assert.Equal(t, "Streaming SAS", data.CompanyName)
	assert.Equal(t, "Netflix", data.PlatformName)
	assert.Equal(t, "cuenta@proveedor.com", data.AccountEmail)
	assert.Equal(t, "Ana Pérez", data.CustomerName)
	assert.Equal(t, 1, data.ProfileNo)
	assert.Equal(t, 30, data.DaysAssigned)
}

func TestReceipt_VentaInexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Receipt(context.Background(), testCompanyID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
