package accounts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jdrueda/slotstock-api/internal/application/dto"
	"github.com/jdrueda/slotstock-api/internal/application/kardex"
	"github.com/jdrueda/slotstock-api/internal/domain"
	"github.com/jdrueda/slotstock-api/internal/domain/entity"
	"github.com/jdrueda/slotstock-api/internal/domain/repository"
)

// AccountUseCase maneja el ciclo de vida de cuentas y perfiles: compra,
// redimensionamiento de capacidad, corrección de costo e inactivación.
// Cada operación mutante es una sola transacción que mueve juntos la cuenta,
// sus perfiles, el gasto del proveedor y el kardex; cualquier error revierte todo.
type AccountUseCase struct {
	txRunner     kardex.TxRunner
	ledger       *kardex.LedgerUseCase
	accountRepo  repository.AccountRepository
	profileRepo  repository.ProfileRepository
	platformRepo repository.PlatformRepository
	supplierRepo repository.SupplierRepository
}

// NewAccountUseCase construye el caso de uso.
func NewAccountUseCase(
	txRunner kardex.TxRunner,
	ledger *kardex.LedgerUseCase,
	accountRepo repository.AccountRepository,
	profileRepo repository.ProfileRepository,
	platformRepo repository.PlatformRepository,
	supplierRepo repository.SupplierRepository,
) *AccountUseCase {
	return &AccountUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		accountRepo:  accountRepo,
		profileRepo:  profileRepo,
		platformRepo: platformRepo,
		supplierRepo: supplierRepo,
	}
}

// Create compra una cuenta: crea la cuenta ACTIVE con sus perfiles 1..N
// (AVAILABLE), suma el gasto histórico del proveedor y registra la entrada
// IN de N perfiles a costo unitario totalCost/N, todo en una transacción.
func (uc *AccountUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	purchasedAt, err := parseDate(in.PurchasedAt)
	if err != nil {
		return nil, domain.ErrInvalidPurchase
	}
	cutOffAt, err := parseDate(in.CutOffAt)
	if err != nil {
		return nil, domain.ErrInvalidPurchase
	}
	now := time.Now()
	// Regla de frontera de compra: la fecha de compra no puede ser anterior
	// al momento del registro y el corte debe ser posterior a la compra.
	if purchasedAt.Before(now.Truncate(24 * time.Hour)) {
		return nil, domain.ErrInvalidPurchase
	}
	if !cutOffAt.After(purchasedAt) {
		return nil, domain.ErrInvalidPurchase
	}
	if in.ProfilesTotal < 1 || in.TotalCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidPurchase
	}
	if in.EmailLogin == "" || in.PlatformID == "" {
		return nil, domain.ErrInvalidInput
	}

	// Validar plataforma de la empresa (solo lectura, fuera de la tx)
	platform, err := uc.platformRepo.GetByID(in.PlatformID)
	if err != nil || platform == nil {
		return nil, domain.ErrNotFound
	}
	if platform.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	unitCost := in.TotalCost.Div(decimal.NewFromInt(int64(in.ProfilesTotal)))
	account := &entity.Account{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		PlatformID:    in.PlatformID,
		EmailLogin:    in.EmailLogin,
		PasswordLogin: in.PasswordLogin,
		ProfilesTotal: in.ProfilesTotal,
		PurchasedAt:   purchasedAt,
		CutOffAt:      cutOffAt,
		TotalCost:     in.TotalCost,
		Status:        entity.AccountActive,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
		CreatedBy:     userID,
	}

	err = uc.txRunner.Run(ctx, func(tx kardex.Repos) error {
		supplierID, err := uc.resolveSupplier(tx, companyID, in.SupplierID, in.Supplier, now)
		if err != nil {
			return err
		}
		account.SupplierID = supplierID

		if err := tx.Accounts.Create(account); err != nil {
			return err
		}
		if supplierID != nil {
			if err := tx.Suppliers.IncrementSpend(*supplierID, in.TotalCost); err != nil {
				return err
			}
		}

		profiles := make([]*entity.Profile, 0, in.ProfilesTotal)
		for i := 1; i <= in.ProfilesTotal; i++ {
			profiles = append(profiles, &entity.Profile{
				ID:        uuid.New().String(),
				AccountID: account.ID,
				ProfileNo: i,
				Status:    entity.ProfileAvailable,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		if err := tx.Profiles.CreateBatch(profiles); err != nil {
			return err
		}

		_, err = uc.ledger.RegisterInTx(tx, companyID, in.PlatformID,
			int64(in.ProfilesTotal), unitCost, entity.RefAccountPurchase, &account.ID, userID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, companyID, account.ID)
}

// resolveSupplier devuelve el id del proveedor: por id (validando empresa),
// inline (creándolo si no existe por nombre) o nil si no viene.
func (uc *AccountUseCase) resolveSupplier(tx kardex.Repos, companyID, supplierID string, inline *dto.InlineSupplierRequest, now time.Time) (*string, error) {
	if supplierID != "" {
		supplier, err := tx.Suppliers.GetByID(supplierID)
		if err != nil || supplier == nil {
			return nil, domain.ErrNotFound
		}
		if supplier.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		return &supplier.ID, nil
	}
	if inline == nil || inline.Name == "" {
		return nil, nil
	}
	existing, err := tx.Suppliers.GetByCompanyAndName(companyID, inline.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &existing.ID, nil
	}
	created := &entity.Supplier{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		Name:            inline.Name,
		Contact:         inline.Contact,
		HistoricalSpend: decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := tx.Suppliers.Create(created); err != nil {
		return nil, err
	}
	return &created.ID, nil
}

// Update actualiza una cuenta: credenciales, fechas y notas directamente;
// total_cost dispara una corrección de costo (ADJUST de solo valor) y
// profiles_total un redimensionamiento de capacidad, ambos dentro de la
// misma transacción. La corrección de costo no reescribe costos de ventas
// ya registradas, solo mueve el promedio hacia adelante.
func (uc *AccountUseCase) Update(ctx context.Context, companyID, userID, id string, in dto.UpdateAccountRequest) (*dto.AccountResponse, error) {
	now := time.Now()
	err := uc.txRunner.Run(ctx, func(tx kardex.Repos) error {
		account, err := tx.Accounts.GetForUpdate(id)
		if err != nil {
			return err
		}
		if account == nil || account.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if account.Status == entity.AccountInactive {
			return domain.ErrAccountInactive
		}

		if in.PurchasedAt != nil {
			d, err := parseDate(*in.PurchasedAt)
			if err != nil {
				return domain.ErrInvalidPurchase
			}
			account.PurchasedAt = d
		}
		if in.CutOffAt != nil {
			d, err := parseDate(*in.CutOffAt)
			if err != nil {
				return domain.ErrInvalidPurchase
			}
			account.CutOffAt = d
		}
		if !account.CutOffAt.After(account.PurchasedAt) {
			return domain.ErrInvalidPurchase
		}
		if in.EmailLogin != nil {
			account.EmailLogin = *in.EmailLogin
		}
		if in.PasswordLogin != nil {
			account.PasswordLogin = *in.PasswordLogin
		}
		if in.Notes != nil {
			account.Notes = *in.Notes
		}

		// 1) Corrección del costo de adquisición: ADJUST qty=0 con el delta de
		// valor; ajusta el promedio sin tocar stock y el gasto del proveedor.
		if in.TotalCost != nil {
			newCost := *in.TotalCost
			if newCost.LessThan(decimal.Zero) {
				return domain.ErrInvalidPurchase
			}
			diff := newCost.Sub(account.TotalCost)
			if !diff.IsZero() {
				if _, err := uc.ledger.RegisterAdjustTx(tx, companyID, account.PlatformID,
					0, diff, entity.RefCostAdjust, &account.ID, userID, now); err != nil {
					return err
				}
				if account.SupplierID != nil {
					if err := tx.Suppliers.IncrementSpend(*account.SupplierID, diff); err != nil {
						return err
					}
				}
				account.TotalCost = newCost
			}
		}

		// 2) Cambio de perfiles totales: delta IN o ADJUST de baja
		if in.ProfilesTotal != nil && *in.ProfilesTotal != account.ProfilesTotal {
			if err := uc.resizeTx(tx, account, *in.ProfilesTotal, userID, now); err != nil {
				return err
			}
		}

		account.UpdatedAt = now
		return tx.Accounts.Update(account)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, companyID, id)
}

// resizeTx cambia la capacidad de la cuenta dentro de la tx del caller.
// Aumento: crea perfiles oldTotal+1..newTotal y registra IN del delta a costo
// unitario totalCost/newTotal (re-derivado del costo vigente de la cuenta).
// Reducción: bloquea los perfiles AVAILABLE de número más alto primero y
// registra ADJUST de -(oldTotal-newTotal) al promedio vigente (el promedio
// no cambia). Nunca toca perfiles SOLD.
func (uc *AccountUseCase) resizeTx(tx kardex.Repos, account *entity.Account, newTotal int, userID string, now time.Time) error {
	if newTotal < 0 {
		return domain.ErrInvalidInput
	}
	oldTotal := account.ProfilesTotal

	soldCount, err := tx.Profiles.CountByStatus(account.ID, entity.ProfileSold)
	if err != nil {
		return err
	}
	if newTotal < soldCount {
		return domain.ErrCapacityBelowSold
	}

	if newTotal > oldTotal {
		delta := newTotal - oldTotal
		profiles := make([]*entity.Profile, 0, delta)
		for i := oldTotal + 1; i <= newTotal; i++ {
			profiles = append(profiles, &entity.Profile{
				ID:        uuid.New().String(),
				AccountID: account.ID,
				ProfileNo: i,
				Status:    entity.ProfileAvailable,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		if err := tx.Profiles.CreateBatch(profiles); err != nil {
			return err
		}
		unitCost := account.UnitCost(newTotal)
		if _, err := uc.ledger.RegisterInTx(tx, account.CompanyID, account.PlatformID,
			int64(delta), unitCost, entity.RefProfileAdjust, &account.ID, userID, now); err != nil {
			return err
		}
		account.ProfilesTotal = newTotal
		return nil
	}

	need := oldTotal - newTotal
	toBlock, err := tx.Profiles.ListAvailableDescForUpdate(account.ID, need)
	if err != nil {
		return err
	}
	if len(toBlock) < need {
		return domain.ErrInsufficientAvailable
	}
	for _, p := range toBlock {
		if err := p.TransitionTo(entity.ProfileBlocked, now); err != nil {
			return err
		}
		if err := tx.Profiles.UpdateStatus(p.ID, p.Status); err != nil {
			return err
		}
	}
	if err := uc.adjustOutAtAvgTx(tx, account, int64(need), entity.RefProfileAdjust, userID, now); err != nil {
		return err
	}
	account.ProfilesTotal = newTotal
	return nil
}

// adjustOutAtAvgTx registra un ADJUST de baja de qty unidades valoradas al
// promedio vigente: el valor sale proporcional y el promedio queda igual.
func (uc *AccountUseCase) adjustOutAtAvgTx(tx kardex.Repos, account *entity.Account, qty int64, refType, userID string, now time.Time) error {
	balance, err := tx.Balances.GetForUpdate(account.CompanyID, account.PlatformID)
	if err != nil {
		return err
	}
	if balance.QtyOnHand < qty {
		return domain.ErrInsufficientStock
	}
	deltaTotal := balance.AvgCost.Mul(decimal.NewFromInt(qty)).Neg()
	_, err = uc.ledger.RegisterAdjustTx(tx, account.CompanyID, account.PlatformID,
		-qty, deltaTotal, refType, &account.ID, userID, now)
	return err
}

// Deactivate inactiva una cuenta: bloquea todos los perfiles AVAILABLE que
// queden, registra un ADJUST de -disponibles al promedio vigente y marca la
// cuenta INACTIVE. Idempotente: inactivar dos veces es un no-op, no un error.
func (uc *AccountUseCase) Deactivate(ctx context.Context, companyID, userID, id string) error {
	now := time.Now()
	return uc.txRunner.Run(ctx, func(tx kardex.Repos) error {
		account, err := tx.Accounts.GetForUpdate(id)
		if err != nil {
			return err
		}
		if account == nil || account.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if account.Status == entity.AccountInactive {
			return nil // ya estaba inactiva
		}

		available, err := tx.Profiles.ListAvailableDescForUpdate(account.ID, 0)
		if err != nil {
			return err
		}
		for _, p := range available {
			if err := p.TransitionTo(entity.ProfileBlocked, now); err != nil {
				return err
			}
			if err := tx.Profiles.UpdateStatus(p.ID, p.Status); err != nil {
				return err
			}
		}
		if len(available) > 0 {
			if err := uc.adjustOutAtAvgTx(tx, account, int64(len(available)), entity.RefAccountInactivation, userID, now); err != nil {
				return err
			}
		}
		return tx.Accounts.UpdateStatus(account.ID, entity.AccountInactive)
	})
}

// GetByID obtiene una cuenta con sus perfiles.
func (uc *AccountUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.AccountResponse, error) {
	account, err := uc.accountRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if account == nil || account.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	profiles, err := uc.profileRepo.ListByAccount(id)
	if err != nil {
		return nil, err
	}
	return toAccountResponse(account, profiles), nil
}

// List lista cuentas de la empresa, opcionalmente por plataforma.
func (uc *AccountUseCase) List(ctx context.Context, companyID, platformID string, includeInactive bool, limit, offset int) (*dto.AccountListResponse, error) {
	list, err := uc.accountRepo.ListByCompany(companyID, platformID, includeInactive, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AccountResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toAccountResponse(a, nil))
	}
	return &dto.AccountListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toAccountResponse(a *entity.Account, profiles []*entity.Profile) *dto.AccountResponse {
	resp := &dto.AccountResponse{
		ID:            a.ID,
		CompanyID:     a.CompanyID,
		PlatformID:    a.PlatformID,
		SupplierID:    a.SupplierID,
		EmailLogin:    a.EmailLogin,
		ProfilesTotal: a.ProfilesTotal,
		PurchasedAt:   a.PurchasedAt.Format("2006-01-02"),
		CutOffAt:      a.CutOffAt.Format("2006-01-02"),
		TotalCost:     a.TotalCost.StringFixed(2),
		Status:        a.Status,
		Notes:         a.Notes,
	}
	for _, p := range profiles {
		resp.Profiles = append(resp.Profiles, dto.ProfileResponse{
			ID:        p.ID,
			ProfileNo: p.ProfileNo,
			Status:    p.Status,
		})
	}
	return resp
}

// parseDate acepta RFC 3339 o YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
