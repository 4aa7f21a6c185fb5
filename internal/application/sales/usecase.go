package sales

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jdrueda/slotstock-api/internal/application/dto"
	"github.com/jdrueda/slotstock-api/internal/application/kardex"
	"github.com/jdrueda/slotstock-api/internal/domain"
	"github.com/jdrueda/slotstock-api/internal/domain/entity"
	"github.com/jdrueda/slotstock-api/internal/domain/repository"
)

// SaleUseCase vende y cancela perfiles. Vender toma el perfil AVAILABLE de
// menor número de la cuenta, lo marca SOLD, registra la salida OUT de 1 unidad
// al promedio vigente y crea la venta con ese costo congelado, todo en una
// transacción; cancelar revierte perfil, kardex y venta en otra.
type SaleUseCase struct {
	txRunner     kardex.TxRunner
	ledger       *kardex.LedgerUseCase
	saleRepo     repository.SaleRepository
	accountRepo  repository.AccountRepository
	profileRepo  repository.ProfileRepository
	customerRepo repository.CustomerRepository
	platformRepo repository.PlatformRepository
	companyRepo  repository.CompanyRepository
	receipts     ReceiptGenerator
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner kardex.TxRunner,
	ledger *kardex.LedgerUseCase,
	saleRepo repository.SaleRepository,
	accountRepo repository.AccountRepository,
	profileRepo repository.ProfileRepository,
	customerRepo repository.CustomerRepository,
	platformRepo repository.PlatformRepository,
	companyRepo repository.CompanyRepository,
	receipts ReceiptGenerator,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		saleRepo:     saleRepo,
		accountRepo:  accountRepo,
		profileRepo:  profileRepo,
		customerRepo: customerRepo,
		platformRepo: platformRepo,
		companyRepo:  companyRepo,
		receipts:     receipts,
	}
}

// Create vende un perfil de la cuenta indicada.
func (uc *SaleUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.AccountID == "" || in.CustomerID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.SalePrice.IsNegative() || in.DaysAssigned < 1 {
		return nil, domain.ErrInvalidInput
	}
	saleDate, err := parseDate(in.SaleDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	var sale *entity.Sale
	err = uc.txRunner.Run(ctx, func(tx kardex.Repos) error {
		account, err := tx.Accounts.GetForUpdate(in.AccountID)
		if err != nil {
			return err
		}
		if account == nil || account.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if account.Status != entity.AccountActive {
			return domain.ErrAccountInactive
		}

		profile, err := tx.Profiles.FirstAvailableForUpdate(account.ID)
		if err != nil {
			return err
		}
		if profile == nil {
			return domain.ErrNoAvailableProfile
		}
		if err := profile.TransitionTo(entity.ProfileSold, now); err != nil {
			return err
		}
		if err := tx.Profiles.UpdateStatus(profile.ID, profile.Status); err != nil {
			return err
		}

		mov, costAtSale, err := uc.ledger.RegisterOutTx(tx, companyID, account.PlatformID,
			1, entity.RefProfileSale, &account.ID, userID, now)
		if err != nil {
			return err
		}

		sale = &entity.Sale{
			ID:           uuid.New().String(),
			CompanyID:    companyID,
			PlatformID:   account.PlatformID,
			AccountID:    account.ID,
			ProfileID:    profile.ID,
			CustomerID:   customer.ID,
			SalePrice:    in.SalePrice,
			SaleDate:     saleDate,
			DaysAssigned: in.DaysAssigned,
			CutoffDate:   saleDate.AddDate(0, 0, in.DaysAssigned),
			CostAtSale:   costAtSale,
			Status:       entity.SaleActive,
			Notes:        in.Notes,
			CreatedAt:    now,
			UpdatedAt:    now,
			CreatedBy:    userID,
		}
		if err := tx.Sales.Create(sale); err != nil {
			return err
		}
		// Enlaza el movimiento OUT con la venta que lo originó (única mutación
		// permitida sobre un movimiento ya registrado).
		return tx.Movements.LinkSale(mov.ID, sale.ID)
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// Cancel revierte una venta: el perfil vuelve a AVAILABLE, entra 1 unidad al
// costo congelado de la venta (el promedio absorbe el reingreso) y la venta
// queda CANCELED. Una venta ya cancelada no se puede cancelar de nuevo.
func (uc *SaleUseCase) Cancel(ctx context.Context, companyID, userID, id string) (*dto.SaleResponse, error) {
	now := time.Now()
	var sale *entity.Sale
	err := uc.txRunner.Run(ctx, func(tx kardex.Repos) error {
		var err error
		sale, err = tx.Sales.GetByID(id)
		if err != nil {
			return err
		}
		if sale == nil || sale.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if sale.Status == entity.SaleCanceled {
			return domain.ErrConflict
		}

		profile, err := tx.Profiles.GetByID(sale.ProfileID)
		if err != nil || profile == nil {
			return domain.ErrNotFound
		}
		if err := profile.TransitionTo(entity.ProfileAvailable, now); err != nil {
			return err
		}
		if err := tx.Profiles.UpdateStatus(profile.ID, profile.Status); err != nil {
			return err
		}

		mov, err := uc.ledger.RegisterInTx(tx, companyID, sale.PlatformID,
			1, sale.CostAtSale, entity.RefSaleReversal, &sale.AccountID, userID, now)
		if err != nil {
			return err
		}
		if err := tx.Movements.LinkSale(mov.ID, sale.ID); err != nil {
			return err
		}
		sale.Status = entity.SaleCanceled
		sale.UpdatedAt = now
		return tx.Sales.UpdateStatus(sale.ID, entity.SaleCanceled)
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// GetByID obtiene una venta de la empresa.
func (uc *SaleUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(sale), nil
}

// List lista ventas de la empresa con filtro opcional de rango de fechas.
func (uc *SaleUseCase) List(ctx context.Context, companyID string, from, to *time.Time, limit, offset int) (*dto.SaleListResponse, error) {
	list, err := uc.saleRepo.ListByCompany(companyID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Receipt genera el PDF del comprobante de una venta.
func (uc *SaleUseCase) Receipt(ctx context.Context, companyID, id string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	company, err := uc.companyRepo.GetByID(sale.CompanyID)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}
	platform, err := uc.platformRepo.GetByID(sale.PlatformID)
	if err != nil || platform == nil {
		return nil, domain.ErrNotFound
	}
	account, err := uc.accountRepo.GetByID(sale.AccountID)
	if err != nil || account == nil {
		return nil, domain.ErrNotFound
	}
	profile, err := uc.profileRepo.GetByID(sale.ProfileID)
	if err != nil || profile == nil {
		return nil, domain.ErrNotFound
	}
	customer, err := uc.customerRepo.GetByID(sale.CustomerID)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	return uc.receipts.Generate(ReceiptData{
		SaleID:       sale.ID,
		CompanyName:  company.Name,
		PlatformName: platform.Name,
		AccountEmail: account.EmailLogin,
		ProfileNo:    profile.ProfileNo,
		CustomerName: customer.Name,
		SalePrice:    sale.SalePrice,
		SaleDate:     sale.SaleDate.Format("2006-01-02"),
		CutoffDate:   sale.CutoffDate.Format("2006-01-02"),
		DaysAssigned: sale.DaysAssigned,
		Notes:        sale.Notes,
	})
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:           s.ID,
		CompanyID:    s.CompanyID,
		PlatformID:   s.PlatformID,
		AccountID:    s.AccountID,
		ProfileID:    s.ProfileID,
		CustomerID:   s.CustomerID,
		SalePrice:    s.SalePrice.StringFixed(2),
		SaleDate:     s.SaleDate.Format("2006-01-02"),
		DaysAssigned: s.DaysAssigned,
		CutoffDate:   s.CutoffDate.Format("2006-01-02"),
		CostAtSale:   s.CostAtSale.StringFixed(2),
		Profit:       s.SalePrice.Sub(s.CostAtSale).StringFixed(2),
		Status:       s.Status,
		Notes:        s.Notes,
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
