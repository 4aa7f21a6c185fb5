package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jdrueda/slotstock-api/internal/application/dto"
	"github.com/jdrueda/slotstock-api/internal/domain/entity"
	"github.com/jdrueda/slotstock-api/internal/domain/repository"
)

// ReportUseCase arma reportes de valoración e ingresos sobre el ledger.
type ReportUseCase struct {
	balanceRepo  repository.BalanceRepository
	platformRepo repository.PlatformRepository
	saleRepo     repository.SaleRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(balanceRepo repository.BalanceRepository, platformRepo repository.PlatformRepository, saleRepo repository.SaleRepository) *ReportUseCase {
	return &ReportUseCase{balanceRepo: balanceRepo, platformRepo: platformRepo, saleRepo: saleRepo}
}

// InventoryValue devuelve el valor del inventario por plataforma:
// qty * costo promedio por línea y el gran total de la empresa.
func (uc *ReportUseCase) InventoryValue(companyID string) (*dto.InventoryValueResponse, error) {
	balances, err := uc.balanceRepo.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	resp := &dto.InventoryValueResponse{Lines: make([]dto.InventoryValueLine, 0, len(balances))}
	grandTotal := decimal.Zero
	for _, b := range balances {
		name := ""
		if platform, err := uc.platformRepo.GetByID(b.PlatformID); err == nil && platform != nil {
			name = platform.Name
		}
		value := b.AvgCost.Mul(decimal.NewFromInt(b.QtyOnHand))
		grandTotal = grandTotal.Add(value)
		resp.Lines = append(resp.Lines, dto.InventoryValueLine{
			PlatformID:   b.PlatformID,
			PlatformName: name,
			QtyOnHand:    b.QtyOnHand,
			AvgCost:      b.AvgCost.StringFixed(2),
			TotalValue:   value.StringFixed(2),
		})
	}
	resp.GrandTotal = grandTotal.StringFixed(2)
	return resp, nil
}

// SalesReport agrega las ventas de un rango de fechas: ingreso, costo congelado
// y utilidad (solo ventas activas; las anuladas se cuentan aparte).
func (uc *ReportUseCase) SalesReport(companyID string, from, to *time.Time) (*dto.SalesReportResponse, error) {
	sales, err := uc.saleRepo.ListByCompany(companyID, from, to, 0, 0)
	if err != nil {
		return nil, err
	}
	resp := &dto.SalesReportResponse{}
	if from != nil {
		resp.From = from.Format("2006-01-02")
	}
	if to != nil {
		resp.To = to.Format("2006-01-02")
	}
	revenue, cost := decimal.Zero, decimal.Zero
	for _, s := range sales {
		if s.Status == entity.SaleCanceled {
			resp.CanceledCount++
			continue
		}
		resp.SalesCount++
		revenue = revenue.Add(s.SalePrice)
		cost = cost.Add(s.CostAtSale)
	}
	resp.Revenue = revenue.StringFixed(2)
	resp.Cost = cost.StringFixed(2)
	resp.Profit = revenue.Sub(cost).StringFixed(2)
	return resp, nil
}
