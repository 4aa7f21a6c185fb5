package sales

import "github.com/shopspring/decimal"

// ReceiptData datos planos que necesita el comprobante de venta.
type ReceiptData struct {
	SaleID       string
	CompanyName  string
	PlatformName string
	AccountEmail string
	ProfileNo    int
	CustomerName string
	SalePrice    decimal.Decimal
	SaleDate     string
	CutoffDate   string
	DaysAssigned int
	Notes        string
}

// ReceiptGenerator genera el PDF del comprobante de una venta.
type ReceiptGenerator interface {
	Generate(data ReceiptData) ([]byte, error)
}
