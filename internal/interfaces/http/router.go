package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jdrueda/slotstock-api/internal/application/accounts"
	"github.com/jdrueda/slotstock-api/internal/application/auth"
	"github.com/jdrueda/slotstock-api/internal/application/kardex"
	"github.com/jdrueda/slotstock-api/internal/application/sales"
	"github.com/jdrueda/slotstock-api/internal/application/usecase"
	"github.com/jdrueda/slotstock-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CompanyUC  *usecase.CompanyUseCase
	PlatformUC *usecase.PlatformUseCase
	SupplierUC *usecase.SupplierUseCase
	CustomerUC *usecase.CustomerUseCase
	ReportUC   *usecase.ReportUseCase
	AccountUC  *accounts.AccountUseCase
	SaleUC     *sales.SaleUseCase
	LedgerUC   *kardex.LedgerUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público: alta de tenant y consulta)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Platforms (protegido; mutaciones solo admin)
	platforms := protected.Group("/platforms")
	platformHandler := NewPlatformHandler(deps.PlatformUC)
	platforms.Post("/", adminOnly, platformHandler.Create)
	platforms.Get("/", platformHandler.List)
	platforms.Get("/:id", platformHandler.GetByID)
	platforms.Put("/:id", adminOnly, platformHandler.Update)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", adminOnly, supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Delete("/:id", adminOnly, customerHandler.Delete)

	// Accounts (protegido; compra, edición e inactivación solo admin)
	accountsGroup := protected.Group("/accounts")
	accountHandler := NewAccountHandler(deps.AccountUC)
	accountsGroup.Post("/", adminOnly, accountHandler.Create)
	accountsGroup.Get("/", accountHandler.List)
	accountsGroup.Get("/:id", accountHandler.GetByID)
	accountsGroup.Put("/:id", adminOnly, accountHandler.Update)
	accountsGroup.Delete("/:id", adminOnly, accountHandler.Deactivate)

	// Sales (protegido; vendedor y admin)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/cancel", saleHandler.Cancel)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	// Kardex (protegido; movimientos manuales y recálculo solo admin)
	kardexGroup := protected.Group("/kardex")
	kardexHandler := NewKardexHandler(deps.LedgerUC)
	kardexGroup.Post("/movements", adminOnly, kardexHandler.RegisterMovement)
	kardexGroup.Get("/:platform_id/balance", kardexHandler.GetBalance)
	kardexGroup.Get("/:platform_id/movements", kardexHandler.ListMovements)
	kardexGroup.Post("/:platform_id/recompute", adminOnly, kardexHandler.Recompute)

	// Reports (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/inventory-value", reportHandler.InventoryValue)
	reports.Get("/sales", reportHandler.Sales)
}
