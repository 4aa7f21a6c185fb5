package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jdrueda/slotstock-api/internal/application/accounts"
	"github.com/jdrueda/slotstock-api/internal/application/auth"
	appkardex "github.com/jdrueda/slotstock-api/internal/application/kardex"
	"github.com/jdrueda/slotstock-api/internal/application/sales"
	"github.com/jdrueda/slotstock-api/internal/application/usecase"
	infrapdf "github.com/jdrueda/slotstock-api/internal/infrastructure/pdf"
	"github.com/jdrueda/slotstock-api/internal/infrastructure/postgres"
	httpRouter "github.com/jdrueda/slotstock-api/internal/interfaces/http"
	"github.com/jdrueda/slotstock-api/pkg/config"
	"github.com/jdrueda/slotstock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: "slotstock-api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	platformRepo := postgres.NewPlatformRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	balanceRepo := postgres.NewBalanceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := appkardex.NewLedgerUseCase(txRunner, movementRepo, balanceRepo, platformRepo)
	accountUC := accounts.NewAccountUseCase(txRunner, ledgerUC, accountRepo, profileRepo, platformRepo, supplierRepo)

	// PDF: comprobante de venta entregable al cliente final
	receiptGen := infrapdf.NewMarotoReceiptGenerator()
	saleUC := sales.NewSaleUseCase(
		txRunner, ledgerUC,
		saleRepo, accountRepo, profileRepo, customerRepo, platformRepo, companyRepo,
		receiptGen,
	)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	platformUC := usecase.NewPlatformUseCase(platformRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	reportUC := usecase.NewReportUseCase(balanceRepo, platformRepo, saleRepo)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "SlotStock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CompanyUC:  companyUC,
		PlatformUC: platformUC,
		SupplierUC: supplierUC,
		CustomerUC: customerUC,
		ReportUC:   reportUC,
		AccountUC:  accountUC,
		SaleUC:     saleUC,
		LedgerUC:   ledgerUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
