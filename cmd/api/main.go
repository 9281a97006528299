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

	appanalytics "github.com/jhoicas/gestoria-api/internal/application/analytics"
	"github.com/jhoicas/gestoria-api/internal/application/billing"
	"github.com/jhoicas/gestoria-api/internal/application/casefile"
	"github.com/jhoicas/gestoria-api/internal/application/usecase"
	casedomain "github.com/jhoicas/gestoria-api/internal/domain/casefile"
	infrapdf "github.com/jhoicas/gestoria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/gestoria-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/gestoria-api/internal/interfaces/http"
	"github.com/jhoicas/gestoria-api/pkg/config"
	"github.com/jhoicas/gestoria-api/pkg/logger"
)

// @title                       Gestoría API
// @version                     1.0
// @description                 Backoffice de la gestoría: clientes, expedientes, pagos y catálogo de trámites.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.Migrations.Auto {
		if err := runMigrations(cfg, log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	clientRepo := postgres.NewClientRepository(pool)
	tramiteRepo := postgres.NewTramiteTypeRepository(pool)
	requiredDocRepo := postgres.NewRequiredDocumentRepository(pool)
	caseFileRepo := postgres.NewCaseFileRepository(pool)
	caseDocRepo := postgres.NewCaseDocumentRepository(pool)
	historyRepo := postgres.NewStatusHistoryRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Ciclo de vida: número YY/NNN, checklist e historial en una sola transacción.
	caseFileUC := casefile.NewUseCase(
		txRunner, caseFileRepo, caseDocRepo, historyRepo,
		clientRepo, tramiteRepo, requiredDocRepo, paymentRepo,
		casedomain.Policy{
			AutoAdvanceEmptyChecklist: cfg.CaseFile.AutoAdvanceEmptyChecklist,
			RecordSameStatus:          cfg.CaseFile.RecordSameStatus,
		},
	)
	paymentUC := billing.NewPaymentUseCase(txRunner, paymentRepo, caseFileRepo, clientRepo)

	// PDF: recibo de pago
	receiptUC := billing.NewReceiptUseCase(
		paymentRepo, caseFileRepo, clientRepo, settingsRepo, infrapdf.NewReceiptGenerator(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.SwaggerFile != "" {
		if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.HTTP.SwaggerFile,
				Path:     "docs",
				Title:    "Gestoría API",
			}))
		} else {
			log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger desactivado: fichero no encontrado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_unavailable", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ClientUC:    usecase.NewClientUseCase(clientRepo, caseFileRepo, paymentRepo),
		TramiteUC:   usecase.NewTramiteUseCase(tramiteRepo, requiredDocRepo),
		CaseFileUC:  caseFileUC,
		PaymentUC:   paymentUC,
		ReceiptUC:   receiptUC,
		DashboardUC: appanalytics.NewDashboardUseCase(postgres.NewDashboardRepository(pool)),
		ExportUC:    usecase.NewExportUseCase(clientRepo, caseFileRepo, paymentRepo, tramiteRepo),
		UserUC:      usecase.NewUserUseCase(userRepo),
		SettingsUC:  usecase.NewSettingsUseCase(settingsRepo),
		JWTSecret:   cfg.JWT.Secret,
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

// runMigrations aplica las migraciones pendientes (MIGRATIONS_AUTO=true).
func runMigrations(cfg *config.Config, log *logger.Logger) error {
	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.Zerolog())
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}
