package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mousto-pos/internal/application/analytics"
	"github.com/jhoicas/mousto-pos/internal/application/auth"
	"github.com/jhoicas/mousto-pos/internal/application/inventory"
	"github.com/jhoicas/mousto-pos/internal/application/sales"
	"github.com/jhoicas/mousto-pos/internal/application/usecase"
	"github.com/jhoicas/mousto-pos/internal/infrastructure/excel"
	"github.com/jhoicas/mousto-pos/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/mousto-pos/internal/infrastructure/pdf"
	"github.com/jhoicas/mousto-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/mousto-pos/internal/infrastructure/postgres/migrations"
	"github.com/jhoicas/mousto-pos/internal/infrastructure/realtime"
	"github.com/jhoicas/mousto-pos/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/mousto-pos/internal/interfaces/http"
	"github.com/jhoicas/mousto-pos/pkg/config"
	"github.com/jhoicas/mousto-pos/pkg/jwt"
	"github.com/jhoicas/mousto-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	// Días de venta, periodos de informes y cron se cortan en la zona de la tienda.
	time.Local = cfg.App.Location

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
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

	if cfg.DB.AutoMigrate {
		db := postgres.OpenDB(pool)
		if err := migrations.Apply(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		_ = db.Close()
		log.Info().Msg("migraciones aplicadas")
	}

	m := metrics.New()
	hub := realtime.NewHub(log.Component("realtime"), m)

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	activityRepo := postgres.NewActivityLogRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.DB.LockTimeout)

	pdfGenerator := infrapdf.NewGenerator()
	excelExporter := excel.NewExporter()

	activityUC := usecase.NewActivityUseCase(activityRepo, hub, log.Component("activity"))
	notificationUC := usecase.NewNotificationUseCase(notificationRepo, userRepo, hub, log.Component("notifications"))
	userUC := usecase.NewUserUseCase(userRepo, activityUC, hub, hub)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, hub)
	movementUC := inventory.NewMovementUseCase(txRunner, activityUC, notificationUC, hub)
	journalUC := inventory.NewJournalUseCase(movementRepo)
	replenishmentUC := inventory.NewReplenishmentUseCase(productRepo, movementRepo)
	productUC := usecase.NewProductUseCase(
		productRepo, categoryRepo, userRepo, txRunner, movementUC, activityUC, hub,
		cfg.Store.DefaultMinThreshold,
	)
	checkoutUC := sales.NewCheckoutUseCase(
		txRunner, productRepo, saleRepo, userRepo, movementUC,
		activityUC, notificationUC, hub, m, pdfGenerator,
		sales.StoreInfo{Name: cfg.Store.Name, Currency: cfg.Store.Currency},
	)
	reportsUC := analytics.NewReportsUseCase(
		saleRepo, movementRepo, productRepo, cfg.Store.Name, cfg.Store.Currency,
		pdfGenerator, excelExporter,
	)
	dashboardUC := analytics.NewDashboardUseCase(analyticsRepo, productRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Primer administrador: solo si la tabla profiles no tiene ninguno.
	if cfg.Bootstrap.Enabled() {
		created, err := authUC.Bootstrap(ctx, auth.BootstrapAdmin{
			Email:     cfg.Bootstrap.AdminEmail,
			Password:  cfg.Bootstrap.AdminPassword,
			Firstname: cfg.Bootstrap.AdminFirstname,
			Lastname:  cfg.Bootstrap.AdminLastname,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
		if created {
			log.Info().Str("email", cfg.Bootstrap.AdminEmail).Msg("administrador inicial creado")
		}
	}

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:    cfg.App.Name,
		Log:     log.Component("http"),
		Metrics: m,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Mousto POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	stopCleanup := make(chan struct{})
	loginLimiter := httpRouter.NewRateLimiter(cfg.RateLimit.LoginPerSecond, cfg.RateLimit.LoginBurst, log.Component("ratelimit"))
	loginLimiter.StartCleanup(5*time.Minute, stopCleanup)

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		UserUC:         userUC,
		ProductUC:      productUC,
		CategoryUC:     categoryUC,
		ActivityUC:     activityUC,
		NotificationUC: notificationUC,
		Movements:      movementUC,
		Journal:        journalUC,
		Replenishment:  replenishmentUC,
		Checkout:       checkoutUC,
		Reports:        reportsUC,
		DashboardUC:    dashboardUC,
		LoginLimiter:   loginLimiter,
		JWTSecret:      cfg.JWT.Secret,
	})

	// Servidor de operaciones: websocket de cambios, métricas y salud.
	opsServer := realtime.NewOpsServer(realtime.OpsConfig{
		Addr: cfg.Ops.Addr(),
		Hub:  hub,
		Auth: func(ctx context.Context, token string) (string, error) {
			userID, _, err := jwt.Parse(cfg.JWT.Secret, token)
			if err != nil {
				return "", err
			}
			active, err := userUC.IsActive(ctx, userID)
			if err != nil {
				return "", err
			}
			if !active {
				return "", fmt.Errorf("perfil %s desactivado", userID)
			}
			return userID, nil
		},
		Metrics: m.Handler(),
		Health:  func(ctx context.Context) error { return pool.Ping(ctx) },
		Log:     log.Component("ops"),
	})

	sched := scheduler.New(log.Component("scheduler"), m, 2*time.Minute)
	if cfg.Scheduler.LowStockCron != "" {
		sweep := inventory.NewLowStockSweep(productRepo, notificationUC)
		err := sched.Register("low_stock", cfg.Scheduler.LowStockCron, func(ctx context.Context) error {
			n, err := sweep.Run(ctx)
			if err == nil && n > 0 {
				log.Info().Int("products", n).Msg("alerta de stock bajo enviada")
			}
			return err
		})
		if err != nil {
			log.Fatal().Err(err).Str("cron", cfg.Scheduler.LowStockCron).Msg("programar tarea low_stock")
		}
	}
	sched.Start()

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()
	go func() {
		log.Info().Str("addr", cfg.Ops.Addr()).Msg("servidor de operaciones escuchando")
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Error().Err(err).Msg("servidor de operaciones finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	close(stopCleanup)
	sched.Stop(shutdownCtx)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	hub.Close()
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor de operaciones")
	}

	log.Info().Msg("aplicación detenida")
}
