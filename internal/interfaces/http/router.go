package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/mousto-pos/internal/application/analytics"
	"github.com/jhoicas/mousto-pos/internal/application/auth"
	appinv "github.com/jhoicas/mousto-pos/internal/application/inventory"
	"github.com/jhoicas/mousto-pos/internal/application/sales"
	"github.com/jhoicas/mousto-pos/internal/application/usecase"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/pkg/logger"
)

// AppConfig opciones de la aplicación Fiber.
type AppConfig struct {
	Name    string
	Log     *logger.Logger
	Metrics httpMetrics // nil = sin instrumentación
}

// NewApp crea la app Fiber con el ErrorHandler de dominio y los middlewares comunes.
func NewApp(cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // exportaciones PDF
		IdleTimeout:  60 * time.Second,
		ErrorHandler: ErrorHandler(cfg.Log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Content-Disposition",
	}))
	if cfg.Metrics != nil {
		app.Use(Metrics(cfg.Metrics))
	}
	app.Use(RequestLogger(cfg.Log))
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	ProductUC      *usecase.ProductUseCase
	CategoryUC     *usecase.CategoryUseCase
	ActivityUC     *usecase.ActivityUseCase
	NotificationUC *usecase.NotificationUseCase
	Movements      *appinv.MovementUseCase
	Journal        *appinv.JournalUseCase
	Replenishment  *appinv.ReplenishmentUseCase
	Checkout       *sales.CheckoutUseCase
	Reports        *analytics.ReportsUseCase
	DashboardUC    *analytics.DashboardUseCase
	LoginLimiter   *RateLimiter // nil = sin límite
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	loginChain := []fiber.Handler{}
	if deps.LoginLimiter != nil {
		loginChain = append(loginChain, deps.LoginLimiter.Handler())
	}
	api.Post("/auth/login", append(loginChain, authHandler.Login)...)

	// Rutas protegidas: Bearer Token + perfil activo
	protected := api.Group("", AuthMiddleware(deps.JWTSecret), RequireActive(deps.UserUC))
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Get("/auth/me", authHandler.Me)
	protected.Put("/auth/password", authHandler.ChangePassword)

	// Perfiles (funciones privilegiadas)
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users", adminOnly)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Patch("/:id/status", userHandler.ToggleStatus)
	users.Delete("/:id", userHandler.Delete)

	// Productos
	productHandler := NewProductHandler(deps.ProductUC, deps.Movements, deps.Reports)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/export", productHandler.Export)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Patch("/:id", productHandler.Update)
	products.Post("/:id/archive", productHandler.Archive)
	products.Post("/:id/unarchive", productHandler.Unarchive)
	products.Post("/:id/restock", productHandler.Restock)
	products.Delete("/:id", productHandler.Delete)

	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	protected.Get("/categories", categoryHandler.List)
	protected.Post("/categories", categoryHandler.Create)

	// Movimientos de stock
	inventoryHandler := NewInventoryHandler(deps.Movements, deps.Journal, deps.Replenishment)
	inv := protected.Group("/inventory")
	inv.Post("/movements", inventoryHandler.RegisterMovement)
	inv.Get("/journal", inventoryHandler.Journal)
	inv.Get("/replenishment", inventoryHandler.Replenishment)

	// Ventas
	salesHandler := NewSalesHandler(deps.Checkout)
	sale := protected.Group("/sales")
	sale.Post("/quote", salesHandler.Quote)
	sale.Post("/checkout", salesHandler.Checkout)
	sale.Get("/checkouts/:id/receipt", salesHandler.CheckoutReceipt)
	sale.Get("/:id/receipt", salesHandler.SaleReceipt)

	// Reportes y dashboard
	reportHandler := NewReportHandler(deps.Reports, deps.DashboardUC)
	reports := protected.Group("/reports")
	reports.Get("/sales", reportHandler.Sales)
	reports.Get("/sales/export", reportHandler.ExportSales)
	reports.Get("/synthesis", reportHandler.Synthesis)
	reports.Get("/synthesis/export", reportHandler.ExportSynthesis)
	protected.Get("/dashboard/summary", reportHandler.Dashboard)

	// Journal de actividad (admin) y notificaciones
	activityHandler := NewActivityHandler(deps.ActivityUC, deps.NotificationUC)
	protected.Get("/activity", adminOnly, activityHandler.ListActivity)
	notifications := protected.Group("/notifications")
	notifications.Get("/", activityHandler.ListNotifications)
	notifications.Post("/read-all", activityHandler.MarkAllRead)
	notifications.Patch("/:id/read", activityHandler.MarkRead)
}
