package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/madavola/tracegate/docs"
	"github.com/madavola/tracegate/internal/api/handler"
	"github.com/madavola/tracegate/internal/api/middleware"
	"github.com/madavola/tracegate/internal/core/ports"
	"github.com/madavola/tracegate/internal/core/service"
	"github.com/madavola/tracegate/internal/infrastructure/config"
	redisdb "github.com/madavola/tracegate/internal/infrastructure/db/redis"
	"github.com/madavola/tracegate/internal/infrastructure/upstream"
)

// Deps bundles the infrastructure the router wires together.
type Deps struct {
	Config   *config.Config
	Mongo    *mongo.Database
	Redis    *redis.Client
	Upstream *upstream.Client
	Store    ports.SessionStore
	Audit    ports.AuditRecorder
	AuditLog ports.AuditRepository
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("tracegate"))
	e.Use(middleware.Session(d.Store, d.Log))

	// --- Services ---
	permCache := redisdb.NewPermissionCache(d.Redis, d.Config.Session.TTL)
	sessions := service.NewSessionService(d.Store, d.Upstream, d.Audit, d.Log)
	menu := service.NewMenuService(d.Upstream, d.Upstream, permCache, d.Log)

	// --- Handlers ---
	sessionHandler := handler.NewSessionHandler(sessions, d.Upstream, d.Upstream, d.Config.Session.TTL, d.Config.Session.SecureCookie)
	menuHandler := handler.NewMenuHandler(menu)
	actorHandler := handler.NewActorHandler(d.Upstream)
	lotHandler := handler.NewLotHandler(d.Upstream)
	tradeHandler := handler.NewTradeHandler(d.Upstream)
	exportHandler := handler.NewExportHandler(d.Upstream)
	financeHandler := handler.NewFinanceHandler(d.Upstream)
	complianceHandler := handler.NewComplianceHandler(d.Upstream)
	referenceHandler := handler.NewReferenceHandler(d.Upstream)
	adminHandler := handler.NewAdminHandler(d.Upstream, d.AuditLog)

	// --- Session lifecycle (no guard: these ARE the onboarding steps) ---
	e.POST("/session/login", sessionHandler.Login)
	e.POST("/session/logout", sessionHandler.Logout)
	e.GET("/session", sessionHandler.Current)
	e.POST("/session/role", sessionHandler.SelectRole)
	e.POST("/session/filiere", sessionHandler.SelectFiliere)
	e.POST("/session/back", sessionHandler.Back)
	e.POST("/session/change-profile", sessionHandler.ChangeProfile)
	e.POST("/session/change-filiere", sessionHandler.ChangeFiliere)
	e.GET("/session/profile", sessionHandler.Profile)
	e.GET("/session/roles", sessionHandler.Roles)
	e.GET("/menu", menuHandler.Menu)

	// --- Public verification (QR scans work without any session) ---
	e.GET("/verify/:kind/:id", referenceHandler.Verify)

	// --- Guarded application routes ---
	app := e.Group("", middleware.Guard(menu, d.Audit, d.Log))

	app.GET("/actors", actorHandler.List)
	app.POST("/actors", actorHandler.Create)
	app.GET("/actors/:id", actorHandler.Get)
	app.PATCH("/actors/:id/status", actorHandler.UpdateStatus)

	app.GET("/lots", lotHandler.List)
	app.POST("/lots", lotHandler.Create)
	app.GET("/lots/:id", lotHandler.Get)

	app.GET("/transactions", tradeHandler.List)
	app.POST("/transactions", tradeHandler.Create)
	app.GET("/transactions/:id", tradeHandler.Get)
	app.POST("/transactions/:id/payments", tradeHandler.InitiatePayment)
	app.GET("/transactions/:id/payments", tradeHandler.Payments)

	app.GET("/exports", exportHandler.List)
	app.POST("/exports", exportHandler.Create)
	app.GET("/exports/:id", exportHandler.Get)
	app.PATCH("/exports/:id/status", exportHandler.UpdateStatus)
	app.POST("/exports/:id/lots", exportHandler.LinkLots)

	app.GET("/invoices", financeHandler.Invoices)
	app.GET("/invoices/:id", financeHandler.Invoice)
	app.GET("/ledger", financeHandler.LedgerEntries)
	app.GET("/ledger/balance/:actor_id", financeHandler.LedgerBalance)

	app.GET("/inspections", complianceHandler.Inspections)
	app.POST("/inspections", complianceHandler.CreateInspection)
	app.GET("/violations", complianceHandler.Violations)
	app.POST("/violations", complianceHandler.CreateViolation)
	app.GET("/penalties", complianceHandler.Penalties)
	app.POST("/penalties", complianceHandler.CreatePenalty)

	app.GET("/dashboards/:scope", referenceHandler.Dashboard)
	app.GET("/reports/:scope", referenceHandler.Report)
	app.GET("/territories/regions", referenceHandler.Regions)
	app.GET("/territories/districts", referenceHandler.Districts)
	app.GET("/territories/communes", referenceHandler.Communes)
	app.GET("/territories/fokontany", referenceHandler.Fokontany)
	app.POST("/geo-points", referenceHandler.CreateGeoPoint)

	app.GET("/admin/config", adminHandler.ConfigList)
	app.POST("/admin/config", adminHandler.ConfigCreate)
	app.PUT("/admin/config/:id", adminHandler.ConfigUpdate)
	app.DELETE("/admin/config/:id", adminHandler.ConfigDelete)
	app.GET("/audit", adminHandler.AuditList)

	// --- Operational endpoints (no guard) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis, d.Upstream)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
