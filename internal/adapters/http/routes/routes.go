package routes

import (
	"time"

	"citidesk/internal/adapters/http/handlers"
	"citidesk/internal/adapters/http/middleware"
	"citidesk/internal/adapters/persistence/repositories"
	"citidesk/internal/config"
	"citidesk/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	residentRepo := repositories.NewResidentRepository(db)
	doctypeRepo := repositories.NewDocumentTypeRepository(db)
	requestRepo := repositories.NewRequestRepository(db)
	queueRepo := repositories.NewQueueRepository(db)
	seqRepo := repositories.NewSequenceRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	residentService := services.NewResidentService(db, residentRepo, seqRepo)
	requestService := services.NewRequestService(db, requestRepo, doctypeRepo, queueRepo, seqRepo)
	queueService := services.NewQueueService(db, queueRepo, requestRepo, seqRepo)
	intakeService := services.NewIntakeService(db, residentService, requestService, queueService, residentRepo, queueRepo, seqRepo)
	dashboardService := services.NewDashboardService(queueRepo, requestRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	intakeHandler := handlers.NewIntakeHandler(intakeService)
	catalogHandler := handlers.NewCatalogHandler(doctypeRepo)
	registryHandler := handlers.NewRegistryHandler(residentService)
	requestHandler := handlers.NewRequestHandler(requestService)
	queueHandler := handlers.NewQueueHandler(queueService)
	queueAdminHandler := handlers.NewQueueAdminHandler(queueService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	apiV1 := app.Group("/api/v1")

	// ============================================================
	// Public routes (kiosk, lobby display, ticket tracker)
	// ============================================================
	apiV1.Post("/kiosk/intake", intakeHandler.Submit)
	apiV1.Get("/catalog", middleware.CacheControl(time.Hour), catalogHandler.ListActive)

	queue := apiV1.Group("/queue", middleware.NoCacheHeaders())
	queue.Get("/board", queueHandler.Board)
	queue.Get("/track/:ticketNo", queueHandler.Track)
	queue.Get("/counters", queueHandler.ListCounters)

	// ============================================================
	// Auth routes
	// ============================================================
	auth := apiV1.Group("/auth")
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/refresh", middleware.AuthRateLimiter(), authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/logout-all", middleware.AuthMiddleware(cfg), authHandler.LogoutAll)
	auth.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// ============================================================
	// Staff routes
	// ============================================================
	admin := apiV1.Group("/admin", middleware.AuthMiddleware(cfg), middleware.StaffOnly())

	admin.Get("/dashboard", dashboardHandler.Today)

	// Registry
	admin.Post("/registry", registryHandler.Register)
	admin.Get("/registry", registryHandler.List)
	admin.Get("/registry/duplicates", registryHandler.FindDuplicates)
	admin.Get("/registry/provisional", registryHandler.ListProvisional)
	admin.Get("/registry/:id", registryHandler.GetByID)
	admin.Post("/registry/:id/confirm", registryHandler.ConfirmProvisional)
	admin.Post("/registry/:id/reject", registryHandler.RejectProvisional)
	admin.Patch("/registry/:id/status", registryHandler.UpdateStatus)
	admin.Get("/residents/:id/requests", requestHandler.ListByResident)

	// Requests
	admin.Get("/requests", requestHandler.ListToday)
	admin.Get("/requests/by-no/:requestNo", requestHandler.GetByRequestNo)
	admin.Get("/requests/:id", requestHandler.GetByID)
	admin.Post("/requests/:id/produce-all", requestHandler.MarkAllProduced)
	admin.Post("/requests/:id/complete", requestHandler.Complete)
	admin.Post("/requests/:id/cancel", requestHandler.Cancel)
	admin.Post("/items/:id/produce", requestHandler.MarkProduced)
	admin.Patch("/items/:id/purpose", requestHandler.UpdatePurpose)

	// Queue operations
	admin.Post("/queue/next", queueAdminHandler.ProcessNext)
	admin.Patch("/queue/:id/status", queueAdminHandler.UpdateStatus)
	admin.Post("/queue/:id/done", queueAdminHandler.MarkDone)
	admin.Post("/queue/:id/claim", queueAdminHandler.Claim)
	admin.Post("/counters/:id/open", queueAdminHandler.OpenCounter)
	admin.Post("/counters/:id/close", queueAdminHandler.CloseCounter)

	// Catalog management (admin and above)
	catalog := admin.Group("/catalog", middleware.AdminOnly())
	catalog.Get("/", catalogHandler.List)
	catalog.Post("/", catalogHandler.Create)
	catalog.Put("/:id", catalogHandler.Update)

	// Staff accounts (admin and above)
	users := apiV1.Group("/users", middleware.AuthMiddleware(cfg))
	users.Post("/change-password", userHandler.ChangePassword)
	users.Post("/", middleware.AdminOnly(), userHandler.CreateUser)
	users.Get("/", middleware.AdminOnly(), userHandler.ListUsers)
	users.Put("/:id", middleware.AdminOnly(), userHandler.UpdateUser)
}
