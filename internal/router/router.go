package router

import (
	"meditrack_backend/internal/cache"
	"meditrack_backend/internal/config"
	"meditrack_backend/internal/events"
	"meditrack_backend/internal/handlers"
	"meditrack_backend/internal/middleware"
	"meditrack_backend/internal/repositories"
	"meditrack_backend/internal/services"
	"meditrack_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sqlx.DB, cfg config.Config, c *cache.Cache, publisher events.Publisher) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	drugRepo := repositories.NewDrugRepository(db)
	movementRepo := repositories.NewStockMovementRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	restockRepo := repositories.NewRestockRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	// Initialize Services
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	authService := services.NewAuthService(authRepo, paymentRepo, db, tokens, cfg.DefaultSupplierID, c)
	customerService := services.NewCustomerService(customerRepo, db, c)
	catalogService := services.NewCatalogService(drugRepo, movementRepo, authRepo, db, c)
	orderService := services.NewOrderService(orderRepo, drugRepo, movementRepo, paymentRepo, authRepo, db, c, publisher)
	restockService := services.NewRestockService(services.RestockDeps{
		RestockRepo:      restockRepo,
		DrugRepo:         drugRepo,
		MovementRepo:     movementRepo,
		PaymentRepo:      paymentRepo,
		NotificationRepo: notificationRepo,
		AuthRepo:         authRepo,
		DB:               db,
		Cache:            c,
		Publisher:        publisher,
		ReplenishLevel:   cfg.ReplenishLevel,
	})
	paymentService := services.NewPaymentService(paymentRepo, notificationRepo, db, c)
	reportService := services.NewReportService(reportRepo, drugRepo, restockRepo, c)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	orderHandler := handlers.NewOrderHandler(orderService)
	restockHandler := handlers.NewRestockHandler(restockService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	reportHandler := handlers.NewReportHandler(reportService)

	apiV1 := engine.Group("/api/v1")

	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(tokens))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)

		SetupCatalogRoutes(authenticated, catalogHandler)
		SetupCustomerRoutes(authenticated, customerHandler)
		SetupOrderRoutes(authenticated, orderHandler)
		SetupRestockRoutes(authenticated, restockHandler)
		SetupPaymentRoutes(authenticated, paymentHandler)
		SetupReportRoutes(authenticated, reportHandler)
	}
}
