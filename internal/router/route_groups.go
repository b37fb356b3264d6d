package router

import (
	"meditrack_backend/internal/handlers"
	"meditrack_backend/internal/middleware"
	"meditrack_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupPublicAuthRoutes sets up signup and login.
func SetupPublicAuthRoutes(authRoutes *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes.POST("/pharmacists/signup", authHandler.SignupPharmacist)
	authRoutes.POST("/pharmacists/login", authHandler.LoginPharmacist)
	authRoutes.POST("/suppliers/signup", authHandler.SignupSupplier)
	authRoutes.POST("/suppliers/login", authHandler.LoginSupplier)
}

// SetupAuthenticatedAuthRoutes sets up the session routes.
func SetupAuthenticatedAuthRoutes(authRoutes *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
}

// SetupCatalogRoutes sets up the drug and supplier routes.
func SetupCatalogRoutes(authenticatedGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	drugRoutes := authenticatedGroup.Group("/drugs")
	{
		drugRoutes.GET("", catalogHandler.GetDrugs)
		drugRoutes.GET("/search", catalogHandler.SearchDrugs)
		drugRoutes.GET("/low-stock", catalogHandler.GetLowStockDrugs)
		drugRoutes.GET("/:id/movements", catalogHandler.GetStockMovements)
		drugRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleSupplier), catalogHandler.CreateDrug)
	}
	authenticatedGroup.GET("/suppliers", catalogHandler.GetSuppliers)
}

// SetupCustomerRoutes sets up the customer routes.
func SetupCustomerRoutes(authenticatedGroup *gin.RouterGroup, customerHandler *handlers.CustomerHandler) {
	customerRoutes := authenticatedGroup.Group("/customers")
	customerRoutes.Use(middleware.RoleAuthMiddleware(models.RolePharmacist))
	{
		customerRoutes.POST("", customerHandler.CreateCustomer)
		customerRoutes.GET("", customerHandler.GetCustomers)
	}
}

// SetupOrderRoutes sets up the order routes.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	orderRoutes.Use(middleware.RoleAuthMiddleware(models.RolePharmacist))
	{
		orderRoutes.POST("", orderHandler.PlaceOrder)
		orderRoutes.GET("", orderHandler.GetOrders)
	}
}

// SetupRestockRoutes sets up restock orders, tickets and restock needs.
func SetupRestockRoutes(authenticatedGroup *gin.RouterGroup, restockHandler *handlers.RestockHandler) {
	supplierOnly := middleware.RoleAuthMiddleware(models.RoleSupplier)

	restockRoutes := authenticatedGroup.Group("/restock-orders")
	{
		restockRoutes.GET("", restockHandler.GetRestockOrders)
		restockRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePharmacist), restockHandler.CreateRestock)
		restockRoutes.POST("/:id/deliver", supplierOnly, restockHandler.ConfirmDelivery)
	}

	ticketRoutes := authenticatedGroup.Group("/tickets")
	{
		ticketRoutes.GET("", restockHandler.GetTickets)
		ticketRoutes.POST("/:id/deliver", supplierOnly, restockHandler.ConfirmTicketDelivery)
	}

	authenticatedGroup.GET("/restock-needs", supplierOnly, restockHandler.GetRestockNeeds)
}

// SetupPaymentRoutes sets up payments, pharmacy payment methods and supplier notifications.
func SetupPaymentRoutes(authenticatedGroup *gin.RouterGroup, paymentHandler *handlers.PaymentHandler) {
	authenticatedGroup.GET("/payments", paymentHandler.GetPayments)
	authenticatedGroup.GET("/payment-methods", paymentHandler.GetPaymentMethods)

	pharmacyPaymentRoutes := authenticatedGroup.Group("/pharmacy-payments")
	pharmacyPaymentRoutes.Use(middleware.RoleAuthMiddleware(models.RolePharmacist))
	{
		pharmacyPaymentRoutes.GET("", paymentHandler.GetPharmacyPayments)
		pharmacyPaymentRoutes.POST("", paymentHandler.AddPharmacyPayment)
	}

	notificationRoutes := authenticatedGroup.Group("/notifications")
	notificationRoutes.Use(middleware.RoleAuthMiddleware(models.RoleSupplier))
	{
		notificationRoutes.GET("", paymentHandler.GetNotifications)
		notificationRoutes.POST("/read", paymentHandler.MarkNotificationsRead)
	}
}

// SetupReportRoutes sets up reports and dashboards.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	authenticatedGroup.GET("/dashboard", reportHandler.GetDashboard)
	authenticatedGroup.GET("/reports/:type", middleware.RoleAuthMiddleware(models.RolePharmacist), reportHandler.GetReport)
}
