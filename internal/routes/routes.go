package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"business-finance-backend/internal/config"
	handler "business-finance-backend/internal/handlers"
	"business-finance-backend/internal/middleware"
	"business-finance-backend/internal/repository"
	"business-finance-backend/internal/services/analytics"
	expenseservice "business-finance-backend/internal/services/expenses"
	invoiceservice "business-finance-backend/internal/services/invoices"
	userservice "business-finance-backend/internal/services/users"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, logger *logrus.Logger) {
	invoiceRepo := repository.NewInvoiceRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	userRepo := repository.NewUserRepository(db)

	jwtSecret := config.JWTSecret()
	mailer := &invoiceservice.LogMailer{Logger: logger}

	invoiceSvc := invoiceservice.NewService(invoiceRepo, mailer, logger, "https://pay.business-finance.app/")
	expenseSvc := expenseservice.NewService(expenseRepo)
	userSvc := userservice.NewService(userRepo, jwtSecret)
	engine := analytics.NewEngine(invoiceRepo, expenseRepo)

	invoiceHandler := handler.NewInvoiceHandler(invoiceSvc)
	expenseHandler := handler.NewExpenseHandler(expenseSvc)
	dashboardHandler := handler.NewDashboardHandler(engine, logger)
	authHandler := handler.NewAuthHandler(userSvc)
	reportHandler := handler.NewReportHandler(invoiceSvc, expenseSvc, logger)

	api := r.Group("/api/v1")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.Auth(jwtSecret))

	protected.GET("/users/me", authHandler.Me)

	invoices := protected.Group("/invoices")
	{
		invoices.POST("", invoiceHandler.Create)
		invoices.GET("", invoiceHandler.List)
		invoices.POST("/backfill-paid-at", invoiceHandler.BackfillPaidAt)
		invoices.GET("/:id", invoiceHandler.Get)
		invoices.PUT("/:id", invoiceHandler.Update)
		invoices.DELETE("/:id", invoiceHandler.Delete)
		invoices.POST("/:id/payment-link", invoiceHandler.RequestPaymentLink)
	}

	expenses := protected.Group("/expenses")
	{
		expenses.POST("", expenseHandler.Create)
		expenses.GET("", expenseHandler.List)
		expenses.GET("/:id", expenseHandler.Get)
		expenses.PUT("/:id", expenseHandler.Update)
		expenses.DELETE("/:id", expenseHandler.Delete)
	}

	protected.GET("/dashboard", dashboardHandler.GetAnalytics)
	protected.GET("/reports/export", reportHandler.Export)
}
