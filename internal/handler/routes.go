package handler

import (
	"github.com/dgvaldes/rutero/rutero-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, authHandler *AuthHandler, profileHandler *ProfileHandler, fixedExpenseHandler *FixedExpenseHandler, monthlyExpenseHandler *MonthlyExpenseHandler, billingHandler *BillingHandler, settlementHandler *SettlementHandler, savingsHandler *SavingsHandler, reminderHandler *ReminderHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (protected)
	auth := api.Group("/auth")
	auth.Use(authMiddleware.Authenticate())
	auth.POST("/callback", authHandler.Callback)
	auth.GET("/me", authHandler.Me)
	auth.POST("/logout", authHandler.Logout)

	// Profile routes (protected)
	profile := api.Group("/profile")
	profile.Use(authMiddleware.Authenticate())
	profile.GET("", profileHandler.GetProfile)
	profile.PUT("", profileHandler.UpdateProfile)

	// Fixed expense routes (protected)
	fixedExpenses := api.Group("/fixed-expenses")
	fixedExpenses.Use(authMiddleware.Authenticate())
	fixedExpenses.POST("", fixedExpenseHandler.Create)
	fixedExpenses.GET("", fixedExpenseHandler.List)
	fixedExpenses.PUT("/:id", fixedExpenseHandler.Update)
	fixedExpenses.DELETE("/:id", fixedExpenseHandler.Delete)

	// Monthly expense routes (protected)
	monthlyExpenses := api.Group("/monthly-expenses")
	monthlyExpenses.Use(authMiddleware.Authenticate())
	monthlyExpenses.GET("/:year/:month", monthlyExpenseHandler.GetMonth)
	monthlyExpenses.PATCH("/entries/:id/toggle-paid", monthlyExpenseHandler.TogglePaid)

	// Billing routes (protected)
	billing := api.Group("/billing")
	billing.Use(authMiddleware.Authenticate())
	billing.PUT("", billingHandler.Save)
	billing.GET("/:year/:month", billingHandler.ListMonth)
	billing.GET("/:year/:month/stats", billingHandler.GetMonthStats)
	billing.DELETE("/entries/:id", billingHandler.Delete)

	// Settlement routes (protected)
	settlements := api.Group("/settlements")
	settlements.Use(authMiddleware.Authenticate())
	settlements.GET("/:year/:month", settlementHandler.GetSummary)
	settlements.POST("/:year/:month/commit", settlementHandler.Commit)

	// Savings routes (protected)
	savings := api.Group("/savings")
	savings.Use(authMiddleware.Authenticate())
	savings.GET("/total", savingsHandler.GetTotal)
	savings.GET("/movements/:year/:month", savingsHandler.GetMonthlyMovements)
	savings.POST("/movements", savingsHandler.AddMovement)

	// Reminder routes (protected)
	reminders := api.Group("/reminders")
	reminders.Use(authMiddleware.Authenticate())
	reminders.GET("/today", reminderHandler.GetToday)
}
