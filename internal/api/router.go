package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/banking-account-core/internal/api/handler"
	"github.com/banking-account-core/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	transactionHandler *handler.TransactionHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Account lifecycle and queries
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.GET("", accountHandler.List)
			accounts.GET("/:number", accountHandler.GetByNumber)
			accounts.POST("/:number/close", accountHandler.Close)
			accounts.POST("/:number/reopen", accountHandler.Reopen)
			accounts.PUT("/:number/interest-rate", accountHandler.SetInterestRate)

			// Money movement and the ledger
			accounts.POST("/:number/deposits", transactionHandler.Deposit)
			accounts.POST("/:number/withdrawals", transactionHandler.Withdraw)
			accounts.POST("/:number/purchases", transactionHandler.Purchase)
			accounts.POST("/:number/payments", transactionHandler.Payment)
			accounts.GET("/:number/transactions", transactionHandler.ListTransactions)
		}

		v1.POST("/transfers", transactionHandler.Transfer)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
