package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"hive-economy.backend/internal/interfaces/http/handlers"
	"hive-economy.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	economyHandler     *handlers.EconomyHandler
	jackpotHandler     *handlers.JackpotHandler
	marketplaceHandler *handlers.MarketplaceHandler
	walletHandler      *handlers.WalletHandler
	authMiddleware     gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Economy routes (protected)
		economy := v1.Group("/economy")
		economy.Use(d.authMiddleware)
		{
			economy.POST("/accounts", d.economyHandler.CreateAccount)
			economy.GET("/balance", d.economyHandler.GetBalance)
			economy.GET("/fees", d.economyHandler.GetFeePreview)
			economy.POST("/transfers", d.economyHandler.Transfer)
			economy.GET("/history", d.economyHandler.GetHistory)
			economy.GET("/gifts/catalog", d.economyHandler.GiftCatalog)
			economy.POST("/gifts", d.economyHandler.SendGift)
		}

		// Jackpot routes (public status, admin control)
		jackpot := v1.Group("/jackpot")
		{
			jackpot.GET("/status", d.jackpotHandler.GetStatus)
			jackpot.GET("/pools/:id/verify", d.jackpotHandler.VerifyDraw)
		}
		jackpotAdmin := v1.Group("/jackpot")
		jackpotAdmin.Use(d.authMiddleware, middleware.RequireRole("admin"))
		{
			jackpotAdmin.POST("/pools", d.jackpotHandler.CreatePool)
			jackpotAdmin.POST("/pools/:id/cancel", d.jackpotHandler.CancelPool)
			jackpotAdmin.POST("/pools/:id/draw", d.jackpotHandler.Draw)
		}

		// Marketplace routes (protected, public browse)
		v1.GET("/marketplace/listings", d.marketplaceHandler.Browse)
		marketplace := v1.Group("/marketplace")
		marketplace.Use(d.authMiddleware)
		{
			marketplace.POST("/assets", d.marketplaceHandler.RegisterAsset)
			marketplace.GET("/assets", d.marketplaceHandler.MyAssets)
			marketplace.POST("/listings", d.marketplaceHandler.CreateListing)
			marketplace.POST("/listings/:id/purchase", d.marketplaceHandler.Purchase)
			marketplace.POST("/listings/:id/cancel", d.marketplaceHandler.CancelListing)
			marketplace.GET("/trades", d.marketplaceHandler.MyTrades)
		}

		// Wallet routes (protected)
		wallets := v1.Group("/wallets")
		wallets.Use(d.authMiddleware)
		{
			wallets.POST("", d.walletHandler.CreateWallet)
			wallets.GET("/me", d.walletHandler.GetWallet)
			wallets.GET("/me/balance", d.walletHandler.GetBalance)
			wallets.POST("/me/export", d.walletHandler.ExportPrivateKey)
		}

		// Admin routes (protected)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireRole("admin"))
		{
			admin.POST("/entries/:id/reverse", d.economyHandler.ReverseEntry)
		}
	}
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
