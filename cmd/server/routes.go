package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"carbon-market.backend/internal/interfaces/http/handlers"
	"carbon-market.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler    *handlers.AuthHandler
	ngoHandler     *handlers.NGOHandler
	auditorHandler *handlers.AuditorHandler
	buyerHandler   *handlers.BuyerHandler
	healthHandler  *handlers.HealthHandler
	authMiddleware gin.HandlerFunc
}

func registerAPIRoutes(r *gin.Engine, d routeDeps) {
	r.GET("/health-check", d.healthHandler.Check)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// public
		api.POST("/signup", d.authHandler.Signup)
		api.POST("/login", d.authHandler.Login)

		ngo := api.Group("/NGO")
		ngo.Use(d.authMiddleware, middleware.RequireNGO())
		{
			ngo.GET("/credits", d.ngoHandler.ListCredits)
			ngo.POST("/credits", d.ngoHandler.CreateCredit)
			ngo.PATCH("/credits/expire/:id", d.ngoHandler.ExpireCredit)
			ngo.GET("/transactions", d.ngoHandler.ListTransactions)
			ngo.POST("/expire-req", d.ngoHandler.ExpireRequest)
		}

		auditor := api.Group("/auditor")
		auditor.Use(d.authMiddleware, middleware.RequireAuditor())
		{
			auditor.GET("/credits", d.auditorHandler.ListAssignedCredits)
		}

		buyer := api.Group("/buyer")
		buyer.Use(d.authMiddleware, middleware.RequireBuyer())
		{
			buyer.GET("/credits", d.buyerHandler.ListCredits)
			buyer.GET("/credits/:id", d.buyerHandler.CreditDetail)
			buyer.POST("/purchase", d.buyerHandler.Purchase)
			buyer.PATCH("/sell", d.buyerHandler.Sell)
			buyer.PATCH("/remove-from-sale", d.buyerHandler.RemoveFromSale)
			buyer.GET("/purchased", d.buyerHandler.ListPurchased)
			buyer.GET("/generate-certificate/:id", d.buyerHandler.GenerateCertificate)
			buyer.GET("/download-certificate/:id", d.buyerHandler.DownloadCertificate)
		}
	}
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}
