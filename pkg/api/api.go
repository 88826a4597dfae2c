package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhijeet-0165/ridefusion/pkg/logger"
	"github.com/abhijeet-0165/ridefusion/service"
)

type handler struct {
	svc service.IServiceManager
	log logger.ILogger
}

// NewRouter builds the HTTP surface over the service layer.
func NewRouter(svc service.IServiceManager, log logger.ILogger) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Logger(log), gin.Recovery())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+userHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	h := &handler{svc: svc, log: log}

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := api.Group("/auth")
		auth.POST("/signup", h.signup)
		auth.POST("/login", h.login)

		api.GET("/rides", h.searchRides)

		user := api.Group("", RequireUser())
		{
			user.POST("/rides", h.publishRide)
			user.GET("/rides/mine", h.driverRides)
			user.DELETE("/rides/:id", h.deleteRide)
			user.POST("/rides/:id/book", h.book)

			user.GET("/bookings", h.bookings)
			user.POST("/bookings/:id/cancel", h.cancel)

			user.GET("/wallet", h.wallet)
			user.POST("/wallet/topup", h.topUp)

			user.GET("/passes", h.passes)
			user.GET("/passes/catalog", h.passCatalog)
			user.POST("/passes/:optionId/purchase", h.purchasePass)

			user.GET("/dashboard", h.dashboard)
		}
	}

	return r
}
