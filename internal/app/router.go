package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"duomate/internal/handler"
	"duomate/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RideHandler    *handler.RideHandler
	BookingHandler *handler.BookingHandler
	OrderHandler   *handler.OrderHandler
	CoinHandler    *handler.CoinHandler
	SyncHandler    *handler.SyncHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check and metrics.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Ride routes.
		rides := v1.Group("/rides")
		{
			rides.POST("", deps.RideHandler.PostRide)
			rides.GET("", deps.RideHandler.ListActive)
			rides.GET("/mine", deps.RideHandler.ListMine)
			rides.POST("/:id/cancel", deps.RideHandler.Cancel)
			rides.POST("/:id/complete", deps.RideHandler.Complete)
		}

		// Booking routes.
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", deps.BookingHandler.Submit)
			bookings.GET("/requests", deps.BookingHandler.ListPending)
			bookings.GET("/mine", deps.BookingHandler.ListMine)
			bookings.POST("/:id/accept", deps.BookingHandler.Accept)
			bookings.POST("/:id/reject", deps.BookingHandler.Reject)
			bookings.POST("/:id/cancel", deps.BookingHandler.Cancel)
			bookings.POST("/:id/complete", deps.BookingHandler.Complete)
		}

		// Order routes.
		orders := v1.Group("/orders")
		{
			orders.POST("", deps.OrderHandler.Place)
			orders.GET("", deps.OrderHandler.ListPending)
			orders.GET("/mine", deps.OrderHandler.ListMine)
			orders.GET("/deliveries", deps.OrderHandler.ListDeliveries)
			orders.POST("/:id/accept", deps.OrderHandler.Accept)
			orders.POST("/:id/deliver", deps.OrderHandler.Deliver)
		}

		// Coin routes.
		coins := v1.Group("/coins")
		{
			coins.GET("", deps.CoinHandler.Summary)
			coins.GET("/history", deps.CoinHandler.History)
		}

		// Voucher routes.
		vouchers := v1.Group("/vouchers")
		{
			vouchers.GET("", deps.CoinHandler.ListVouchers)
			vouchers.POST("/:id/redeem", deps.CoinHandler.RedeemVoucher)
		}

		// Change feed.
		v1.GET("/sync/ws", deps.SyncHandler.Subscribe)

		// Admin routes.
		v1.POST("/admin/reset-rides", deps.RideHandler.ResetRideData)
	}

	return router
}
