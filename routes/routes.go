package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/serac-labs/seracpay/config"
	"github.com/serac-labs/seracpay/controllers"
	"github.com/serac-labs/seracpay/flutterwave"
	"github.com/serac-labs/seracpay/middleware"
	"github.com/serac-labs/seracpay/payments"
	"github.com/serac-labs/seracpay/repository"
	"github.com/serac-labs/seracpay/utils"
	"gorm.io/gorm"
)

// SetupRouter wires stores, engine, provider client, and controllers into
// the Gin router with all routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()

	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	// Wrong-method requests on a known path answer 405 instead of 404.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		utils.MethodNotAllowed(c, "Method not allowed")
	})

	orders := repository.NewGormOrderStore(db)
	quotes := repository.NewGormQuoteStore(db)
	engine := payments.NewEngine(orders, quotes)
	verifier := flutterwave.NewClient(cfg.FlwSecretKey, cfg.FlwAPIURL, cfg.VerifyTimeout)

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	webhookController := &controllers.WebhookController{
		Engine:       engine,
		Secret:       cfg.FlwWebhookSecret,
		DefaultBrand: cfg.DefaultBrand,
	}
	verifyController := &controllers.VerifyController{
		Engine:       engine,
		Verifier:     verifier,
		SecretKey:    cfg.FlwSecretKey,
		DefaultBrand: cfg.DefaultBrand,
		Timeout:      cfg.VerifyTimeout,
	}
	orderController := &controllers.OrderController{
		Orders:       orders,
		DefaultBrand: cfg.DefaultBrand,
	}

	api := router.Group("/api")
	{
		pay := api.Group("/payments")
		{
			pay.POST("/webhook", webhookController.HandleWebhook)
			pay.POST("/verify",
				middleware.RateLimitMiddleware(rdb, 30, time.Minute),
				verifyController.VerifyPayment)
		}

		ordersGroup := api.Group("/orders")
		{
			ordersGroup.GET("/track", orderController.TrackOrder)
			ordersGroup.POST("/track", orderController.TrackOrder)
			ordersGroup.GET("/receipt", orderController.DownloadReceipt)
		}

		api.POST("/notifications/tracking-email", controllers.SendTrackingEmail)

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware())
		{
			admin.GET("/orders/export", orderController.ExportOrders)
		}
	}

	return router
}
