package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	awspkg "github.com/abrekoglu/lignovia-store-sub001/aws"
	"github.com/abrekoglu/lignovia-store-sub001/controllers"
	"github.com/abrekoglu/lignovia-store-sub001/database"
	kafkax "github.com/abrekoglu/lignovia-store-sub001/kafka"
	"github.com/abrekoglu/lignovia-store-sub001/logger"
	"github.com/abrekoglu/lignovia-store-sub001/middleware"
	"github.com/abrekoglu/lignovia-store-sub001/repository"
	"github.com/abrekoglu/lignovia-store-sub001/routes"
	"github.com/abrekoglu/lignovia-store-sub001/services"
)

func main() {
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		panic("config load failed: " + err.Error())
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	ctx := context.Background()

	// --- Storage ---
	mongoClient, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Log.Fatal("MongoDB connect failed", zap.Error(err))
	}
	defer database.DisconnectMongo(mongoClient)

	var ledger repository.StockLedger
	switch cfg.StockBackend {
	case "dynamo":
		ddbClient, err := database.NewDynamoDBClient(ctx)
		if err != nil {
			logger.Log.Fatal("DynamoDB client init failed", zap.Error(err))
		}
		ledger = repository.NewDynamoStockLedger(ddbClient, cfg.DDBTable)
	default:
		ledger = repository.NewMongoStockLedger(db)
	}

	// --- Observability ---
	metricsClient, err := awspkg.NewMetricsClient(ctx)
	if err != nil {
		logger.Log.Warn("CloudWatch metrics client init failed (non-fatal)", zap.Error(err))
		metricsClient = nil
	}

	// --- Event publishing ---
	var producer kafkax.ProducerAPI
	if len(cfg.KafkaBrokers) > 0 {
		p := kafkax.NewProducer(cfg.KafkaBrokers, cfg.OrderTopic)
		defer p.Close()
		producer = p
	}

	var snsClient awspkg.SNSPublisher
	if cfg.SNSTopicArn != "" {
		awsCfg, err := awspkg.LoadAWSConfig(ctx)
		if err != nil {
			logger.Log.Warn("AWS config load failed, SNS disabled (non-fatal)", zap.Error(err))
		} else {
			snsClient = awspkg.NewSNSClient(awsCfg)
		}
	}

	// --- Service wiring ---
	orderRepo := repository.NewMongoOrderRepository(db)
	coordinator := services.NewReservationCoordinator(ledger, metricsClient)
	checkoutService := services.NewCheckoutService(
		coordinator, orderRepo, producer, snsClient, cfg.SNSTopicArn, metricsClient, cfg.CheckoutTTL)
	inventoryService := services.NewInventoryService(ledger, metricsClient)

	checkoutController := controllers.NewCheckoutController(checkoutService)
	inventoryController := controllers.NewInventoryController(inventoryService)

	// --- HTTP router ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())

	r.Use(middleware.HTTPMetrics(metricsClient, "checkout-service"))

	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.RegisterRoutes(r, checkoutController, inventoryController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		logger.Log.Info("Checkout Service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Checkout Service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Checkout Service stopped gracefully")
}
