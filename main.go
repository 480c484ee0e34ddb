package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkout-service/config"
	"checkout-service/controllers"
	"checkout-service/database"
	"checkout-service/logger"
	"checkout-service/repository"
	"checkout-service/routes"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	aws_pkg "checkout-service/pkg/aws"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	var (
		cartStore repository.CartStore
		ledger    repository.PurchaseLedger
	)

	switch cfg.StorageBackend {
	case "dynamo":
		awsConf, err := aws_pkg.LoadAWSConfig(context.Background())
		if err != nil {
			zlog.Fatal("failed to load AWS config", zap.Error(err))
		}
		client := database.NewDynamoClient(awsConf)
		cartStore = repository.NewDynamoCartStore(client, cfg.DynamoCartTable)
		ledger = repository.NewDynamoPurchaseLedger(client, cfg.DynamoPurchaseTable)
		zlog.Info("using DynamoDB storage backend",
			zap.String("cart_table", cfg.DynamoCartTable),
			zap.String("purchase_table", cfg.DynamoPurchaseTable))
	default:
		mongoClient, db, err := database.ConnectMongo(cfg.MongoURL, cfg.MongoDB)
		if err != nil {
			zlog.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			if err := database.DisconnectMongo(mongoClient); err != nil {
				zlog.Warn("mongo disconnect failed", zap.Error(err))
			}
		}()
		cartStore = repository.NewMongoCartStore(mongoClient, db)
		ledger = repository.NewMongoPurchaseLedger(mongoClient, db)
		zlog.Info("using MongoDB storage backend", zap.String("database", cfg.MongoDB))
	}

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		zlog.Fatal("failed to connect to Redis", zap.Error(err))
	}
	locks := services.NewRedisUserLock(redisClient, cfg.CheckoutLockTTL)

	var publisher aws_pkg.SNSPublisher
	if cfg.PurchaseSNSTopicARN != "" {
		awsConf, err := aws_pkg.LoadAWSConfig(context.Background())
		if err != nil {
			zlog.Fatal("failed to load AWS config", zap.Error(err))
		}
		publisher = aws_pkg.NewSNSClient(awsConf)
	}

	checkout := services.NewCheckoutService(
		cartStore,
		ledger,
		locks,
		publisher,
		cfg.PurchaseSNSTopicARN,
		cfg.StoreTimeout,
		zlog,
	)
	catalog := services.NewCatalogClient(cfg.CatalogServiceURL)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger(zlog))

	routes.Register(
		router,
		controllers.NewPaymentController(checkout, zlog),
		controllers.NewCartController(cartStore, catalog, zlog),
		controllers.NewPurchaseController(ledger, zlog),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zlog.Info("checkout service running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zlog.Info("shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("shutdown error", zap.Error(err))
	}
	zlog.Info("server shutdown complete")
}
