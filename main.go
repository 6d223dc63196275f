package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdamWiercioch95/Boardgame-Shop/cache"
	apperrors "github.com/AdamWiercioch95/Boardgame-Shop/common/errors"
	applogger "github.com/AdamWiercioch95/Boardgame-Shop/common/logger"
	commonmw "github.com/AdamWiercioch95/Boardgame-Shop/common/middleware"
	"github.com/AdamWiercioch95/Boardgame-Shop/controllers"
	"github.com/AdamWiercioch95/Boardgame-Shop/database"
	"github.com/AdamWiercioch95/Boardgame-Shop/kafka"
	"github.com/AdamWiercioch95/Boardgame-Shop/middleware"
	awspkg "github.com/AdamWiercioch95/Boardgame-Shop/pkg/aws"
	"github.com/AdamWiercioch95/Boardgame-Shop/repository"
	"github.com/AdamWiercioch95/Boardgame-Shop/routes"
	"github.com/AdamWiercioch95/Boardgame-Shop/services"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := applogger.Initialize(cfg.Env)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// --- AWS setup ---
	var awsCfg sdkaws.Config
	awsReady := false
	if cfg.AWSUseSecrets || cfg.CloudWatchEnabled || cfg.OrderTopicARN != "" {
		awsCfg, err = awspkg.LoadAWSConfig(ctx, cfg.AWS)
		if err != nil {
			if cfg.AWSUseSecrets {
				logger.Fatal("Failed to load AWS config", zap.Error(err))
			}
			logger.Warn("AWS config unavailable, AWS integrations disabled (non-fatal)", zap.Error(err))
		} else {
			awsReady = true
		}
	}

	if cfg.AWSUseSecrets {
		if err := applyDBSecrets(ctx, cfg, awspkg.NewSecretsClient(awsCfg)); err != nil {
			logger.Fatal("Failed to load database secrets", zap.Error(err))
		}
	}

	if awsReady && cfg.CloudWatchEnabled && cfg.CloudWatchLogGroup != "" {
		cwLogs, err := awspkg.NewCloudWatchLogsClient(ctx, awsCfg, cfg.CloudWatchLogGroup, cfg.ServiceName)
		if err != nil {
			logger.Warn("CloudWatch Logs init failed (non-fatal)", zap.Error(err))
		} else if teed, err := applogger.InitializeWithWriter(cfg.Env, cwLogs); err == nil {
			logger = teed
		}
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Config invalid", zap.Error(err))
	}

	// --- Database ---
	db, err := database.ConnectPostgres(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}

	// --- Catalog cache (optional) ---
	var detailCache cache.BoardgameCache
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, catalog cache disabled (non-fatal)", zap.Error(err))
		} else {
			detailCache = cache.NewRedisBoardgameCache(redisClient, cfg.CacheTTL)
		}
	}

	// --- CloudWatch metrics (optional) ---
	var metrics awspkg.MetricsRecorder
	if awsReady && cfg.CloudWatchEnabled {
		metrics = awspkg.NewMetricsClient(awsCfg, cfg.CloudWatchNamespace, true)
	}

	// --- Order events ---
	var publishers services.MultiPublisher
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		publishers = append(publishers, producer)
	}
	if awsReady && cfg.OrderTopicARN != "" {
		publishers = append(publishers, services.NewSNSOrderPublisher(awspkg.NewSNSClient(awsCfg, logger), cfg.OrderTopicARN))
	}
	var events services.OrderEventPublisher
	if len(publishers) > 0 {
		events = publishers
	}

	// --- Dependency injection ---
	boardgameRepo := repository.NewGormBoardgameRepository(db)
	categoryRepo := repository.NewGormCategoryRepository(db)
	publisherRepo := repository.NewGormPublisherRepository(db)
	cartRepo := repository.NewGormCartRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)

	catalogService := services.NewCatalogService(boardgameRepo, categoryRepo, publisherRepo, reviewRepo, detailCache, metrics, logger)
	cartService := services.NewCartService(cartRepo, boardgameRepo, logger)
	orderService := services.NewOrderService(cartRepo, orderRepo, events, metrics, logger)
	reviewService := services.NewReviewService(reviewRepo, boardgameRepo, detailCache, metrics, logger)

	validator := controllers.NewRequestValidator()
	handlers := routes.Controllers{
		Catalog: controllers.NewCatalogController(catalogService, validator),
		Reviews: controllers.NewReviewController(reviewService, validator),
		Cart:    controllers.NewCartController(cartService, orderService, validator, logger),
		Orders:  controllers.NewOrderController(orderService, validator),
	}

	// --- HTTP router ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		applogger.RequestID(),
		commonmw.RequestLogger(logger),
		commonmw.SecurityHeaders(),
		commonmw.CORSMiddleware(cfg.CORSAllowedOrigins),
		commonmw.RateLimitMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst),
		commonmw.Timeout(30*time.Second),
		commonmw.MetricsMiddleware(metrics, cfg.ServiceName),
		apperrors.ErrorMiddleware(),
	)

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN", "service": cfg.ServiceName})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": cfg.ServiceName})
	})

	routes.RegisterRoutes(r, handlers, middleware.NewAuthenticator(cfg.JWTSecret, cfg.TrustGatewayHeaders))

	// --- HTTP server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Boardgame shop started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("Kafka producer close error", zap.Error(err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}
	if err := database.Close(db); err != nil {
		logger.Error("Database close error", zap.Error(err))
	}

	logger.Info("Boardgame shop stopped gracefully")
}
