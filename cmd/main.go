package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/suhanachaudhary/harleen-design-backend/internal/config"
	"github.com/suhanachaudhary/harleen-design-backend/internal/handler"
	"github.com/suhanachaudhary/harleen-design-backend/internal/handler/middleware"
	"github.com/suhanachaudhary/harleen-design-backend/internal/migrate"
	"github.com/suhanachaudhary/harleen-design-backend/internal/repository"
	"github.com/suhanachaudhary/harleen-design-backend/internal/repository/postgres"
	"github.com/suhanachaudhary/harleen-design-backend/internal/service"
	"github.com/suhanachaudhary/harleen-design-backend/pkg/hash"
	"github.com/suhanachaudhary/harleen-design-backend/pkg/jwt"
	"github.com/suhanachaudhary/harleen-design-backend/pkg/limiter"
	"github.com/suhanachaudhary/harleen-design-backend/pkg/storage"
	"github.com/suhanachaudhary/harleen-design-backend/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, err := initDB(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("error closing database connection", zap.Error(err))
		}
	}()
	logger.Info("database connection established")

	if err := migrate.Up(ctx, db.DB); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Login rate limiting is optional; without Redis the service runs
	// unthrottled.
	var loginLimiter limiter.Limiter = limiter.Noop{}
	if cfg.Redis.Enabled {
		redisClient, err := initRedis(cfg)
		if err != nil {
			logger.Fatal("failed to initialize Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("error closing Redis connection", zap.Error(err))
			}
		}()
		loginLimiter = limiter.NewRedisLimiter(redisClient, cfg.Auth.MaxFailedLogins, cfg.Auth.LockWindow)
		logger.Info("redis connection established, login rate limiting enabled")
	}

	var files storage.FileStorage
	if cfg.Storage.Enabled {
		files, err = storage.NewS3Storage(ctx, storage.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			Region:    cfg.Storage.Region,
			Bucket:    cfg.Storage.Bucket,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			BaseURL:   cfg.Storage.BaseURL,
		})
		if err != nil {
			logger.Fatal("failed to initialize file storage", zap.Error(err))
		}
		logger.Info("file storage initialized", zap.String("bucket", cfg.Storage.Bucket))
	}

	validate := validator.NewValidator()
	hasher := hash.New(hash.DefaultParams)

	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)

	tokenService, err := jwt.NewTokenService(
		[]byte(cfg.JWT.AccessSecret),
		[]byte(cfg.JWT.RefreshSecret),
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
		cfg.JWT.Issuer,
	)
	if err != nil {
		logger.Fatal("failed to initialize token service", zap.Error(err))
	}

	authService := service.NewAuthService(userRepo, sessionRepo, tokenService, hasher, loginLimiter, logger)
	userService := service.NewUserService(userRepo, sessionRepo, hasher, logger)

	authHandler := handler.NewAuthHandler(authService, files, validate)
	userHandler := handler.NewUserHandler(userService, files, validate)
	healthHandler := handler.NewHealthHandler()

	app := fiber.New(fiber.Config{
		AppName:      "harleen-design-backend",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(middleware.RecoveryMiddleware(logger))
	app.Use(middleware.LoggerMiddleware(logger))
	app.Use(middleware.CORSMiddleware())

	authMiddleware := middleware.AuthMiddleware(tokenService)

	handler.SetupRoutes(app, authHandler, userHandler, healthHandler, authMiddleware)

	// Expired refresh tokens are never rotated out by clients that simply
	// disappear, so a periodic sweep keeps the session table bounded.
	go sweepExpiredSessions(ctx, sessionRepo, cfg.Auth.SweepInterval, logger)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("server starting",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := app.Listen(addr); err != nil {
			logger.Error("server failed to start", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// newLogger builds a JSON logger in production and a development logger
// elsewhere.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Server.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// initDB initializes PostgreSQL database connection with retry logic
func initDB(cfg *config.Config, logger *zap.Logger) (*sqlx.DB, error) {
	dsn := cfg.Database.DSN()

	var db *sqlx.DB
	var err error

	maxRetries := 5
	retryInterval := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			break
		}

		logger.Warn("failed to connect to database",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Error(err),
		)
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Warn("error closing database after ping failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// initRedis initializes Redis client and verifies connection
func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping Redis: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}

// sweepExpiredSessions prunes expired session tokens until ctx is done.
func sweepExpiredSessions(ctx context.Context, sessions repository.SessionRepository, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := sessions.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("failed to sweep expired session tokens", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Info("swept expired session tokens", zap.Int64("removed", removed))
			}
		}
	}
}
