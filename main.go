package main

import (
	"log"
	"os"

	"linkvault/pkg/password"
	"linkvault/pkg/revocation"
	"linkvault/pkg/token"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	logger  *zap.Logger
	authSvc *authService
)

func main() {
	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	if err := initDB(cfg.DBDSN); err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	// Support a lightweight migrate command: `./linkvault migrate` runs
	// AutoMigrate and role seeding then exits.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		logger.Info("migration and seeding completed")
		return
	}

	codec, err := token.NewCodec(cfg.JWTSecret)
	if err != nil {
		logger.Fatal("token codec init failed", zap.Error(err))
	}

	var store revocation.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		store = revocation.NewRedisStore(client)
		logger.Info("revocation store: redis", zap.String("addr", cfg.RedisAddr))
	} else {
		store = revocation.NewMemoryStore()
		logger.Warn("revocation store: in-memory; revocations do not survive restarts and are not shared across instances")
	}

	authSvc = newAuthService(db, codec, store, password.NewBcryptHasher(), cfg.TokenTTL, logMailer{logger}, cfg.BaseURL)

	r := gin.Default()
	setupRoutes(r, codec, store)

	logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
