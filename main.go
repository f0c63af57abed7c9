package main

import (
	"context"
	"log"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/khadijah/storefront-backend/cache"
	"github.com/khadijah/storefront-backend/models"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	store, err := newCacheBackend(cfg.Cache)
	if err != nil {
		log.Fatal("Failed to connect to cache:", err)
	}

	var mailer Mailer = noopMailer{}
	if cfg.SMTP.Host != "" {
		mailer = NewSMTPMailer(cfg.SMTP)
	}

	auth, err := newAuthMiddleware(cfg.Auth)
	if err != nil {
		log.Fatal("Failed to init auth:", err)
	}

	app := NewApp(db, store, mailer, cfg.Cache.TTL, auth)
	r := SetupRouter(app)
	r.Run(cfg.Server.Addr)
}

func newCacheBackend(cfg CacheConfig) (cache.Cache, error) {
	if cfg.Backend == "redis" {
		return cache.NewRedis(cfg.Addr, cfg.Password, cfg.DB)
	}
	return cache.NewMemory(cfg.TTL), nil
}

func newAuthMiddleware(cfg AuthConfig) (gin.HandlerFunc, error) {
	if cfg.Disabled {
		log.Println("Admin auth is disabled")
		return NoAuth(), nil
	}
	provider, err := oidc.NewProvider(context.Background(), cfg.Issuer)
	if err != nil {
		return nil, err
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})
	return AuthMiddleware(verifier), nil
}
