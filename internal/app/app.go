package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	nats "github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/tausif4802/ggp-backend/config"
	"github.com/tausif4802/ggp-backend/internal/adapters/cloudinary"
	httpadapter "github.com/tausif4802/ggp-backend/internal/adapters/http"
	apiv1 "github.com/tausif4802/ggp-backend/internal/adapters/http/api/v1"
	handlers "github.com/tausif4802/ggp-backend/internal/adapters/http/api/v1/handlers"
	authmw "github.com/tausif4802/ggp-backend/internal/adapters/http/middleware"
	natsadapter "github.com/tausif4802/ggp-backend/internal/adapters/nats"
	"github.com/tausif4802/ggp-backend/internal/adapters/oauth"
	repo "github.com/tausif4802/ggp-backend/internal/adapters/postgres"
	redisadapter "github.com/tausif4802/ggp-backend/internal/adapters/redis"
	"github.com/tausif4802/ggp-backend/internal/tokenverify"
	"github.com/tausif4802/ggp-backend/internal/usecase"
	pkglog "github.com/tausif4802/ggp-backend/pkg/log"
)

type App struct {
	cfg      *config.Config
	logger   pkglog.Logger
	db       *gorm.DB
	natsConn *nats.Conn
	redis    *goredis.Client
	echo     *echo.Echo
}

func New(ctx context.Context) (*App, error) {
	cfg := config.MustLoad()
	logger := pkglog.New(cfg.AppEnv)

	issuer, err := usecase.NewTokenIssuer(cfg)
	if err != nil {
		return nil, err
	}
	verifier := tokenverify.NewVerifier(issuer, nil)

	db, err := gorm.Open(postgres.Open(buildDSN(cfg)), &gorm.Config{
		Logger:         loggerForGorm(cfg),
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(repo.Models()...); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}

	var cache usecase.CatalogCache
	var rdb *goredis.Client
	if cfg.RedisAddr != "" {
		rdb, err = redisadapter.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, catalog cache disabled")
			rdb = nil
		} else {
			cache = redisadapter.NewCatalogCache(rdb, cfg.CatalogCacheTTL, logger)
		}
	}

	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		logger.Warn().Err(err).Str("url", cfg.NATSURL).Msg("nats connect failed")
		nc = nil
	}

	var publisher natsadapter.IdentityPublisher
	if nc != nil {
		publisher = natsadapter.NewIdentityPublisher(nc, cfg.NATSIdentityCreatedSubject)
		if _, err := natsadapter.NewTokenResponder(verifier).Listen(nc, cfg.NATSVerifySubject, cfg.AppName); err != nil {
			logger.Warn().Err(err).Str("subject", cfg.NATSVerifySubject).Msg("verify subscription failed")
		}
	}

	uploader := cloudinary.NewHTTPClient(cfg.CloudinaryBaseURL, cloudinary.Credentials{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
	}, 30*time.Second)

	var google oauth.Provider
	if cfg.GoogleClientID != "" {
		google = oauth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	authService := usecase.NewAuthService(cfg, logger, repo.NewUserRepository(db), repo.NewClientRepository(db), issuer, usecase.NewBcryptHasher(0), publisher)
	catalogService := usecase.NewCatalogService(logger, repo.NewCategoryRepository(db), repo.NewPackageRepository(db), uploader, cache)

	authMW := authmw.NewAuthMiddleware(verifier)
	api := apiv1.NewRouter(
		handlers.NewAuthHandler(authService, google, cfg.RefreshCookieTTL),
		handlers.NewCatalogHandler(catalogService),
		authMW.Handler,
		cfg.AuthRateLimit,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	e := echo.New()
	httpadapter.NewRouter(cfg, api, registry).Setup(e)

	return &App{cfg: cfg, logger: logger, db: db, natsConn: nc, redis: rdb, echo: e}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.echo.Shutdown(shutdownCtx)
	}()
	go func() {
		addr := fmt.Sprintf("%s:%s", a.cfg.HTTPHost, a.cfg.HTTPPort)
		a.logger.Info().Str("addr", addr).Msg("http server starting")
		errCh <- a.echo.Start(addr)
	}()
	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) Close() {
	if a.natsConn != nil {
		_ = a.natsConn.Drain()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func buildDSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
}

func loggerForGorm(cfg *config.Config) logger.Interface {
	level := logger.Warn
	if cfg.AppEnv == "local" {
		level = logger.Info
	}
	return logger.Default.LogMode(level)
}
