package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dbs-store/internal/auth"
	"dbs-store/internal/cart"
	"dbs-store/internal/config"
	"dbs-store/internal/db"
	"dbs-store/internal/email"
	"dbs-store/internal/httpapi"
	"dbs-store/internal/logger"
	"dbs-store/internal/metrics"
	"dbs-store/internal/middleware"
	"dbs-store/internal/order"
	"dbs-store/internal/product"
	"dbs-store/internal/user"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// overridable in tests
var (
	initDBFunc = db.NewDatabase
	serveFunc  = serve
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := initDBFunc(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	storage, closeStorage, err := newCartStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	limiter := middleware.NewRateLimiter()
	go limiter.Cleanup(ctx.Done())

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           newServer(cfg, database, storage, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("🚀 DBS Store API listening",
		zap.String("addr", srv.Addr),
		zap.String("env", cfg.AppEnv),
	)
	return serveFunc(ctx, srv)
}

// newCartStorage uses Redis when REDIS_ADDR is set and process memory otherwise.
func newCartStorage(ctx context.Context, cfg *config.Config) (cart.Storage, func(), error) {
	if cfg.RedisAddr == "" {
		logger.L().Warn("REDIS_ADDR not set, carts are kept in memory")
		return cart.NewMemoryStorage(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return cart.NewRedisStorage(client, cart.DefaultTTL), func() { _ = client.Close() }, nil
}

// newServer wires repositories, services and the HTTP router.
func newServer(cfg *config.Config, database *sql.DB, storage cart.Storage, limiter *middleware.RateLimiter) http.Handler {
	validate := validator.New()

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	cartSvc := cart.NewService(storage, productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, productRepo, validate)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo, auth.MaskEmail)

	if cfg.ResendAPIKey == "" {
		logger.L().Warn("RESEND_API_KEY not set, OTP emails will fail")
	}
	mailer := email.NewResendClient(cfg.ResendAPIKey, cfg.ResendBaseURL, cfg.ResendFromEmail)

	authSvc := auth.NewService(auth.Deps{
		Users:         userRepo,
		Sessions:      auth.NewSessionRepository(database),
		Verifications: auth.NewVerificationRepository(database),
		Organizations: auth.NewOrganizationRepository(database),
		Tokens:        auth.NewTokenIssuer(cfg.SessionSecret),
		Mailer:        mailer,
		Validate:      validate,
		Social: auth.NewSocialProviders(cfg.BaseURL,
			auth.ProviderCredentials{ClientID: cfg.GoogleClientID, ClientSecret: cfg.GoogleClientSecret},
			auth.ProviderCredentials{ClientID: cfg.FacebookClientID, ClientSecret: cfg.FacebookClientSecret},
			auth.ProviderCredentials{ClientID: cfg.AppleClientID, ClientSecret: cfg.AppleClientSecret},
		),
		SessionTTL: cfg.SessionTTL,
	})

	return httpapi.NewRouter(httpapi.Deps{
		Products:       productSvc,
		Cart:           cartSvc,
		Orders:         orderSvc,
		Auth:           authSvc,
		Users:          userSvc,
		Limiter:        limiter,
		FrontendOrigin: cfg.FrontendOrigin,
		TrustedProxies: cfg.TrustedProxies,
		SecureCookies:  cfg.SecureCookies,
		SessionTTL:     cfg.SessionTTL,
	})
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
