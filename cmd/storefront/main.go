package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"golang.org/x/time/rate"

	"github.com/example/garment-storefront/config"
	"github.com/example/garment-storefront/internal/api"
	"github.com/example/garment-storefront/internal/api/middleware"
	"github.com/example/garment-storefront/internal/auth"
	"github.com/example/garment-storefront/internal/cart"
	"github.com/example/garment-storefront/internal/catalog"
	"github.com/example/garment-storefront/internal/checkout"
	"github.com/example/garment-storefront/internal/identity"
	"github.com/example/garment-storefront/internal/localstore"
	"github.com/example/garment-storefront/internal/telemetry"
	"github.com/example/garment-storefront/pkg/cache"
	"github.com/example/garment-storefront/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	logger.Init(cfg.Env, cfg.LogLevel)
	logger.ServiceStart("storefront", cfg.Port)

	storage, cleanup := buildStorage(ctx, cfg)
	defer cleanup()

	cartStore := cart.NewStore(ctx, storage)

	if cfg.TelemetryEnabled {
		publisher := telemetry.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.ProfileKey)
		defer publisher.Close()
		unsubscribe := cartStore.Subscribe(publisher.Listener())
		defer unsubscribe()
		logger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("cart telemetry enabled")
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)

	var provider identity.Provider
	switch cfg.IdentityMode {
	case "remote":
		provider = identity.NewHTTPProvider(cfg.IdentityURL)
	default:
		local := identity.NewLocalProvider(jwtService)
		seedLocalUsers(local)
		provider = local
	}

	productCache := cache.NewMemory(cfg.ProductCacheTTL, 2*cfg.ProductCacheTTL)
	handlers := api.NewHandlers(
		cartStore,
		catalog.NewClient(cfg.CatalogAPIURL, productCache, cfg.ProductCacheTTL),
		checkout.NewClient(cfg.OrderAPIURL),
	)

	rateLimiter := middleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	defer rateLimiter.Shutdown()

	router := api.NewRouter(api.RouterConfig{
		Handlers:     handlers,
		AuthHandlers: api.NewAuthHandlers(provider),
		JWTService:   jwtService,
		RateLimiter:  rateLimiter,
		WebDir:       cfg.WebDir,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info().Msg("shutdown signal received")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown failed")
	}
	logger.ServiceStop("storefront")
}

// buildStorage selects the cart persistence backend. The returned
// cleanup closes whatever connection the backend holds.
func buildStorage(ctx context.Context, cfg *config.Config) (localstore.Storage, func()) {
	noop := func() {}

	switch cfg.StorageBackend {
	case "memory":
		return localstore.NewMemory(), noop

	case "postgres":
		db, err := localstore.ConnectPostgres(cfg.PostgresDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connection failed")
		}
		storage, err := localstore.NewPostgres(db, cfg.ProfileKey)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres cart storage init failed")
		}
		return storage, func() { db.Close() }

	case "dynamo":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("aws config load failed")
		}
		return localstore.NewDynamo(dynamodb.NewFromConfig(awsCfg), cfg.DynamoTable, cfg.ProfileKey), noop

	default:
		storage, err := localstore.NewFile(cfg.StorageDir, cfg.ProfileKey)
		if err != nil {
			logger.Fatal().Err(err).Msg("file cart storage init failed")
		}
		return storage, noop
	}
}

// seedLocalUsers gives the local identity stub a usable account per
// role for development.
func seedLocalUsers(local *identity.LocalProvider) {
	seeds := []struct {
		email, password, name string
		role                  auth.Role
	}{
		{"buyer@example.com", "buyer12345", "Demo Buyer", auth.RoleBuyer},
		{"manager@example.com", "manager12345", "Demo Manager", auth.RoleManager},
		{"admin@example.com", "admin12345", "Demo Admin", auth.RoleAdmin},
	}
	for _, s := range seeds {
		if err := local.Seed(s.email, s.password, s.name, s.role); err != nil {
			logger.Warn().Err(err).Str("email", s.email).Msg("seed user failed")
		}
	}
}
