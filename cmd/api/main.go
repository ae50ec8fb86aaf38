package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/99minutos/product-catalog/internal/api"
	"github.com/99minutos/product-catalog/internal/api/handler"
	"github.com/99minutos/product-catalog/internal/core/service"
	"github.com/99minutos/product-catalog/internal/infrastructure/config"
	"github.com/99minutos/product-catalog/internal/infrastructure/db/mongo"
	"github.com/99minutos/product-catalog/internal/infrastructure/db/redis"
	"github.com/99minutos/product-catalog/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "product-catalog",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("service stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("service stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	if cfg.SeedDefaults {
		if err := mongo.SeedDefaults(ctx, db, cfg.StoreTimeout, bcrypt.DefaultCost, log); err != nil {
			return err
		}
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Services ---
	tokens := service.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(
		mongo.NewAccountRepository(db, cfg.StoreTimeout),
		mongo.NewRoleRepository(db, cfg.StoreTimeout),
		tokens,
		log.With().Str("component", "auth").Logger(),
		service.WithLoginLimiter(redis.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Lockout)),
		service.WithRoleAutoCreate(cfg.AutoCreateRoles),
	)
	productService := service.NewProductService(
		mongo.NewProductRepository(db, cfg.StoreTimeout),
		log.With().Str("component", "catalog").Logger(),
	)

	// --- HTTP ---
	router := api.NewRouter(api.Deps{
		Auth:     authService,
		Products: productService,
		Verifier: tokens,
		Checks: map[string]handler.CheckFunc{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
		Log: log,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("starting http server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
