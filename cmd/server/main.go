// Command server runs the procurement API.
//
// Configuration is read from the environment (and a .env file when present);
// see internal/pkg/config for the variables and their defaults.
//
//	@title                      Procurement API
//	@version                    1.0
//	@description                Authentication, authorization and project access for the construction procurement backend.
//	@BasePath                   /api
//	@securityDefinitions.apikey BearerAuth
//	@in                         header
//	@name                       Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/sync/errgroup"

	"github.com/buildtrack/procurement-api/internal/api"
	"github.com/buildtrack/procurement-api/internal/api/handler"
	"github.com/buildtrack/procurement-api/internal/core/ports"
	"github.com/buildtrack/procurement-api/internal/core/service"
	mongostore "github.com/buildtrack/procurement-api/internal/infrastructure/db/mongo"
	"github.com/buildtrack/procurement-api/internal/infrastructure/db/postgres"
	redisstore "github.com/buildtrack/procurement-api/internal/infrastructure/db/redis"
	"github.com/buildtrack/procurement-api/internal/infrastructure/queue"
	"github.com/buildtrack/procurement-api/internal/infrastructure/token"
	"github.com/buildtrack/procurement-api/internal/pkg/config"
	"github.com/buildtrack/procurement-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

// storage is the repository pair plus lifecycle hooks of the selected driver.
type storage struct {
	users    ports.UserRepository
	projects ports.ProjectRepository
	ping     handler.PingFunc
	close    func(ctx context.Context) error
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWith(ctx, envconfig.OsLookuper())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "procurement-api",
		Env:     cfg.Env,
	})

	store, err := openStorage(ctx, cfg, logger.Component("store"))
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.close(closeCtx); err != nil {
			log.Error().Err(err).Msg("closing store")
		}
	}()

	health := map[string]handler.Pinger{cfg.StoreDriver: store.ping}

	// --- Signing secret (shared through Redis when enabled) ---
	secret := []byte(cfg.Auth.JWTSecret)
	var secrets *redisstore.SecretStore
	if cfg.Redis.Enabled {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		secrets = redisstore.NewSecretStore(rdb, logger.Component("secret_store"))
		if secret, err = secrets.Bootstrap(ctx, secret); err != nil {
			return err
		}
		health["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		})
	}

	codec, err := token.NewCodec(token.Config{
		Secret: secret,
		TTL:    cfg.Auth.JWTExpiresIn,
		Issuer: cfg.Auth.JWTIssuer,
	})
	if err != nil {
		return err
	}

	// The pool outlives ctx so in-flight requests can finish during shutdown.
	poolCtx, stopPool := context.WithCancel(context.Background())
	defer stopPool()
	hasher := queue.NewHashPool(cfg.Auth.HashWorkers, cfg.Auth.BcryptCost, logger.Component("hash_pool"))
	hasher.Start(poolCtx)

	if cfg.SeedDefaultUsers {
		if _, err := service.SeedUsers(ctx, store.users, hasher, service.DefaultSeedUsers, logger.Component("seed")); err != nil {
			return fmt.Errorf("seeding users: %w", err)
		}
	}

	// --- Services ---
	var publisher service.SecretPublisher
	if secrets != nil {
		publisher = secrets
	}
	e := api.NewRouter(api.Deps{
		Log:         logger.Component("http"),
		Production:  cfg.IsProduction(),
		CORSOrigins: cfg.CORSOrigins,
		Auth:       service.NewAuthService(store.users, hasher, codec, logger.Component("auth")),
		Users:      service.NewUserService(store.users, logger.Component("users")),
		Projects:   service.NewProjectService(store.projects),
		Rotator:    service.NewSecretService(codec, publisher, logger.Component("secrets")),
		Verifier:   codec,
		Identities: store.users,
		Ownership:  store.projects,
		Health:     health,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.StoreDriver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if secrets != nil {
		g.Go(func() error {
			return secrets.Watch(gctx, codec.Rotate)
		})
	}

	return g.Wait()
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pg, err := postgres.New(ctx, postgres.Config{
			DSN:            cfg.Postgres.DSN,
			MaxConns:       cfg.Postgres.MaxConns,
			MigrateOnStart: cfg.Postgres.MigrateOnStart,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		return &storage{
			users:    pg.Users(),
			projects: pg.Projects(),
			ping:     pg.Ping,
			close: func(context.Context) error {
				pg.Close()
				return nil
			},
		}, nil
	default:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		repos, err := mongostore.NewRepositories(ctx, client, db)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")
		return &storage{
			users:    repos.Users,
			projects: repos.Projects,
			ping:     repos.Ping,
			close:    repos.Close,
		}, nil
	}
}
