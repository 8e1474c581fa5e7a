package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/logging"
	"storefront/internal/metrics"
	"storefront/internal/repositories"
	"storefront/internal/server"
	"storefront/internal/services"
	"storefront/pkg/oauth"
	"storefront/pkg/rabbitmq"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/redis/go-redis/v9"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	slog.SetDefault(logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format))

	m := metrics.New()
	// Released in reverse order after the HTTP server has drained.
	var closers []closer

	// --- Product store ---
	var (
		productRepo repositories.ProductRepository
		pingDB      handlers.PingFunc
	)
	if cfg.Database.Driver == "memory" {
		slog.Warn("using in-memory product store; data is lost on restart")
		productRepo = repositories.NewMemoryProductRepository()
	} else {
		db, err := database.Open(cfg.Database)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		productRepo = repositories.NewGORMProductRepository(db)
		pingDB = func(ctx context.Context) error { return database.Ping(ctx, db) }
		closers = append(closers, closer{"database", func() error { return database.Close(db) }})
	}

	// --- OAuth state store ---
	var states repositories.OAuthStateRepository = repositories.NewMemoryOAuthStateRepository()
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err != nil {
			slog.Error("failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
			os.Exit(1)
		}
		states = repositories.NewRedisOAuthStateRepository(client)
		closers = append(closers, closer{"redis", client.Close})
		slog.Info("oauth state stored in redis", "addr", cfg.Redis.Addr)
	}

	// --- Product events ---
	var publisher services.EventPublisher
	if cfg.RabbitMQ.Enabled {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue})
		if err != nil {
			slog.Error("failed to initialize RabbitMQ client", "error", err)
			os.Exit(1)
		}
		if err := mqClient.ConsumeProductEvents(rabbitmq.LogProductEvent); err != nil {
			slog.Error("failed to start RabbitMQ consumer", "error", err)
		}
		publisher = mqClient
		closers = append(closers, closer{"rabbitmq", mqClient.Close})
	}

	// --- Services ---
	productService := services.NewProductService(productRepo, publisher, m)
	authService := services.NewAuthService(buildProviders(cfg.OAuth), states, services.AuthConfig{
		JWTSecret: cfg.JWT.Secret,
		TokenTTL:  cfg.JWT.TTL,
		StateTTL:  cfg.OAuth.StateTTL,
	}, m)
	if len(authService.Providers()) == 0 {
		slog.Warn("no oauth providers configured; social login is disabled")
	}

	// --- HTTP server ---
	app := server.New(server.Options{
		ProductService:   productService,
		AuthService:      authService,
		Metrics:          m,
		PingDB:           pingDB,
		FrontendURL:      cfg.FrontendURL,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})

	go func() {
		addr := ":" + cfg.AppPort
		slog.Info("starting server", "addr", addr, "providers", authService.Providers())
		if err := app.Listen(addr); err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	wait := gfshutdown.GracefulShutdown(context.Background(), cfg.ShutdownTimeout, map[string]gfshutdown.Operation{
		"storefront": func(ctx context.Context) error {
			slog.Info("shutting down server")
			errs := []error{app.ShutdownWithContext(ctx)}
			for i := len(closers) - 1; i >= 0; i-- {
				if err := closers[i].close(); err != nil {
					errs = append(errs, fmt.Errorf("close %s: %w", closers[i].name, err))
				}
			}
			return errors.Join(errs...)
		},
	})
	exitCode := <-wait
	slog.Info("server stopped", "exit_code", exitCode)
	os.Exit(exitCode)
}

// buildProviders registers every provider that has a client id.
func buildProviders(cfg config.OAuthConfig) oauth.Registry {
	var providers []oauth.Provider
	if cfg.Naver.Enabled() {
		providers = append(providers, oauth.NewNaver(oauth.Config{
			ClientID:     cfg.Naver.ClientID,
			ClientSecret: cfg.Naver.ClientSecret,
			RedirectURL:  cfg.Naver.CallbackURL,
		}))
	}
	if cfg.Kakao.Enabled() {
		providers = append(providers, oauth.NewKakao(oauth.Config{
			ClientID:     cfg.Kakao.ClientID,
			ClientSecret: cfg.Kakao.ClientSecret,
			RedirectURL:  cfg.Kakao.CallbackURL,
		}))
	}
	return oauth.NewRegistry(providers...)
}

type closer struct {
	name  string
	close func() error
}
