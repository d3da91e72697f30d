// Package app wires the gateway together and owns its lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frostlake/snowgate/internal/config"
	"github.com/frostlake/snowgate/internal/envelope"
	handler "github.com/frostlake/snowgate/internal/handler/http"
	"github.com/frostlake/snowgate/internal/mailer"
	"github.com/frostlake/snowgate/internal/repository/postgres"
	"github.com/frostlake/snowgate/internal/safety"
	"github.com/frostlake/snowgate/internal/service"
	"github.com/frostlake/snowgate/internal/token"
	"github.com/frostlake/snowgate/internal/warehouse"
	"github.com/frostlake/snowgate/migrations"
	"github.com/frostlake/snowgate/pkg/database"
	"github.com/frostlake/snowgate/pkg/health"
)

// App is the assembled gateway process.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	pool      *pgxpool.Pool
	snowflake *warehouse.Snowflake
	server    *http.Server
}

// New builds the gateway: database pool, migrations, warehouse and mail
// collaborators, service, and HTTP server. Nothing is listening yet; call Run.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect user directory: %w", err)
	}

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	database.RegisterPoolMetrics(pool, "snowgate")

	encryptionKey := cfg.EncryptionKey
	if encryptionKey == "" {
		encryptionKey, err = envelope.GenerateKey()
		if err != nil {
			pool.Close()
			return nil, err
		}
		logger.Warn("ENCRYPTION_KEY not set, generated an ephemeral key; " +
			"admin envelopes sealed by this instance cannot be decrypted elsewhere, " +
			"set the key explicitly for multi-instance deployments")
	}

	cipher, err := envelope.NewCipher(encryptionKey)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init token cipher: %w", err)
	}

	snowflake, err := warehouse.NewSnowflake(cfg.Snowflake(), logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init warehouse: %w", err)
	}

	tokens := token.NewManager(cfg.SecretKey, cfg.TokenExpiryDays, cfg.TokenExpiryMinutes)

	svc := service.NewAccessService(service.Deps{
		Users:          postgres.NewUserRepository(pool),
		Tokens:         tokens,
		Cipher:         cipher,
		Gate:           safety.NewKeywordGate(),
		Warehouse:      warehouse.NewBreaker(snowflake, warehouse.DefaultBreakerConfig("snowflake"), logger),
		Mailer:         mailer.NewSMTP(cfg.SMTP()),
		AllowedDomains: cfg.AllowedDomains,
		AdminEmails:    cfg.AdminEmails,
		Company:        cfg.Company,
		Logger:         logger,
	})

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("snowflake", func(ctx context.Context) error {
		return snowflake.Ping(ctx)
	})

	router := handler.NewRouter(svc, tokens, healthHandler, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		cfg:       cfg,
		logger:    logger,
		pool:      pool,
		snowflake: snowflake,
		server:    server,
	}, nil
}

// Run serves HTTP until the context is canceled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("gateway listening",
			slog.String("addr", a.server.Addr),
			slog.String("environment", a.cfg.Environment),
		)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	if err := a.snowflake.Close(); err != nil {
		a.logger.Warn("close warehouse", slog.String("error", err.Error()))
	}
	a.pool.Close()

	a.logger.Info("shutdown complete")
	return nil
}
