// Package app wires the link shortener together and runs its HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/link-shortener/internal/adapter/storage/s3"
	"github.com/vadimbarashkov/link-shortener/internal/config"
	"github.com/vadimbarashkov/link-shortener/internal/export"
	"github.com/vadimbarashkov/link-shortener/internal/usecase"
	"github.com/vadimbarashkov/link-shortener/pkg/postgres"
	"golang.org/x/sync/errgroup"

	delivery "github.com/vadimbarashkov/link-shortener/internal/adapter/delivery/http"
	repository "github.com/vadimbarashkov/link-shortener/internal/adapter/repository/postgres"
)

const (
	serviceName     = "link-shortener"
	shutdownTimeout = 10 * time.Second
)

type objectUploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

func newLogger(env string) *httplog.Logger {
	opts := httplog.Options{
		LogLevel:        slog.LevelDebug,
		Concise:         true,
		QuietDownRoutes: []string{"/", "/metrics"},
		QuietDownPeriod: 10 * time.Second,
	}

	if env == config.EnvProd {
		opts.LogLevel = slog.LevelInfo
		opts.JSON = true
		opts.Concise = false
	}

	return httplog.NewLogger(serviceName, opts)
}

func newHandler(
	cfg *config.Config,
	logger *httplog.Logger,
	db *sqlx.DB,
	uploader objectUploader,
) (http.Handler, error) {
	const op = "app.newHandler"

	linkRepo := repository.NewLinkRepository(db)

	exporter, err := export.New(linkRepo, uploader,
		export.WithBatchSize(cfg.Export.BatchSize),
		export.WithFolder(cfg.Export.Folder),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create exporter: %w", op, err)
	}

	linkUseCase := usecase.NewLinkUseCase(linkRepo)

	return delivery.NewRouter(logger, linkUseCase, exporter, cfg.HTTPServer.AllowedOrigins), nil
}

func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := newLogger(cfg.Env)

	db, err := postgres.New(
		ctx,
		cfg.Postgres.DSN(),
		postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	defer db.Close()

	version, err := postgres.RunMigrations(cfg.Postgres.MigrationsPath, cfg.Postgres.DSN())
	if err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}
	logger.Info("database schema is up to date", slog.Uint64("version", uint64(version)))

	storageClient, err := s3.NewClient(
		cfg.Storage.Endpoint,
		cfg.Storage.Region,
		cfg.Storage.AccessKeyID,
		cfg.Storage.SecretAccessKey,
		cfg.Storage.UseSSL,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to create storage client: %w", op, err)
	}

	uploader := s3.NewUploader(storageClient, cfg.Storage.Bucket, cfg.Storage.PublicURL, logger.Logger)

	handler, err := newHandler(cfg, logger, db, uploader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        handler,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server",
			slog.String("env", cfg.Env),
			slog.String("addr", server.Addr),
		)

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
