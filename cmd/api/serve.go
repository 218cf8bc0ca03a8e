package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-animal-go/internal/app"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/config"
	"github.com/ovaphlow/pitchfork/service-animal-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-animal-go/pkg/utilities"
)

func serveCmd(envFiles *cli.StringSlice) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API (default command)",
		Action: func(c *cli.Context) error {
			return serve(c.Context, envFiles.Value())
		},
	}
}

func migrateCmd(envFiles *cli.StringSlice) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations and exit",
		Action: func(c *cli.Context) error {
			cfg, logger, err := bootstrap(envFiles.Value())
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := database.Connect(cfg.Database)
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			defer db.Close()
			return database.Migrate(c.Context, db, cfg.Database.Driver, logger)
		},
	}
}

// bootstrap loads configuration and builds the logger.
func bootstrap(envFiles []string) (config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	lg, err := utilities.Init(cfg.Log)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, lg.Sugar(), nil
}

func serve(ctx context.Context, envFiles []string) error {
	cfg, sugar, err := bootstrap(envFiles)
	if err != nil {
		return err
	}
	defer sugar.Sync()

	sugar.Infow("starting service-animal-go", "driver", cfg.Database.Driver, "addr", cfg.Addr())

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, cfg.Database.Driver, sugar.Named("migrate")); err != nil {
			return err
		}
	}

	a, err := app.New(ctx, cfg, db, sugar)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	sugar.Info("service is running; press Ctrl+C to stop")

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	sugar.Info("shutting down")
	return shutdown(srv, db, cfg.ShutdownTimeout, sugar)
}

func shutdown(srv *http.Server, db *sqlx.DB, timeout time.Duration, sugar *zap.SugaredLogger) error {
	doneCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}
	// ping db once more
	if err := db.PingContext(doneCtx); err != nil {
		sugar.Warnf("db ping on shutdown failed: %v", err)
	}
	sugar.Info("goodbye")
	return nil
}
