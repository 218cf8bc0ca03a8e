// Package app wires repositories, services and handlers into the HTTP
// handler served by cmd/api.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-animal-go/internal/account"
	accountrepo "github.com/ovaphlow/pitchfork/service-animal-go/internal/account/repo"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/config"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/profile"
	profilerepo "github.com/ovaphlow/pitchfork/service-animal-go/internal/profile/repo"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/router"
	"github.com/ovaphlow/pitchfork/service-animal-go/pkg/utilities"
)

type App struct {
	Handler http.Handler
	cache   *auth.TokenCache
}

// New builds the service on top of an open, migrated database.
func New(ctx context.Context, cfg config.Config, db *sqlx.DB, logger *zap.SugaredLogger) (*App, error) {
	ids, err := utilities.NewIDGenerator(cfg.SnowflakeNode)
	if err != nil {
		return nil, fmt.Errorf("snowflake node: %w", err)
	}
	cache, err := auth.NewTokenCache(ctx, cfg.AuthCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("token cache: %w", err)
	}

	accounts := accountrepo.NewAccountRepo(db, cfg.Database.QueryTimeout)
	profiles := profilerepo.NewProfileRepo(db, cfg.Database.QueryTimeout)

	creds := account.NewCredentialService(accounts, account.BcryptHasher{Cost: cfg.SecretHashCost}, nil)
	gate := auth.NewGate(accounts, cache, logger.Named("auth"))

	handler := router.RegisterRoutes(logger.Named("http"), router.Deps{
		Accounts:       account.NewHandler(creds, logger.Named("account")),
		Profiles:       profile.NewHandler(profile.NewService(profiles, ids), logger.Named("profile")),
		Gate:           gate,
		DB:             db,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	if cache != nil {
		logger.Infow("token cache enabled", "ttl", cfg.AuthCacheTTL)
	}
	return &App{Handler: handler, cache: cache}, nil
}

// Close releases resources owned by the app. The database is owned by the
// caller.
func (a *App) Close() error {
	return a.cache.Close()
}
