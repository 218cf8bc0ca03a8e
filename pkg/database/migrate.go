package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-animal-go/pkg/database/migrations"
)

func gooseDialect(driver string) (goose.Dialect, error) {
	switch driver {
	case DriverPostgres:
		return goose.DialectPostgres, nil
	case DriverSQLite:
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate applies the embedded migrations that have not run yet.
func Migrate(ctx context.Context, db *sqlx.DB, driver string, logger *zap.SugaredLogger) error {
	dialect, err := gooseDialect(driver)
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(dialect, db.DB, migrations.FS)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, res := range results {
		logger.Infow("migration applied", "source", res.Source.Path, "duration", res.Duration)
	}
	return nil
}
