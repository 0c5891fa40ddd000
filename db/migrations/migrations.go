package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"tenders/db"

	"github.com/charmbracelet/log"
	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedded embed.FS

// dialect подбирает диалект goose по имени драйвера.
func dialect(driverName string) (goose.Dialect, error) {
	switch driverName {
	case "postgres", "pgx":
		return goose.DialectPostgres, nil
	case "sqlite", "sqlite3":
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driverName)
	}
}

// Run применяет все миграции. Вызывается один раз при старте процесса,
// повторный вызов ничего не меняет.
func Run(ctx context.Context, dbx *db.DB) error {
	logger := log.FromContext(ctx).WithPrefix("migrate")

	d, err := dialect(dbx.DriverName())
	if err != nil {
		return err
	}

	fsys, err := fs.Sub(embedded, "sql")
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(d, dbx.DB.DB, fsys)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, r := range results {
		logger.Info("applied", "version", r.Source.Version, "file", r.Source.Path, "took", r.Duration)
	}
	if len(results) == 0 {
		logger.Debug("schema is up to date")
	}
	return nil
}
