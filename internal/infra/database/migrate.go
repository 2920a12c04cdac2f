package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/Keerthithev/eduexpo/internal/infra/config"
	"github.com/Keerthithev/eduexpo/internal/infra/database/migrations"
)

// RunMigrations applies embedded SQL migrations over a temporary database/sql
// connection. The pgxpool used by repositories stays untouched.
func RunMigrations(ctx context.Context, cfg config.PostgresSettings, log *zap.Logger) error {
	db, err := sql.Open("pgx", DSN(cfg))
	if err != nil {
		return fmt.Errorf("db open error: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	log.Info("database migrations applied")
	return nil
}
