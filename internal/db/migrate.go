package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/diewo77/go-mairie/internal/config"
	"github.com/diewo77/go-mairie/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// Registers the postgres database driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the schema up to date. With App.Migrations set on a
// postgres database the embedded SQL migrations run through golang-migrate;
// otherwise gorm's AutoMigrate is used.
func Migrate(d *gorm.DB, cfg *config.Config, zl *zap.Logger) error {
	if cfg.App.Migrations && cfg.Database.Driver == "postgres" {
		zl.Info("running sql migrations")
		if err := RunSQLMigrations(cfg.Database.URL()); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		for _, m := range models.All() {
			if err := d.AutoMigrate(m); err != nil {
				return fmt.Errorf("automigrate %T: %w", m, err)
			}
		}
	}
	return checkTables(d)
}

// RunSQLMigrations applies the embedded migrations to the database at url.
func RunSQLMigrations(url string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
