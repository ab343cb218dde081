// Package db opens the gorm connection, migrates the schema and seeds the
// default administrator.
package db

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/diewo77/go-mairie/internal/config"
	"github.com/diewo77/go-mairie/internal/logging"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const connectRetries = 10

var passwordRe = regexp.MustCompile(`(password=)([^\s]+)`)

// MaskDSN hides the password of a key=value DSN.
func MaskDSN(dsn string) string {
	return passwordRe.ReplaceAllString(dsn, `${1}***`)
}

// Connect opens the database described by cfg. Postgres connections are
// retried to give the server time to start.
func Connect(cfg config.DatabaseConfig, zl *zap.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logging.NewGormLogger(zl, cfg.Debug), TranslateError: true}

	switch cfg.Driver {
	case "sqlite":
		d, err := gorm.Open(sqlite.Open(cfg.Path), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.Path, err)
		}
		// one connection so the foreign_keys pragma holds for every query
		sqlDB, err := d.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		if err := d.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
		return d, nil
	case "postgres":
		dsn := cfg.DSN()
		zl.Info("connecting to database", zap.String("dsn", MaskDSN(dsn)))
		var (
			d   *gorm.DB
			err error
		)
		for i := 0; i < connectRetries; i++ {
			d, err = gorm.Open(postgres.Open(dsn), gcfg)
			if err == nil {
				break
			}
			zl.Warn("database not ready, retrying", zap.Int("attempt", i+1), zap.Error(err))
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to connect database after retries: %w", err)
		}
		if err := d.Exec("SELECT 1").Error; err != nil {
			return nil, fmt.Errorf("db ping failed: %w", err)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Close releases the underlying connection pool.
func Close(d *gorm.DB) error {
	sqlDB, err := d.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ErrMissingTable is returned when a core table is absent after migration.
var ErrMissingTable = errors.New("missing table after migration")

func checkTables(d *gorm.DB) error {
	for _, table := range []string{"mairies", "personnes", "users", "variables", "document_templates", "documents"} {
		if !d.Migrator().HasTable(table) {
			return fmt.Errorf("%w: %s", ErrMissingTable, table)
		}
	}
	return nil
}
