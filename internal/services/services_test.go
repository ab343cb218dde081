package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/diewo77/go-mairie/internal/config"
	"github.com/diewo77/go-mairie/internal/db"
	"github.com/diewo77/go-mairie/internal/models"
	"github.com/diewo77/go-mairie/validation"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	d, err := db.Connect(cfg.Database, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(d, cfg, zap.NewNop()))
	t.Cleanup(func() { _ = db.Close(d) })
	return d
}

func strPtr(s string) *string { return &s }

func validationCode(t *testing.T, err error, field string) string {
	t.Helper()
	var verr *validation.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Failures[field].Code
}

func seedUser(t *testing.T, d *gorm.DB, username, role string) *models.User {
	t.Helper()
	u, err := NewUserService(d).Create(context.Background(), UserInput{
		Username: username,
		Email:    username + "@mairie.tg",
		Password: "motdepasse",
		Role:     role,
	})
	require.NoError(t, err)
	return u
}
