package services

import (
	"context"
	"testing"

	"github.com/diewo77/go-mairie/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_RegisterFirstIsAdmin(t *testing.T) {
	svc := NewUserService(newTestDB(t))
	ctx := context.Background()

	u, err := svc.Register(ctx, UserInput{Username: "maire", Email: "Maire@Lome.tg", Password: "motdepasse"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Equal(t, "maire@lome.tg", u.Email)
	assert.NotEqual(t, "motdepasse", u.Password)

	_, err = svc.Register(ctx, UserInput{Username: "autre", Email: "autre@lome.tg", Password: "motdepasse"})
	assert.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestUser_Validation(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.Create(context.Background(), UserInput{Username: "ab", Email: "pas-un-email", Password: "court"})
	require.Error(t, err)
	assert.Equal(t, "length_between", validationCode(t, err, "username"))
	assert.Equal(t, "invalid_email", validationCode(t, err, "email"))
	assert.Equal(t, "min_length", validationCode(t, err, "password"))

	_, err = svc.Create(context.Background(), UserInput{Username: "agent", Email: "a@b.tg", Password: "motdepasse", Role: "ROOT"})
	assert.Equal(t, "invalid_choice", validationCode(t, err, "role"))
}

func TestUser_Duplicate(t *testing.T) {
	d := newTestDB(t)
	seedUser(t, d, "agent", models.RoleResponsable)

	_, err := NewUserService(d).Create(context.Background(), UserInput{Username: "agent", Email: "x@y.tg", Password: "motdepasse"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUser_Authenticate(t *testing.T) {
	d := newTestDB(t)
	seedUser(t, d, "agent", models.RoleResponsable)
	svc := NewUserService(d)
	ctx := context.Background()

	u, err := svc.Authenticate(ctx, "agent", "motdepasse")
	require.NoError(t, err)
	assert.Equal(t, "agent", u.Username)

	u, err = svc.Authenticate(ctx, "AGENT@mairie.tg", "motdepasse")
	require.NoError(t, err)
	assert.Equal(t, "agent", u.Username)

	_, err = svc.Authenticate(ctx, "agent", "mauvais")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "inconnu", "motdepasse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUser_RoleAndLastAdmin(t *testing.T) {
	d := newTestDB(t)
	admin := seedUser(t, d, "admin", models.RoleAdmin)
	agent := seedUser(t, d, "agent", models.RoleResponsable)
	svc := NewUserService(d)
	ctx := context.Background()

	_, err := svc.UpdateRole(ctx, admin.ID, models.RoleResponsable)
	assert.ErrorIs(t, err, ErrLastAdmin)
	assert.ErrorIs(t, svc.Delete(ctx, admin.ID), ErrLastAdmin)

	up, err := svc.UpdateRole(ctx, agent.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, up.Role)

	role, err := svc.Role(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	require.NoError(t, svc.Delete(ctx, admin.ID))
	assert.ErrorIs(t, svc.Delete(ctx, admin.ID), ErrNotFound)
	_, err = svc.UpdateRole(ctx, 999, models.RoleAdmin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUser_LinkPersonne(t *testing.T) {
	d := newTestDB(t)
	agent := seedUser(t, d, "agent", models.RoleResponsable)
	other := seedUser(t, d, "autre", models.RoleResponsable)
	svc := NewUserService(d)
	ctx := context.Background()

	p, err := NewPersonneService(d).Create(ctx, PersonneInput{Nom: strPtr("Koffi"), Prenom: strPtr("Ama")})
	require.NoError(t, err)

	u, err := svc.LinkPersonne(ctx, agent.ID, &p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ama Koffi", u.DisplayName())

	_, err = svc.LinkPersonne(ctx, other.ID, &p.ID)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	missing := uint(999)
	_, err = svc.LinkPersonne(ctx, agent.ID, &missing)
	assert.ErrorIs(t, err, ErrInvalidReference)

	u, err = svc.LinkPersonne(ctx, agent.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "agent", u.DisplayName())
}

func TestUser_Exists(t *testing.T) {
	d := newTestDB(t)
	agent := seedUser(t, d, "agent", models.RoleResponsable)
	svc := NewUserService(d)
	ctx := context.Background()

	ok, err := svc.Exists(ctx, agent.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.Exists(ctx, agent.ID+100)
	require.NoError(t, err)
	assert.False(t, ok)

	sqlDB, err := d.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	_, err = svc.Exists(ctx, agent.ID)
	assert.Error(t, err)
}

func TestUser_UsernameCannotLookLikeEmail(t *testing.T) {
	d := newTestDB(t)
	seedUser(t, d, "agent", models.RoleResponsable)
	svc := NewUserService(d)

	_, err := svc.Create(context.Background(), UserInput{Username: "agent@mairie.tg", Email: "autre@mairie.tg", Password: "motdepasse"})
	assert.Equal(t, "invalid_characters", validationCode(t, err, "username"))

	u, err := svc.Authenticate(context.Background(), "agent@mairie.tg", "motdepasse")
	require.NoError(t, err)
	assert.Equal(t, "agent", u.Username)
}
