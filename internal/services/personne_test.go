package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonne_CreateAndSearch(t *testing.T) {
	svc := NewPersonneService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, PersonneInput{Nom: strPtr("Koffi")})
	assert.Equal(t, "required", validationCode(t, err, "prenom"))

	_, err = svc.Create(ctx, PersonneInput{Nom: strPtr("Koffi"), Prenom: strPtr("Ama"), DateNaissance: strPtr("14/03/1990")})
	assert.Equal(t, "invalid_date", validationCode(t, err, "dateNaissance"))

	a, err := svc.Create(ctx, PersonneInput{Nom: strPtr("Koffi"), Prenom: strPtr("Ama"), DateNaissance: strPtr("1990-03-14"), NumeroCni: strPtr("TG-001")})
	require.NoError(t, err)
	require.NotNil(t, a.DateNaissance)
	_, err = svc.Create(ctx, PersonneInput{Nom: strPtr("Mensah"), Prenom: strPtr("Yao")})
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	hits, err := svc.List(ctx, "koF")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, a.ID, hits[0].ID)

	hits, err = svc.List(ctx, "tg-001")
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestPersonne_ArchiveRestore(t *testing.T) {
	d := newTestDB(t)
	svc := NewPersonneService(d)
	ctx := context.Background()
	admin := seedUser(t, d, "admin", "ADMIN")

	p, err := svc.Create(ctx, PersonneInput{Nom: strPtr("Koffi"), Prenom: strPtr("Ama")})
	require.NoError(t, err)

	archived, err := svc.Archive(ctx, p.ID, admin.ID)
	require.NoError(t, err)
	assert.True(t, archived.Archive)
	require.NotNil(t, archived.Archivage)
	require.NotNil(t, archived.ArchiverID)
	assert.Equal(t, admin.ID, *archived.ArchiverID)

	active, _ := svc.List(ctx, "")
	assert.Empty(t, active)
	arch, _ := svc.ListArchived(ctx)
	assert.Len(t, arch, 1)

	restored, err := svc.Restore(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, restored.Archive)
	assert.Nil(t, restored.Archivage)
	assert.Nil(t, restored.ArchiverID)

	_, err = svc.Archive(ctx, 999, admin.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPersonne_UpdateDelete(t *testing.T) {
	svc := NewPersonneService(newTestDB(t))
	ctx := context.Background()

	p, err := svc.Create(ctx, PersonneInput{Nom: strPtr("Koffi"), Prenom: strPtr("Ama")})
	require.NoError(t, err)

	up, err := svc.Update(ctx, p.ID, PersonneInput{Profession: strPtr("Enseignante")})
	require.NoError(t, err)
	assert.Equal(t, "Enseignante", up.Profession)
	assert.Equal(t, "Koffi", up.Nom)

	_, err = svc.Update(ctx, 999, PersonneInput{Nom: strPtr("X")})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), ErrNotFound)
}
