package repositories_test

import (
	"context"
	"testing"

	"vitrina/internal/models"
	"vitrina/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	repo := repositories.NewGORMUserRepository(newTestDB(t))
	ctx := context.Background()

	demo := &models.User{ID: 1, Email: "demo1@vitrina.local", Nickname: "demo1", Password: "x"}
	require.NoError(t, repo.EnsureExists(ctx, demo))
	again := &models.User{ID: 1, Email: "other@vitrina.local", Nickname: "other", Password: "y"}
	require.NoError(t, repo.EnsureExists(ctx, again))
	assert.Equal(t, "demo1", again.Nickname)

	alice := &models.User{Email: "alice@example.com", Nickname: "alice", Password: "hash"}
	require.NoError(t, repo.Create(ctx, alice))
	dup := &models.User{Email: "alice2@example.com", Nickname: "alice", Password: "hash"}
	assert.ErrorIs(t, repo.Create(ctx, dup), models.ErrConstraintViolation)

	got, err := repo.GetByNickname(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	got, err = repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCityRepository(t *testing.T) {
	repo := repositories.NewGORMCityRepository(newTestDB(t))
	ctx := context.Background()

	minsk := &models.City{Name: "minsk"}
	require.NoError(t, repo.Create(ctx, minsk))
	require.NoError(t, repo.Create(ctx, &models.City{Name: "london"}))
	assert.ErrorIs(t, repo.Create(ctx, &models.City{Name: "minsk"}), models.ErrConstraintViolation)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "minsk", all[0].Name)

	require.NoError(t, repo.Delete(ctx, minsk.ID))
	assert.ErrorIs(t, repo.Delete(ctx, minsk.ID), models.ErrNotFound)
	_, err = repo.GetByName(ctx, "minsk")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
