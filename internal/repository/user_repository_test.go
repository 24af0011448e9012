package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-board/internal/model"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := &model.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Role:         model.RoleDonor,
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, model.RoleDonor, byID.Role)
}

func TestUserRepository_MissingReturnsNil(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = repo.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{Name: "A", Email: "dup@example.com", PasswordHash: "h", Role: model.RoleDonor}))
	err := repo.Create(ctx, &model.User{Name: "B", Email: "dup@example.com", PasswordHash: "h", Role: model.RoleDonor})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUserRepository_ListByIDs(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	a := &model.User{Name: "A", Email: "a@example.com", PasswordHash: "h", Role: model.RoleDonor}
	b := &model.User{Name: "B", Email: "b@example.com", PasswordHash: "h", Role: model.RoleBoth}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	users, err := repo.ListByIDs(ctx, []string{a.ID, b.ID, "ghost"})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = repo.ListByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}
