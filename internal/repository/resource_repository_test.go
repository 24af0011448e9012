package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"resource-board/internal/model"
)

func TestResourceRepository_ListOrdersNewestFirst(t *testing.T) {
	repo := NewResourceRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newResource("u1", "oldest", base)))
	require.NoError(t, repo.Create(ctx, newResource("u2", "newest", base.Add(2*time.Hour))))
	require.NoError(t, repo.Create(ctx, newResource("u1", "middle", base.Add(time.Hour))))

	all, err := repo.List(ctx, model.ResourceFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"newest", "middle", "oldest"}, titles(all))

	mine, err := repo.List(ctx, model.ResourceFilter{PostedBy: "u1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"middle", "oldest"}, titles(mine))
}

func TestResourceRepository_ListFilters(t *testing.T) {
	repo := NewResourceRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tutoring := newResource("u1", "Math Tutoring", base)
	pantry := newResource("u1", "Pantry", base.Add(time.Minute))
	pantry.Category = model.CategoryFoodBank
	pantry.Description = "100% free groceries"
	require.NoError(t, repo.Create(ctx, tutoring))
	require.NoError(t, repo.Create(ctx, pantry))

	byCategory, err := repo.List(ctx, model.ResourceFilter{Category: model.CategoryFoodBank})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pantry"}, titles(byCategory))

	byQuery, err := repo.List(ctx, model.ResourceFilter{Query: "TUTOR"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Math Tutoring"}, titles(byQuery))

	literalPercent, err := repo.List(ctx, model.ResourceFilter{Query: "100%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pantry"}, titles(literalPercent))

	none, err := repo.List(ctx, model.ResourceFilter{Category: model.CategoryFoodBank, Query: "tutor"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestResourceRepository_UpdateKeepsOwner(t *testing.T) {
	repo := NewResourceRepository(newTestDB(t))
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	res := newResource("owner", "Before", created)
	require.NoError(t, repo.Create(ctx, res))

	changed := *res
	changed.Title = "After"
	changed.PostedBy = "intruder"
	changed.UpdatedAt = created.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, &changed))

	stored, err := repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "After", stored.Title)
	assert.Equal(t, "owner", stored.PostedBy)
	assert.True(t, stored.CreatedAt.Equal(created))
}

func TestResourceRepository_UpdateAndDeleteMissing(t *testing.T) {
	repo := NewResourceRepository(newTestDB(t))
	ctx := context.Background()

	err := repo.Update(ctx, &model.Resource{ID: "missing", Title: "x", UpdatedAt: time.Now()})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrNotFound)
}

func TestResourceRepository_Delete(t *testing.T) {
	repo := NewResourceRepository(newTestDB(t))
	ctx := context.Background()

	res := newResource("owner", "Gone soon", time.Now())
	require.NoError(t, repo.Create(ctx, res))
	require.NoError(t, repo.Delete(ctx, res.ID))

	stored, err := repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestResourceRepository_WrapsStoreErrors(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	storeErr := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `resources`")).WillReturnError(storeErr)

	_, err = NewResourceRepository(db).List(context.Background(), model.ResourceFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.Contains(t, err.Error(), "list resources failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func titles(resources []model.Resource) []string {
	out := make([]string, 0, len(resources))
	for _, r := range resources {
		out = append(out, r.Title)
	}
	return out
}
