package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"resource-board/internal/model"
	"resource-board/internal/platform/sqlite"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "board.db"))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newResource(owner, title string, createdAt time.Time) *model.Resource {
	return &model.Resource{
		Title:        title,
		Description:  title + " description",
		Category:     model.CategoryEducation,
		Location:     "Library",
		ContactInfo:  "desk@example.org",
		Availability: model.DefaultAvailability,
		PostedBy:     owner,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}
