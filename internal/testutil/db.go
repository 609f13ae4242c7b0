// Package testutil opens throwaway in-memory databases for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/anonto42/info-blog/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// SeedUser inserts an active user.
func SeedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Password: "x", IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

// SeedCategory inserts a category.
func SeedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	cat := &models.Category{Name: name}
	require.NoError(t, db.Create(cat).Error)
	return cat
}

// SeedPost inserts a post by author in category.
func SeedPost(t *testing.T, db *gorm.DB, authorID, categoryID uint, title, text string) *models.Post {
	t.Helper()
	p := &models.Post{Title: title, Text: text, AuthorID: authorID, CategoryID: categoryID}
	require.NoError(t, db.Omit("Author", "Category").Create(p).Error)
	return p
}
