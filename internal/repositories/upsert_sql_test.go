package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/anonto42/info-blog/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

// The toggle must be a single INSERT ... ON CONFLICT statement with no read
// before it.
func TestToggleLikeIssuesSingleUpsert(t *testing.T) {
	db, mock := newMockPostgres(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "likes" .* ON CONFLICT \("user_id","post_id"\) DO UPDATE SET .*"liked"=NOT likes\.liked`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "likes" WHERE user_id = \$1 AND post_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "post_id", "liked", "created_at", "updated_at"}).
			AddRow(1, 1, 5, true, now, now))
	mock.ExpectCommit()

	like, err := repositories.NewGormLikeRepository(db).ToggleLike(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.True(t, like.Liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatePostIssuesSingleUpsert(t *testing.T) {
	db, mock := newMockPostgres(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "ratings" .* ON CONFLICT \("user_id","post_id"\) DO UPDATE SET .*"rating"=`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "ratings" WHERE user_id = \$1 AND post_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "post_id", "rating", "created_at", "updated_at"}).
			AddRow(1, 1, 5, 3, now, now))
	mock.ExpectCommit()

	rating, err := repositories.NewGormRatingRepository(db).RatePost(context.Background(), 1, 5, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, rating.Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}
