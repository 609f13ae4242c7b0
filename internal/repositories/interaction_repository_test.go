package repositories_test

import (
	"context"
	"sync"
	"testing"

	"github.com/anonto42/info-blog/backend/internal/models"
	"github.com/anonto42/info-blog/backend/internal/repositories"
	"github.com/anonto42/info-blog/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLikeFlips(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "a@b.com")
	cat := testutil.SeedCategory(t, db, "News")
	post := testutil.SeedPost(t, db, user.ID, cat.ID, "Title", "Text")
	repo := repositories.NewGormLikeRepository(db)
	ctx := context.Background()

	like, err := repo.ToggleLike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, like.Liked)

	like, err = repo.ToggleLike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, like.Liked)

	like, err = repo.ToggleLike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, like.Liked)

	var count int64
	require.NoError(t, db.Model(&models.Like{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// The test database allows a single connection, so these toggles run one
// after the other. It checks that parallel callers end with one row and a
// consistent flag; the atomic statement itself is pinned by
// TestToggleLikeIssuesSingleUpsert.
func TestToggleLikeParallelCallersKeepOneRow(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "a@b.com")
	cat := testutil.SeedCategory(t, db, "News")
	post := testutil.SeedPost(t, db, user.ID, cat.ID, "Title", "Text")
	repo := repositories.NewGormLikeRepository(db)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ToggleLike(context.Background(), user.ID, post.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	likes, err := repo.ListLikes(context.Background(), post.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.False(t, likes[0].Liked)
}

func TestToggleFavoriteIsPerUser(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.SeedUser(t, db, "alice@b.com")
	bob := testutil.SeedUser(t, db, "bob@b.com")
	cat := testutil.SeedCategory(t, db, "News")
	post := testutil.SeedPost(t, db, alice.ID, cat.ID, "Title", "Text")
	repo := repositories.NewGormFavoriteRepository(db)
	ctx := context.Background()

	fav, err := repo.ToggleFavorite(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, fav.Favorited)
	fav, err = repo.ToggleFavorite(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, fav.Favorited)
	fav, err = repo.ToggleFavorite(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, fav.Favorited)

	own, err := repo.ListFavoritesByUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, bob.ID, own[0].UserID)
	assert.True(t, own[0].Favorited)
}

func TestRatePostOverwrites(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "a@b.com")
	cat := testutil.SeedCategory(t, db, "News")
	post := testutil.SeedPost(t, db, user.ID, cat.ID, "Title", "Text")
	repo := repositories.NewGormRatingRepository(db)
	ctx := context.Background()

	rating, err := repo.RatePost(ctx, user.ID, post.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, rating.Value)

	rating, err = repo.RatePost(ctx, user.ID, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, rating.Value)

	ratings, err := repo.ListRatings(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, 0, ratings[0].Value)

	all, err := repo.ListRatings(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
