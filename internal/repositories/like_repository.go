package repositories

import (
	"context"
	"time"

	"github.com/anonto42/info-blog/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	// ToggleLike creates the (user, post) row with like=true or flips the
	// existing flag, in one INSERT ... ON CONFLICT statement.
	ToggleLike(ctx context.Context, userID, postID uint) (*models.Like, error)
	// ListLikes lists all likes, or the likes of one post when postID is set.
	ListLikes(ctx context.Context, postID uint) ([]models.Like, error)
}

// GormLikeRepository implements LikeRepository on gorm
type GormLikeRepository struct {
	db *gorm.DB
}

// NewGormLikeRepository creates a new GormLikeRepository
func NewGormLikeRepository(db *gorm.DB) *GormLikeRepository {
	return &GormLikeRepository{db: db}
}

func (r *GormLikeRepository) ToggleLike(ctx context.Context, userID, postID uint) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := models.Like{UserID: userID, PostID: postID, Liked: true}
		err := tx.Clauses(clause.OnConflict{
			Columns: userPostConflict,
			DoUpdates: clause.Assignments(map[string]interface{}{
				"liked":      gorm.Expr("NOT likes.liked"),
				"updated_at": time.Now().UTC(),
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
		return tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error
	})
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *GormLikeRepository) ListLikes(ctx context.Context, postID uint) ([]models.Like, error) {
	likes := []models.Like{}
	q := r.db.WithContext(ctx).Order("id")
	if postID != 0 {
		q = q.Where("post_id = ?", postID)
	}
	if err := q.Find(&likes).Error; err != nil {
		return nil, err
	}
	return likes, nil
}

// userPostConflict is the unique (user_id, post_id) target shared by the
// interaction tables.
var userPostConflict = []clause.Column{{Name: "user_id"}, {Name: "post_id"}}
