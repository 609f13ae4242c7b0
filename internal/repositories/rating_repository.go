package repositories

import (
	"context"
	"time"

	"github.com/anonto42/info-blog/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	// RatePost stores value for (user, post), overwriting any earlier value.
	// Range checks happen before this call.
	RatePost(ctx context.Context, userID, postID uint, value int) (*models.Rating, error)
	ListRatings(ctx context.Context, postID uint) ([]models.Rating, error)
}

type GormRatingRepository struct {
	db *gorm.DB
}

func NewGormRatingRepository(db *gorm.DB) *GormRatingRepository {
	return &GormRatingRepository{db: db}
}

func (r *GormRatingRepository) RatePost(ctx context.Context, userID, postID uint, value int) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := models.Rating{UserID: userID, PostID: postID, Value: value}
		err := tx.Clauses(clause.OnConflict{
			Columns: userPostConflict,
			DoUpdates: clause.Assignments(map[string]interface{}{
				"rating":     value,
				"updated_at": time.Now().UTC(),
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
		return tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&rating).Error
	})
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *GormRatingRepository) ListRatings(ctx context.Context, postID uint) ([]models.Rating, error) {
	ratings := []models.Rating{}
	q := r.db.WithContext(ctx).Order("id")
	if postID != 0 {
		q = q.Where("post_id = ?", postID)
	}
	if err := q.Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}
