package repositories

import (
	"context"
	"time"

	"github.com/anonto42/info-blog/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository defines the interface for favorite operations
type FavoriteRepository interface {
	ToggleFavorite(ctx context.Context, userID, postID uint) (*models.Favorite, error)
	ListFavoritesByUser(ctx context.Context, userID uint) ([]models.Favorite, error)
}

// GormFavoriteRepository implements FavoriteRepository
type GormFavoriteRepository struct {
	db *gorm.DB
}

func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

func (r *GormFavoriteRepository) ToggleFavorite(ctx context.Context, userID, postID uint) (*models.Favorite, error) {
	var favorite models.Favorite
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := models.Favorite{UserID: userID, PostID: postID, Favorited: true}
		err := tx.Clauses(clause.OnConflict{
			Columns: userPostConflict,
			DoUpdates: clause.Assignments(map[string]interface{}{
				"favorited":  gorm.Expr("NOT favorites.favorited"),
				"updated_at": time.Now().UTC(),
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
		return tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&favorite).Error
	})
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (r *GormFavoriteRepository) ListFavoritesByUser(ctx context.Context, userID uint) ([]models.Favorite, error) {
	favorites := []models.Favorite{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&favorites).Error
	return favorites, err
}
