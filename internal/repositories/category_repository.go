package repositories

import (
	"context"

	"github.com/anonto42/info-blog/backend/internal/models"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, id uint) (*models.Category, error)
	// EnsureCategories creates the named categories that do not exist yet.
	EnsureCategories(ctx context.Context, names []string) error
}

type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := r.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormCategoryRepository) GetCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormCategoryRepository) EnsureCategories(ctx context.Context, names []string) error {
	for _, name := range names {
		category := models.Category{Name: name}
		if err := r.db.WithContext(ctx).Where(models.Category{Name: name}).FirstOrCreate(&category).Error; err != nil {
			return err
		}
	}
	return nil
}
