package repositories

import (
	"context"

	"github.com/anonto42/info-blog/backend/internal/models"
	"gorm.io/gorm"
)

type ImageRepository interface {
	AddImage(ctx context.Context, image *models.PostImage) error
	ListImages(ctx context.Context) ([]models.PostImage, error)
}

type GormImageRepository struct {
	db *gorm.DB
}

func NewGormImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

func (r *GormImageRepository) AddImage(ctx context.Context, image *models.PostImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *GormImageRepository) ListImages(ctx context.Context) ([]models.PostImage, error) {
	images := []models.PostImage{}
	err := r.db.WithContext(ctx).Order("id").Find(&images).Error
	return images, err
}
