package repositories

import (
	"context"
	"time"

	"github.com/anonto42/info-blog/backend/internal/models"
	"gorm.io/gorm"
)

// TokenRepository stores the ids of issued bearer tokens so that logout can
// revoke them.
type TokenRepository interface {
	CreateToken(ctx context.Context, token *models.AuthToken) error
	TokenExists(ctx context.Context, key string) (bool, error)
	DeleteUserTokens(ctx context.Context, userID uint) error
}

// GormTokenRepository keeps tokens in the relational store.
type GormTokenRepository struct {
	db *gorm.DB
}

func NewGormTokenRepository(db *gorm.DB) *GormTokenRepository {
	return &GormTokenRepository{db: db}
}

func (r *GormTokenRepository) CreateToken(ctx context.Context, token *models.AuthToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *GormTokenRepository) TokenExists(ctx context.Context, key string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AuthToken{}).
		Where("token_key = ? AND expires_at > ?", key, time.Now().UTC()).
		Count(&count).Error
	return count > 0, err
}

func (r *GormTokenRepository) DeleteUserTokens(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error
}
