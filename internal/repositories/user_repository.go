package repositories

import (
	"context"

	"github.com/anonto42/info-blog/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Register creates an inactive user and calls notify inside the same
	// transaction; a notify error rolls the insert back.
	Register(ctx context.Context, user *models.User, notify func(*models.User) error) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// PendingCodeExists reports whether an inactive user holds code.
	PendingCodeExists(ctx context.Context, code string) (bool, error)
	// Activate consumes code. A second call with the same code finds nothing.
	Activate(ctx context.Context, code string) error
	// IssueResetCode deactivates the user, stores code and calls notify in one transaction.
	IssueResetCode(ctx context.Context, email, code string, notify func(*models.User) error) error
	// CompleteReset activates the inactive user matching email and code and sets the password hash.
	CompleteReset(ctx context.Context, email, code, passwordHash string) error
}

// GormUserRepository implements UserRepository on gorm
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Register(ctx context.Context, user *models.User, notify func(*models.User) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return notify(user)
	})
}

func (r *GormUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *GormUserRepository) PendingCodeExists(ctx context.Context, code string) (bool, error) {
	if code == "" {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("activation_code = ? AND is_active = ?", code, false).
		Count(&count).Error
	return count > 0, err
}

func (r *GormUserRepository) Activate(ctx context.Context, code string) error {
	if code == "" {
		return gorm.ErrRecordNotFound
	}
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("activation_code = ?", code).
		Updates(map[string]interface{}{"is_active": true, "activation_code": ""})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormUserRepository) IssueResetCode(ctx context.Context, email, code string, notify func(*models.User) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			return err
		}
		user.IsActive = false
		user.ActivationCode = code
		if err := tx.Model(&user).Updates(map[string]interface{}{"is_active": false, "activation_code": code}).Error; err != nil {
			return err
		}
		return notify(&user)
	})
}

func (r *GormUserRepository) CompleteReset(ctx context.Context, email, code, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND activation_code = ? AND is_active = ?", email, code, false).
		Updates(map[string]interface{}{
			"is_active":       true,
			"activation_code": "",
			"password":        passwordHash,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
