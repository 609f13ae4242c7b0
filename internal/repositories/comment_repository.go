package repositories

import (
	"context"

	"github.com/anonto42/info-blog/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	// ListComments returns comments in creation order, all of them or only
	// those of one post when postID is set.
	ListComments(ctx context.Context, postID uint) ([]models.Comment, error)
	UpdateCommentText(ctx context.Context, id uint, text string) error
	// DeleteCommentTree deletes the comment and all of its replies and returns
	// the number of rows removed.
	DeleteCommentTree(ctx context.Context, id uint) (int64, error)
}

// GormCommentRepository implements CommentRepository on gorm
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *GormCommentRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *GormCommentRepository) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	q := r.db.WithContext(ctx).Order("id")
	if postID != 0 {
		q = q.Where("post_id = ?", postID)
	}
	if err := q.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *GormCommentRepository) UpdateCommentText(ctx context.Context, id uint, text string) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("text", text)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormCommentRepository) DeleteCommentTree(ctx context.Context, id uint) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var root models.Comment
		if err := tx.Select("id", "post_id").First(&root, id).Error; err != nil {
			return err
		}

		var rows []models.Comment
		if err := tx.Select("id", "parent_id").Where("post_id = ?", root.PostID).Find(&rows).Error; err != nil {
			return err
		}
		children := make(map[uint][]uint, len(rows))
		for _, c := range rows {
			if c.ParentID != nil {
				children[*c.ParentID] = append(children[*c.ParentID], c.ID)
			}
		}

		ids := []uint{root.ID}
		seen := map[uint]bool{root.ID: true}
		for queue := []uint{root.ID}; len(queue) > 0; queue = queue[1:] {
			for _, child := range children[queue[0]] {
				if !seen[child] {
					seen[child] = true
					ids = append(ids, child)
					queue = append(queue, child)
				}
			}
		}

		res := tx.Where("id IN ?", ids).Delete(&models.Comment{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}
