package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/anonto42/info-blog/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	// CreatePost inserts the post and one image row per ref in one transaction.
	CreatePost(ctx context.Context, post *models.Post, imageRefs []string) error
	// GetPostByID loads the bare post row.
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	// LoadPost loads a post with everything its representation needs.
	LoadPost(ctx context.Context, id uint) (*models.Post, error)
	ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	// UpdatePost writes the editable fields. With replaceImages set, all
	// images are replaced by imageRefs and the removed refs are returned.
	UpdatePost(ctx context.Context, post *models.Post, imageRefs []string, replaceImages bool) ([]string, error)
	// DeletePost removes the post and everything attached to it. It returns
	// the refs of the removed images.
	DeletePost(ctx context.Context, id uint) ([]string, error)
}

// likeEscaper makes LIKE wildcards in a search query match literally, with
// '!' as the escape character.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// GormPostRepository implements PostRepository on gorm
type GormPostRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *GormPostRepository) CreatePost(ctx context.Context, post *models.Post, imageRefs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		return createImages(tx, post.ID, imageRefs)
	})
}

func (r *GormPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormPostRepository) LoadPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := withRepresentation(r.db.WithContext(ctx)).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormPostRepository) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	q := withRepresentation(r.db.WithContext(ctx).Model(&models.Post{}))

	switch {
	case filter.Days > 0:
		q = q.Where("posts.created_at >= ?", r.now().AddDate(0, 0, -filter.Days))
	case filter.Days == 0:
		now := r.now()
		q = q.Where("posts.created_at >= ?", time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()))
	default:
		// negative window: unfiltered
	}

	if filter.AuthorID != 0 {
		q = q.Where("posts.author_id = ?", filter.AuthorID)
	}
	if filter.Query != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(filter.Query)) + "%"
		q = q.Where("(LOWER(posts.title) LIKE ? ESCAPE '!' OR LOWER(posts.text) LIKE ? ESCAPE '!')", pattern, pattern)
	}

	switch filter.Sort {
	case "A-Z":
		q = q.Order("posts.title ASC").Order("posts.id ASC")
	case "Z-A":
		q = q.Order("posts.title DESC").Order("posts.id ASC")
	default:
		q = q.Order("posts.id ASC")
	}

	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	posts := []models.Post{}
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *GormPostRepository) UpdatePost(ctx context.Context, post *models.Post, imageRefs []string, replaceImages bool) ([]string, error) {
	var removed []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).Where("id = ?", post.ID).Updates(map[string]interface{}{
			"title":       post.Title,
			"text":        post.Text,
			"category_id": post.CategoryID,
			"updated_at":  r.now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if !replaceImages {
			return nil
		}
		var err error
		if removed, err = deleteImages(tx, post.ID); err != nil {
			return err
		}
		return createImages(tx, post.ID, imageRefs)
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (r *GormPostRepository) DeletePost(ctx context.Context, id uint) ([]string, error) {
	var removed []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if removed, err = deleteImages(tx, id); err != nil {
			return err
		}
		for _, model := range []interface{}{&models.Like{}, &models.Favorite{}, &models.Rating{}, &models.Comment{}} {
			if err := tx.Where("post_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func withRepresentation(db *gorm.DB) *gorm.DB {
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id") }
	return db.
		Preload("Author").
		Preload("Category").
		Preload("Images", byID).
		Preload("Likes", byID).
		Preload("Ratings", byID).
		Preload("Comments", byID)
}

func createImages(tx *gorm.DB, postID uint, refs []string) error {
	if len(refs) == 0 {
		return nil
	}
	images := make([]models.PostImage, 0, len(refs))
	for _, ref := range refs {
		images = append(images, models.PostImage{PostID: postID, Image: ref})
	}
	return tx.Create(&images).Error
}

func deleteImages(tx *gorm.DB, postID uint) ([]string, error) {
	var refs []string
	if err := tx.Model(&models.PostImage{}).Where("post_id = ?", postID).Order("id").Pluck("image", &refs).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.PostImage{}).Error; err != nil {
		return nil, err
	}
	return refs, nil
}
