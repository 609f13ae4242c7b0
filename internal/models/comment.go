package models

import "time"

// Comment belongs to a post and optionally replies to another comment of the
// same post.
type Comment struct {
	ID        uint      `gorm:"primaryKey"`
	PostID    uint      `gorm:"index;not null"`
	UserID    uint      `gorm:"index;not null"`
	Text      string    `gorm:"type:text;not null"`
	ParentID  *uint     `gorm:"index"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	PostID   uint   `json:"post" form:"post" validate:"required"`
	Text     string `json:"text" form:"text" validate:"required,min=1"`
	ParentID *uint  `json:"parent" form:"parent"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Text string `json:"text" form:"text" validate:"required,min=1"`
}
