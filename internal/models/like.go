package models

import "time"

// Like is unique per (user, post) and is never deleted; the flag carries the state.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user" gorm:"not null;uniqueIndex:idx_likes_user_post"`
	PostID    uint      `json:"post" gorm:"not null;index;uniqueIndex:idx_likes_user_post"`
	Liked     bool      `json:"like" gorm:"column:liked;not null;default:false"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Favorite follows the same toggle semantics as Like.
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user" gorm:"not null;index;uniqueIndex:idx_favorites_user_post"`
	PostID    uint      `json:"post" gorm:"not null;uniqueIndex:idx_favorites_user_post"`
	Favorited bool      `json:"favorite" gorm:"column:favorited;not null;default:false"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Rating keeps the last submitted value per (user, post).
type Rating struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UserID    uint      `json:"user" gorm:"not null;uniqueIndex:idx_ratings_user_post"`
	PostID    uint      `json:"post" gorm:"not null;index;uniqueIndex:idx_ratings_user_post"`
	Value     int       `json:"rating" gorm:"column:rating;not null;default:0"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// InteractionRequest is the body of POST /likes and POST /favorites.
type InteractionRequest struct {
	PostID uint `json:"post" form:"post" validate:"required"`
}

// RatingRequest is the body of POST /ratings. Rating is a pointer so that an
// explicit 0 is distinguishable from a missing field.
type RatingRequest struct {
	PostID uint `json:"post" form:"post" validate:"required"`
	Rating *int `json:"rating" form:"rating" validate:"required,min=0,max=5"`
}
