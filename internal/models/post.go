package models

import "time"

type Post struct {
	ID         uint      `gorm:"primaryKey"`
	Title      string    `gorm:"size:255;not null;index"`
	Text       string    `gorm:"type:text;not null"`
	AuthorID   uint      `gorm:"index;not null"`
	Author     User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CategoryID uint      `gorm:"index;not null"`
	Category   Category  `gorm:"foreignKey:CategoryID"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time

	Images   []PostImage `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Likes    []Like      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Ratings  []Rating    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Comments []Comment   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// PostImage belongs to exactly one post. Image is the blob reference handed
// out by the configured image store.
type PostImage struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	PostID uint   `json:"post" gorm:"index;not null"`
	Image  string `json:"image" gorm:"size:512;not null"`
}

// PostFilter drives the list, own, search and sort queries.
type PostFilter struct {
	Days     int // >0 last N days, 0 today, <0 unfiltered
	AuthorID uint
	Query    string // case-insensitive substring over title or text
	Sort     string // "A-Z", "Z-A" or empty
	Offset   int
	Limit    int
}

// PostRequest is bound from JSON or multipart form. Images arrive as
// repeated "image" file parts.
type PostRequest struct {
	Title      string `json:"title" form:"title" validate:"required,min=1,max=255"`
	Text       string `json:"text" form:"text" validate:"required"`
	CategoryID uint   `json:"category" form:"category" validate:"required"`
}

// PatchPostRequest leaves zero fields untouched.
type PatchPostRequest struct {
	Title      string `json:"title" form:"title" validate:"omitempty,max=255"`
	Text       string `json:"text" form:"text"`
	CategoryID uint   `json:"category" form:"category"`
}
