// Package presenter assembles read models for responses. Everything is
// recomputed per call from the rows passed in; nothing is cached.
package presenter

import (
	"strings"
	"time"

	"github.com/anonto42/info-blog/backend/internal/models"
)

const (
	postTimeLayout    = "02/01/2006 15:04:05"
	commentTimeLayout = "02 January 2006 15:04"
)

// Context carries what a representation needs from the current request.
// The zero value is a valid context without a request: relative image
// locators then resolve to "".
type Context struct {
	// BaseURL is scheme://host of the current request, without trailing slash.
	BaseURL string
	// Locate maps a stored image ref to its locator.
	Locate func(ref string) string
}

// ImageURL resolves ref to an absolute locator.
func (pc Context) ImageURL(ref string) string {
	if ref == "" || pc.Locate == nil {
		return ""
	}
	u := pc.Locate(ref)
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if pc.BaseURL == "" {
		return ""
	}
	return strings.TrimRight(pc.BaseURL, "/") + "/" + strings.TrimLeft(u, "/")
}

type CategoryView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ImageView struct {
	Image string `json:"image"`
}

// ImageRowView is the /add-image representation.
type ImageRowView struct {
	ID    uint   `json:"id"`
	Post  uint   `json:"post"`
	Image string `json:"image"`
}

type PostView struct {
	ID        uint            `json:"id"`
	Title     string          `json:"title"`
	Text      string          `json:"text"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
	Author    string          `json:"author"`
	Category  CategoryView    `json:"category"`
	Like      []models.Like   `json:"like"`
	Rating    []models.Rating `json:"rating"`
	Images    []ImageView     `json:"images"`
	Comments  []*CommentView  `json:"comments"`
}

// Post builds the nested representation of a post loaded with its
// associations.
func Post(pc Context, p *models.Post) PostView {
	v := PostView{
		ID:        p.ID,
		Title:     p.Title,
		Text:      p.Text,
		CreatedAt: p.CreatedAt.UTC().Format(postTimeLayout),
		UpdatedAt: p.UpdatedAt.UTC().Format(postTimeLayout),
		Author:    p.Author.Email,
		Category:  CategoryView{ID: p.Category.ID, Name: p.Category.Name},
		Like:      []models.Like{},
		Rating:    []models.Rating{},
		Images:    make([]ImageView, 0, len(p.Images)),
		Comments:  CommentTree(p.Comments),
	}
	for _, l := range p.Likes {
		if l.Liked {
			v.Like = append(v.Like, l)
		}
	}
	v.Rating = append(v.Rating, p.Ratings...)
	for _, img := range p.Images {
		v.Images = append(v.Images, ImageView{Image: pc.ImageURL(img.Image)})
	}
	return v
}

func Posts(pc Context, posts []models.Post) []PostView {
	out := make([]PostView, 0, len(posts))
	for i := range posts {
		out = append(out, Post(pc, &posts[i]))
	}
	return out
}

func ImageRows(pc Context, images []models.PostImage) []ImageRowView {
	out := make([]ImageRowView, 0, len(images))
	for _, img := range images {
		out = append(out, ImageRowView{ID: img.ID, Post: img.PostID, Image: pc.ImageURL(img.Image)})
	}
	return out
}

func formatCommentTime(t time.Time) string {
	return t.UTC().Format(commentTimeLayout)
}
