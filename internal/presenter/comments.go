package presenter

import "github.com/anonto42/info-blog/backend/internal/models"

type CommentView struct {
	ID       uint           `json:"id"`
	Text     string         `json:"text"`
	Post     uint           `json:"post"`
	User     uint           `json:"user"`
	Parent   *uint          `json:"parent"`
	Created  string         `json:"created"`
	Children []*CommentView `json:"children"`
}

// link builds one view per comment and attaches each to its parent in a
// single pass over the flat rows. Children keep the order of comments.
//
// A comment is attached only to a parent with a smaller id. Parents are
// always created before their replies, so this holds for every valid row
// and makes the result acyclic whatever the stored parent ids are. Rows
// whose parent is missing or fails the check become roots.
func link(comments []models.Comment) (map[uint]*CommentView, []*CommentView) {
	nodes := make(map[uint]*CommentView, len(comments))
	for _, c := range comments {
		nodes[c.ID] = &CommentView{
			ID:       c.ID,
			Text:     c.Text,
			Post:     c.PostID,
			User:     c.UserID,
			Parent:   c.ParentID,
			Created:  formatCommentTime(c.CreatedAt),
			Children: []*CommentView{},
		}
	}

	roots := []*CommentView{}
	for _, c := range comments {
		node := nodes[c.ID]
		if c.ParentID != nil && *c.ParentID < c.ID {
			if parent, ok := nodes[*c.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return nodes, roots
}

// CommentTree returns the root comments, each with its nested replies.
func CommentTree(comments []models.Comment) []*CommentView {
	_, roots := link(comments)
	return roots
}

// CommentSubtree returns the comment with the given id and its replies, or
// nil when it is not among comments.
func CommentSubtree(comments []models.Comment, id uint) *CommentView {
	nodes, _ := link(comments)
	return nodes[id]
}
