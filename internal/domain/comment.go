package domain

// Comment is a reader's reply attached to exactly one post.
// PostID is set at creation and never changes.
type Comment struct {
	ID     int64
	Name   string
	Email  string
	Body   string
	PostID int64
}
