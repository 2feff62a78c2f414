package domain

// Post is a blog article filed under a category.
type Post struct {
	ID          int64
	Title       string
	Description string
	Content     string
	CategoryID  int64
	Comments    []Comment
}
