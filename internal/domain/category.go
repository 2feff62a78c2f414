package domain

// Category groups posts.
type Category struct {
	ID          int64
	Name        string
	Description string
}
