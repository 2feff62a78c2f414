package blogsvc

// BlogConfig contains configuration parameters for the blog services.
type BlogConfig struct {
	// DefaultPageSize is used when a listing request names no page size
	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE" default:"10"`

	// MaxPageSize caps the page size of listing requests
	MaxPageSize int `env:"MAX_PAGE_SIZE" default:"100"`

	// PostTags is the tag list added by version 2 of the single post read
	PostTags []string `env:"POST_TAGS" default:"Java,Spring-Boot,AWS"`
}
