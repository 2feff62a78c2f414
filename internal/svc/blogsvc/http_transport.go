package blogsvc

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mkrupp/blogapi/internal/domain"
	"github.com/mkrupp/blogapi/internal/infra/logging"
	http_ "github.com/mkrupp/blogapi/internal/infra/transport/http"
	"github.com/mkrupp/blogapi/internal/svc/authsvc/authclient"
)

const (
	// VersionHeader selects the projection of the single post read.
	VersionHeader = "VERSION"

	msgPostDeleted     = "Post entity deleted successfully..."
	msgCategoryDeleted = "Category Deleted Successfully..."
	msgCommentDeleted  = "Comment successfully deleted..."
)

// HTTPTransport serves the post, comment and category endpoints.
// Post and category mutations require a credential carrying the ADMIN role.
type HTTPTransport struct {
	cfg        BlogConfig
	posts      *PostService
	comments   *CommentService
	categories *CategoryService
	authClient authclient.AuthClient
	log        logging.Logger
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTPTransport. authClient verifies the credentials of mutation requests.
func NewHTTPTransport(
	cfg BlogConfig,
	posts *PostService,
	comments *CommentService,
	categories *CategoryService,
	authClient authclient.AuthClient,
) *HTTPTransport {
	return &HTTPTransport{
		cfg:        cfg,
		posts:      posts,
		comments:   comments,
		categories: categories,
		authClient: authClient,
		log:        logging.GetLogger("svc.blogsvc.http_transport"),
	}
}

// Routes implements http_.HTTPTransport.
func (ht *HTTPTransport) Routes(r chi.Router) {
	admin := http_.AuthorizingMiddleware(ht.authClient, domain.RoleAdmin, ht.log)

	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/v1", ht.handle("list posts", ht.handleListPosts))
		r.With(admin).Post("/v1", ht.handle("create post", ht.handleCreatePost))
		r.With(admin).Put("/v1/{id}", ht.handle("update post", ht.handleUpdatePost))
		r.With(admin).Delete("/v1/{id}", ht.handle("delete post", ht.handleDeletePost))
		r.Get("/v1/category/{id}", ht.handle("list posts by category", ht.handleListPostsByCategory))
		r.Get("/{id}", ht.handle("get post", ht.handleGetPost))

		r.Route("/{postId}/comments", func(r chi.Router) {
			r.Post("/", ht.handle("create comment", ht.handleCreateComment))
			r.Get("/", ht.handle("list comments", ht.handleListComments))
			r.Get("/{commentId}", ht.handle("get comment", ht.handleGetComment))
			r.Put("/{commentId}", ht.handle("update comment", ht.handleUpdateComment))
			r.Delete("/{commentId}", ht.handle("delete comment", ht.handleDeleteComment))
		})
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", ht.handle("list categories", ht.handleListCategories))
		r.With(admin).Post("/", ht.handle("add category", ht.handleAddCategory))
		r.Get("/{id}", ht.handle("get category", ht.handleGetCategory))
		r.With(admin).Put("/{id}", ht.handle("update category", ht.handleUpdateCategory))
		r.With(admin).Delete("/{id}", ht.handle("delete category", ht.handleDeleteCategory))
	})
}

// handle adapts fn to an http.HandlerFunc that logs the outcome and answers errors.
func (ht *HTTPTransport) handle(op string, fn func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)

		log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

		if err != nil {
			if http_.StatusOf(err) >= http.StatusInternalServerError {
				log.ErrorContext(r.Context(), op+" failed", "error", err)
			} else {
				log.DebugContext(r.Context(), op+" rejected", "error", err)
			}

			http_.WriteError(w, r, err)

			return
		}

		log.DebugContext(r.Context(), op+" done")
	}
}

func (ht *HTTPTransport) handleCreatePost(w http.ResponseWriter, r *http.Request) error {
	var req PostPayload
	if err := postSchema.Decode(r.Body, &req); err != nil {
		return err
	}

	p, err := ht.posts.CreatePost(r.Context(), req.toDomain())
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	http_.WriteJSON(w, http.StatusCreated, toPostPayload(*p))

	return nil
}

func (ht *HTTPTransport) handleListPosts(w http.ResponseWriter, r *http.Request) error {
	page, err := ht.pageRequest(r)
	if err != nil {
		return err
	}

	result, err := ht.posts.ListPosts(r.Context(), page)
	if err != nil {
		return fmt.Errorf("list posts: %w", err)
	}

	http_.WriteJSON(w, http.StatusOK, toPagedPayload(result, toPostPayload))

	return nil
}

func (ht *HTTPTransport) handleGetPost(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	version := strings.TrimSpace(r.Header.Get(VersionHeader))
	if version != "" && version != "1" && version != "2" {
		return domain.NewValidationError("unsupported " + VersionHeader + " header")
	}

	p, err := ht.posts.GetPost(r.Context(), id)
	if err != nil {
		return fmt.Errorf("get post: %w", err)
	}

	payload := toPostPayload(*p)

	if version == "2" {
		http_.WriteJSON(w, http.StatusOK, toPostV2Payload(payload, ht.cfg.PostTags))

		return nil
	}

	http_.WriteJSON(w, http.StatusOK, payload)

	return nil
}

func (ht *HTTPTransport) handleUpdatePost(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	var req PostPayload
	if err := postSchema.Decode(r.Body, &req); err != nil {
		return err
	}

	p, err := ht.posts.UpdatePost(r.Context(), id, req.toDomain())
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	http_.WriteJSON(w, http.StatusOK, toPostPayload(*p))

	return nil
}

func (ht *HTTPTransport) handleDeletePost(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	if err := ht.posts.DeletePost(r.Context(), id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	http_.WriteText(w, http.StatusOK, msgPostDeleted)

	return nil
}

func (ht *HTTPTransport) handleListPostsByCategory(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	posts, err := ht.posts.ListPostsByCategory(r.Context(), id)
	if err != nil {
		return fmt.Errorf("list posts by category: %w", err)
	}

	http_.WriteJSON(w, http.StatusOK, mapSlice(posts, toPostPayload))

	return nil
}

func (ht *HTTPTransport) handleCreateComment(w http.ResponseWriter, r *http.Request) error {
	postID, err := pathID(r, "postId")
	if err != nil {
		return err
	}

	var req CommentPayload
	if err := commentSchema.Decode(r.Body, &req); err != nil {
		return err
	}

	c, err := ht.comments.CreateComment(r.Context(), postID, req.toDomain())
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	http_.WriteJSON(w, http.StatusCreated, toCommentPayload(*c))

	return nil
}

func (ht *HTTPTransport) handleListComments(w http.ResponseWriter, r *http.Request) error {
	postID, err := pathID(r, "postId")
	if err != nil {
		return err
	}

	comments, err := ht.comments.ListComments(r.Context(), postID)
	if err != nil {
		return fmt.Errorf("list comments: %w", err)
	}

	http_.WriteJSON(w, http.StatusOK, mapSlice(comments, toCommentPayload))

	return nil
}

func (ht *HTTPTransport) handleGetComment(w http.ResponseWriter, r *http.Request) error {
	postID, commentID, err := commentPath(r)
	if err != nil {
		return err
	}

	c, err := ht.comments.GetComment(r.Context(), postID, commentID)
	if err != nil {
		return fmt.Errorf("get comment: %w", err)
	}

	http_.WriteJSON(w, http.StatusOK, toCommentPayload(*c))

	return nil
}

func (ht *HTTPTransport) handleUpdateComment(w http.ResponseWriter, r *http.Request) error {
	postID, commentID, err := commentPath(r)
	if err != nil {
		return err
	}

	var req CommentPayload
	if err := commentSchema.Decode(r.Body, &req); err != nil {
		return err
	}

	c, err := ht.comments.UpdateComment(r.Context(), postID, commentID, req.toDomain())
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	http_.WriteJSON(w, http.StatusOK, toCommentPayload(*c))

	return nil
}

func (ht *HTTPTransport) handleDeleteComment(w http.ResponseWriter, r *http.Request) error {
	postID, commentID, err := commentPath(r)
	if err != nil {
		return err
	}

	if err := ht.comments.DeleteComment(r.Context(), postID, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	http_.WriteText(w, http.StatusOK, msgCommentDeleted)

	return nil
}

func (ht *HTTPTransport) handleAddCategory(w http.ResponseWriter, r *http.Request) error {
	var req CategoryPayload
	if err := categorySchema.Decode(r.Body, &req); err != nil {
		return err
	}

	c, err := ht.categories.AddCategory(r.Context(), req.toDomain())
	if err != nil {
		return fmt.Errorf("add category: %w", err)
	}

	http_.WriteJSON(w, http.StatusCreated, toCategoryPayload(*c))

	return nil
}

func (ht *HTTPTransport) handleListCategories(w http.ResponseWriter, r *http.Request) error {
	categories, err := ht.categories.ListCategories(r.Context())
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	http_.WriteJSON(w, http.StatusOK, mapSlice(categories, toCategoryPayload))

	return nil
}

func (ht *HTTPTransport) handleGetCategory(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	c, err := ht.categories.GetCategory(r.Context(), id)
	if err != nil {
		return fmt.Errorf("get category: %w", err)
	}

	http_.WriteJSON(w, http.StatusOK, toCategoryPayload(*c))

	return nil
}

func (ht *HTTPTransport) handleUpdateCategory(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	var req CategoryPayload
	if err := categorySchema.Decode(r.Body, &req); err != nil {
		return err
	}

	c, err := ht.categories.UpdateCategory(r.Context(), id, req.toDomain())
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	http_.WriteJSON(w, http.StatusOK, toCategoryPayload(*c))

	return nil
}

func (ht *HTTPTransport) handleDeleteCategory(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	if err := ht.categories.DeleteCategory(r.Context(), id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	http_.WriteText(w, http.StatusOK, msgCategoryDeleted)

	return nil
}

// pageRequest reads pageNo, pageSize, sortBy and sortDir from the query string.
func (ht *HTTPTransport) pageRequest(r *http.Request) (domain.PageRequest, error) {
	q := r.URL.Query()

	defaultPageSize := ht.cfg.DefaultPageSize
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}

	page := domain.PageRequest{
		PageNumber: 0,
		PageSize:   defaultPageSize,
		SortBy:     "id",
		SortDir:    domain.SortAsc,
	}

	if v := q.Get("pageNo"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.PageRequest{}, domain.NewValidationError("pageNo must be an integer")
		}

		page.PageNumber = n
	}

	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.PageRequest{}, domain.NewValidationError("pageSize must be an integer")
		}

		page.PageSize = n
	}

	if v := q.Get("sortBy"); v != "" {
		page.SortBy = v
	}

	if v := q.Get("sortDir"); v != "" {
		page.SortDir = domain.ParseSortDirection(v)
	}

	return page, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, domain.NewValidationError(name + " must be an integer")
	}

	return id, nil
}

func commentPath(r *http.Request) (int64, int64, error) {
	postID, err := pathID(r, "postId")
	if err != nil {
		return 0, 0, err
	}

	commentID, err := pathID(r, "commentId")
	if err != nil {
		return 0, 0, err
	}

	return postID, commentID, nil
}
