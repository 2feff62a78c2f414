package authsvc

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkrupp/blogapi/internal/domain"
	"github.com/mkrupp/blogapi/internal/infra/logging"
	http_ "github.com/mkrupp/blogapi/internal/infra/transport/http"
	"github.com/mkrupp/blogapi/internal/svc/authsvc/authclient"
)

const tokenTypeBearer = "Bearer"

// HTTPTransport handles HTTP requests for the authentication service.
// It provides endpoints for user registration, login, and credential validation.
type HTTPTransport struct {
	authSvc *AuthService
	log     logging.Logger
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTPTransport serving authSvc.
func NewHTTPTransport(authSvc *AuthService) *HTTPTransport {
	return &HTTPTransport{
		authSvc: authSvc,
		log:     logging.GetLogger("svc.authsvc.http_transport"),
	}
}

// Routes mounts the auth endpoints:
// - POST /api/auth/register: Register a new user
// - POST /api/auth/login: Login and get a credential
// - POST /api/auth/validate: Verify the bearer credential and return its subject.
func (ht *HTTPTransport) Routes(r chi.Router) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", ht.HandleRegister)
		r.Post("/login", ht.HandleLogin)
		r.Post("/validate", ht.HandleValidate)
	})
}

// HandleRegister processes user registration requests. New accounts always get the USER role.
func (ht *HTTPTransport) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := ht.handleRegister(w, r); err != nil {
		http_.WriteError(w, r, err)
	}
}

func (ht *HTTPTransport) handleRegister(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.WarnContext(ctx, "user register failed", "error", err)
		} else {
			log.DebugContext(ctx, "user registered")
		}
	}(r.Context())

	var req RegisterRequest
	if err := registerSchema.Decode(r.Body, &req); err != nil {
		return err
	}

	log = log.With(logging.Group("user", "username", req.Username))

	if _, err := ht.authSvc.RegisterUser(r.Context(),
		req.Name, req.Username, req.Email, req.Password, domain.RoleUser,
	); err != nil {
		return fmt.Errorf("register user: %w", err)
	}

	http_.WriteJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully!"})

	return nil
}

// HandleLogin processes user login requests and answers with a bearer credential.
func (ht *HTTPTransport) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := ht.handleLogin(w, r); err != nil {
		http_.WriteError(w, r, err)
	}
}

func (ht *HTTPTransport) handleLogin(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.WarnContext(ctx, "user login failed", "error", err)
		} else {
			log.DebugContext(ctx, "user logged in")
		}
	}(r.Context())

	var req LoginRequest
	if err := loginSchema.Decode(r.Body, &req); err != nil {
		return err
	}

	log = log.With(logging.Group("user", "login", req.UsernameOrEmail))

	cred, err := ht.authSvc.Login(r.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		return fmt.Errorf("login user: %w", err)
	}

	http_.WriteJSON(w, http.StatusOK, domain.CredentialResponse{
		AccessToken: cred.Token,
		TokenType:   tokenTypeBearer,
	})

	return nil
}

// HandleValidate verifies the bearer credential of the request.
// Answers with the subject it was issued for, or a coded error remote clients map back.
func (ht *HTTPTransport) HandleValidate(w http.ResponseWriter, r *http.Request) {
	if err := ht.handleValidate(w, r); err != nil {
		http_.WriteError(w, r, err)
	}
}

func (ht *HTTPTransport) handleValidate(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.DebugContext(ctx, "credential rejected", "code", domain.CodeOf(err))
		} else {
			log.DebugContext(ctx, "credential validated")
		}
	}(r.Context())

	token, err := authclient.BearerToken(r.Header.Get(authclient.AuthorizationHeader))
	if err != nil {
		return err
	}

	subject, err := ht.authSvc.Verify(r.Context(), token)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	http_.WriteJSON(w, http.StatusOK, subject)

	return nil
}
