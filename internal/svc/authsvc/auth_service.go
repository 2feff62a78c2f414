package authsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkrupp/blogapi/internal/domain"
	"github.com/mkrupp/blogapi/internal/infra/logging"
	"github.com/mkrupp/blogapi/internal/repo/user"
	"github.com/mkrupp/blogapi/internal/svc/authsvc/authclient"
)

// ErrInvalidLifetime is returned when the configured token lifetime is shorter than one second.
var ErrInvalidLifetime = errors.New("token lifetime must be at least one second")

// AuthConfig contains configuration parameters for the authentication service.
type AuthConfig struct {
	// SigningSecret is the base64 encoded HMAC key; takes precedence over SigningKeyFile
	SigningSecret string `env:"SIGNING_SECRET" default:""`

	// SigningKeyFile is loaded, or generated if missing, when no secret is configured
	SigningKeyFile string `env:"SIGNING_KEY_FILE" default:"var/storage/blogapi.key"`

	// TokenLifetime is the validity duration of issued credentials
	TokenLifetime time.Duration `env:"TOKEN_LIFETIME" default:"1h"`

	// BcryptCost is the work factor for password hashes
	BcryptCost int `env:"BCRYPT_COST" default:"10"`
}

// AuthService issues and verifies credentials and manages the accounts allowed to log in.
type AuthService struct {
	Config   AuthConfig
	UserRepo user.Repository
	Log      logging.Logger
	Codec    *CredentialCodec

	// Now is the clock used for issuing and expiry checks.
	Now func() time.Time
}

var _ authclient.AuthClient = (*AuthService)(nil)

// NewAuthService creates a new AuthService with the given user repository factory and configuration.
// Returns an error if the signing key cannot be loaded, the lifetime is invalid,
// or the user repository cannot be created.
func NewAuthService(repoFactory user.RepositoryFactory, cfg AuthConfig) (*AuthService, error) {
	svc, err := NewCredentialService(cfg)
	if err != nil {
		return nil, err
	}

	userRepo, err := repoFactory()
	if err != nil {
		return nil, fmt.Errorf("new user repo: %w", err)
	}

	svc.UserRepo = userRepo

	return svc, nil
}

// NewCredentialService creates an AuthService that can issue and verify credentials
// but has no user repository, so Register and Login are unavailable.
func NewCredentialService(cfg AuthConfig) (*AuthService, error) {
	if cfg.TokenLifetime < time.Second {
		return nil, ErrInvalidLifetime
	}

	key, err := GetSigningKey(cfg)
	if err != nil {
		return nil, fmt.Errorf("get signing key: %w", err)
	}

	codec, err := NewCredentialCodec(key)
	if err != nil {
		return nil, fmt.Errorf("new credential codec: %w", err)
	}

	return &AuthService{
		Config:   cfg,
		UserRepo: nil,
		Log:      logging.GetLogger("svc.authsvc.auth_service"),
		Codec:    codec,
		Now:      time.Now,
	}, nil
}

// Issue creates a credential for subject valid from now for the configured lifetime.
func (s *AuthService) Issue(ctx context.Context, subject domain.Subject) (cred domain.Credential, err error) {
	log := s.Log.With(logging.Group("subject", "name", subject.Name, "roles", subject.Roles))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "issue credential failed", "error", err)
		} else {
			log.DebugContext(ctx, "credential issued", logging.Group("credential",
				"iat", cred.IssuedAt.UTC().Format(time.RFC3339),
				"exp", cred.ExpiresAt.UTC().Format(time.RFC3339),
			))
		}
	}()

	now := s.Now().Truncate(time.Second)
	claims := domain.Claims{
		Subject:   subject,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.Config.TokenLifetime),
	}

	token, err := s.Codec.Encode(claims)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("encode credential: %w", err)
	}

	return domain.Credential{
		Token:     token,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// Verify checks token and returns the subject it was issued for.
// Failures are, in order of precedence: ErrCredentialMissing for a blank token,
// ErrCredentialMalformed, ErrCredentialUnsupported and ErrCredentialExpired.
func (s *AuthService) Verify(ctx context.Context, token string) (subject domain.Subject, err error) {
	log := s.Log

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "verify credential failed", "error", err)
		} else {
			log.DebugContext(ctx, "credential verified")
		}
	}()

	if strings.TrimSpace(token) == "" {
		return domain.Subject{}, domain.ErrCredentialMissing
	}

	claims, err := s.Codec.Decode(token)
	if err != nil {
		return domain.Subject{}, err
	}

	log = log.With(logging.Group("subject", "name", claims.Subject.Name))

	if !s.Now().Before(claims.ExpiresAt) {
		return domain.Subject{}, domain.ErrCredentialExpired
	}

	return claims.Subject, nil
}

// ExtractSubjectName verifies token and returns the subject name.
func (s *AuthService) ExtractSubjectName(ctx context.Context, token string) (string, error) {
	subject, err := s.Verify(ctx, token)
	if err != nil {
		return "", err
	}

	return subject.Name, nil
}

// RegisterUser creates a new account with the given roles.
// The password is stored as a bcrypt hash.
func (s *AuthService) RegisterUser(
	ctx context.Context,
	name, username, email, password string,
	roles ...domain.Role,
) (_ *domain.User, err error) {
	log := s.Log.With(logging.Group("user", "username", username, "email", email, "roles", roles))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "register user failed", "error", err)
		} else {
			log.DebugContext(ctx, "user registered")
		}
	}()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost())
	if err != nil {
		return nil, errors.Join(domain.ErrInvalidPayload, fmt.Errorf("hash password: %w", err))
	}

	if len(roles) == 0 {
		roles = []domain.Role{domain.RoleUser}
	}

	u := &domain.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Roles:        roles,
	}

	if err := s.UserRepo.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

// Login checks the password of the account whose username or email equals login
// and issues a credential carrying the account's roles.
func (s *AuthService) Login(ctx context.Context, login, password string) (_ domain.Credential, err error) {
	log := s.Log.With(logging.Group("user", "login", login))

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "login failed", "error", err)
		} else {
			log.DebugContext(ctx, "login successful")
		}
	}()

	u, ok, err := s.UserRepo.GetUserByUsernameOrEmail(ctx, login)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("get user: %w", err)
	} else if !ok {
		return domain.Credential{}, errors.Join(domain.ErrInvalidCredentials, domain.ErrUserNotFound)
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return domain.Credential{}, domain.ErrInvalidCredentials
	}

	return s.Issue(ctx, u.Subject())
}

func (s *AuthService) bcryptCost() int {
	if s.Config.BcryptCost < bcrypt.MinCost {
		return bcrypt.DefaultCost
	}

	return s.Config.BcryptCost
}
