package authsvc_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkrupp/blogapi/internal/domain"
	"github.com/mkrupp/blogapi/internal/infra/logging"
	"github.com/mkrupp/blogapi/internal/repo/user"
	"github.com/mkrupp/blogapi/internal/svc/authsvc"
)

// mockUserRepository implements user.Repository for testing.
type mockUserRepository struct {
	users map[string]*domain.User
	err   error
	m     sync.Mutex
}

func (m *mockUserRepository) CreateUser(_ context.Context, u *domain.User) error {
	m.m.Lock()
	defer m.m.Unlock()

	if m.err != nil {
		return m.err
	}

	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return domain.ErrUserAlreadyExists
		}
	}

	u.ID = int64(len(m.users) + 1)
	u.CreatedAt = time.Now().Unix()
	m.users[u.Username] = u

	return nil
}

func (m *mockUserRepository) GetUserByUsernameOrEmail(_ context.Context, login string) (*domain.User, bool, error) {
	m.m.Lock()
	defer m.m.Unlock()

	if m.err != nil {
		return nil, false, m.err
	}

	for _, u := range m.users {
		if u.Username == login || u.Email == login {
			return u, true, nil
		}
	}

	return nil, false, nil
}

var ErrRepoError = errors.New("repository error")

// clock is a manually advanced time source.
type clock struct {
	now time.Time
	m   sync.Mutex
}

func (c *clock) Now() time.Time {
	c.m.Lock()
	defer c.m.Unlock()

	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.m.Lock()
	defer c.m.Unlock()

	c.now = c.now.Add(d)
}

var testKey = []byte("0123456789abcdef0123456789abcdef")

func setupTestService(t *testing.T) (*authsvc.AuthService, *mockUserRepository, *clock) {
	t.Helper()

	codec, err := authsvc.NewCredentialCodec(testKey)
	require.NoError(t, err)

	mockRepo := &mockUserRepository{users: make(map[string]*domain.User)}
	clk := &clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}

	svc := &authsvc.AuthService{
		Config: authsvc.AuthConfig{
			TokenLifetime: time.Hour,
			BcryptCost:    bcrypt.MinCost,
		},
		UserRepo: mockRepo,
		Log:      logging.GetLogger("test.authsvc"),
		Codec:    codec,
		Now:      clk.Now,
	}

	return svc, mockRepo, clk
}

var admin = domain.Subject{Name: "admin", Roles: []domain.Role{domain.RoleAdmin}}

func TestAuthService_IssueVerify(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("round trip keeps name and roles", func(t *testing.T) {
		t.Parallel()

		svc, _, clk := setupTestService(t)

		cred, err := svc.Issue(ctx, admin)
		require.NoError(t, err)
		assert.Equal(t, clk.Now(), cred.IssuedAt)
		assert.Equal(t, clk.Now().Add(time.Hour), cred.ExpiresAt)

		got, err := svc.Verify(ctx, cred.Token)
		require.NoError(t, err)
		assert.Equal(t, admin, got)

		name, err := svc.ExtractSubjectName(ctx, cred.Token)
		require.NoError(t, err)
		assert.Equal(t, "admin", name)
	})

	t.Run("valid until just before expiry", func(t *testing.T) {
		t.Parallel()

		svc, _, clk := setupTestService(t)

		cred, err := svc.Issue(ctx, admin)
		require.NoError(t, err)

		clk.Advance(time.Hour - time.Nanosecond)

		_, err = svc.Verify(ctx, cred.Token)
		require.NoError(t, err)
	})

	t.Run("expired once lifetime has passed", func(t *testing.T) {
		t.Parallel()

		svc, _, clk := setupTestService(t)

		cred, err := svc.Issue(ctx, admin)
		require.NoError(t, err)

		clk.Advance(time.Hour)

		_, err = svc.Verify(ctx, cred.Token)
		require.ErrorIs(t, err, domain.ErrCredentialExpired)

		_, err = svc.ExtractSubjectName(ctx, cred.Token)
		require.ErrorIs(t, err, domain.ErrCredentialExpired)
	})

	t.Run("blank token is missing", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := setupTestService(t)

		for _, token := range []string{"", "   ", "\t\n"} {
			_, err := svc.Verify(ctx, token)
			assert.ErrorIs(t, err, domain.ErrCredentialMissing)
		}
	})
}

func TestAuthService_VerifyRejectsTampering(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, _ := setupTestService(t)

	cred, err := svc.Issue(ctx, admin)
	require.NoError(t, err)

	parts := strings.Split(cred.Token, ".")
	require.Len(t, parts, 3)

	signature, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	for i := range signature {
		tampered := append([]byte(nil), signature...)
		tampered[i] ^= 0x01

		token := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(tampered)

		_, err := svc.Verify(ctx, token)
		require.ErrorIs(t, err, domain.ErrCredentialMalformed, "signature byte %d", i)
	}

	t.Run("payload with other roles", func(t *testing.T) {
		payload, err := json.Marshal(map[string]any{
			"sub":   "admin",
			"roles": []string{"ADMIN", "SUPERUSER"},
			"iat":   cred.IssuedAt.Unix(),
			"exp":   cred.ExpiresAt.Unix(),
		})
		require.NoError(t, err)

		token := parts[0] + "." + base64.RawURLEncoding.EncodeToString(payload) + "." + parts[2]

		_, err = svc.Verify(ctx, token)
		assert.ErrorIs(t, err, domain.ErrCredentialMalformed)
	})

	t.Run("last signature character", func(t *testing.T) {
		const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

		last := parts[2][len(parts[2])-1]

		for _, c := range []byte(alphabet) {
			if c == last {
				continue
			}

			token := parts[0] + "." + parts[1] + "." + parts[2][:len(parts[2])-1] + string(c)

			_, err := svc.Verify(ctx, token)
			require.ErrorIs(t, err, domain.ErrCredentialMalformed, "last signature char %q -> %q", last, c)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		for _, token := range []string{"abc", "a.b.c", "a.b", "!!!.???.###"} {
			_, err := svc.Verify(ctx, token)
			assert.ErrorIs(t, err, domain.ErrCredentialMalformed, token)
		}
	})
}

func TestAuthService_VerifyUnsupportedScheme(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, clk := setupTestService(t)

	claims := jwt.MapClaims{
		"sub":   "admin",
		"roles": []string{"ADMIN"},
		"iat":   clk.Now().Unix(),
		"exp":   clk.Now().Add(time.Hour).Unix(),
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testKey)
	require.NoError(t, err)

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"XY999","typ":"JWT"}`))
	unknown := header + "." + strings.Split(hs512, ".")[1] + ".c2ln"

	for name, token := range map[string]string{"none": none, "HS512": hs512, "unknown": unknown} {
		_, err := svc.Verify(ctx, token)
		assert.ErrorIs(t, err, domain.ErrCredentialUnsupported, name)
	}
}

func TestAuthService_RegisterUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		repoErr  error
		wantErr  error
	}{
		{name: "successful registration", username: "newuser", email: "new@example.com"},
		{name: "duplicate username", username: "existing", email: "other@example.com", wantErr: domain.ErrUserAlreadyExists},
		{name: "duplicate email", username: "other", email: "existing@example.com", wantErr: domain.ErrUserAlreadyExists},
		{name: "repository error", username: "erroruser", email: "e@example.com", repoErr: ErrRepoError, wantErr: ErrRepoError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, mockRepo, _ := setupTestService(t)

			_, err := svc.RegisterUser(ctx, "Existing", "existing", "existing@example.com", "password123")
			require.NoError(t, err)

			mockRepo.err = tt.repoErr

			u, err := svc.RegisterUser(ctx, "New", tt.username, tt.email, "password123")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, []domain.Role{domain.RoleUser}, u.Roles)
			assert.NotEqual(t, []byte("password123"), u.PasswordHash)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, mockRepo, _ := setupTestService(t)

	_, err := svc.RegisterUser(ctx, "Admin", "admin", "admin@example.com", "testpass123", domain.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name     string
		login    string
		password string
		repoErr  error
		wantErr  error
	}{
		{name: "by username", login: "admin", password: "testpass123"},
		{name: "by email", login: "admin@example.com", password: "testpass123"},
		{name: "wrong password", login: "admin", password: "wrong", wantErr: domain.ErrInvalidCredentials},
		{name: "unknown user", login: "nobody", password: "testpass123", wantErr: domain.ErrInvalidCredentials},
		{name: "repository error", login: "admin", password: "testpass123", repoErr: ErrRepoError, wantErr: ErrRepoError},
	}

	//nolint:paralleltest
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.err = tt.repoErr
			defer func() { mockRepo.err = nil }()

			cred, err := svc.Login(ctx, tt.login, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)

			subject, err := svc.Verify(ctx, cred.Token)
			require.NoError(t, err)
			assert.Equal(t, admin, subject)
		})
	}
}

func TestNewAuthService(t *testing.T) {
	t.Parallel()

	factory := func() (user.Repository, error) {
		return &mockUserRepository{users: make(map[string]*domain.User)}, nil
	}

	t.Run("generates and reuses key file", func(t *testing.T) {
		t.Parallel()

		cfg := authsvc.AuthConfig{
			TokenLifetime:  time.Hour,
			SigningKeyFile: filepath.Join(t.TempDir(), "keys", "blogapi.key"),
		}

		first, err := authsvc.NewAuthService(factory, cfg)
		require.NoError(t, err)

		cred, err := first.Issue(context.Background(), admin)
		require.NoError(t, err)

		second, err := authsvc.NewAuthService(factory, cfg)
		require.NoError(t, err)

		got, err := second.Verify(context.Background(), cred.Token)
		require.NoError(t, err)
		assert.Equal(t, admin, got)
	})

	t.Run("uses configured secret", func(t *testing.T) {
		t.Parallel()

		svc, err := authsvc.NewAuthService(factory, authsvc.AuthConfig{
			TokenLifetime: time.Hour,
			SigningSecret: base64.StdEncoding.EncodeToString(testKey),
		})
		require.NoError(t, err)

		cred, err := svc.Issue(context.Background(), admin)
		require.NoError(t, err)

		codec, err := authsvc.NewCredentialCodec(testKey)
		require.NoError(t, err)

		claims, err := codec.Decode(cred.Token)
		require.NoError(t, err)
		assert.Equal(t, admin, claims.Subject)
	})

	t.Run("rejects short lifetime", func(t *testing.T) {
		t.Parallel()

		_, err := authsvc.NewAuthService(nil, authsvc.AuthConfig{TokenLifetime: 0})
		assert.ErrorIs(t, err, authsvc.ErrInvalidLifetime)
	})

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()

		_, err := authsvc.NewAuthService(nil, authsvc.AuthConfig{
			TokenLifetime: time.Hour,
			SigningSecret: base64.StdEncoding.EncodeToString([]byte("short")),
		})
		assert.ErrorIs(t, err, authsvc.ErrKeyTooShort)
	})
}

func TestNewCredentialService(t *testing.T) {
	t.Parallel()

	secret := base64.StdEncoding.EncodeToString(testKey)

	tests := []struct {
		name    string
		cfg     authsvc.AuthConfig
		wantErr error
	}{
		{"issues with secret", authsvc.AuthConfig{TokenLifetime: time.Hour, SigningSecret: secret}, nil},
		{"zero lifetime", authsvc.AuthConfig{TokenLifetime: 0, SigningSecret: secret}, authsvc.ErrInvalidLifetime},
		{"sub-second lifetime", authsvc.AuthConfig{TokenLifetime: 500 * time.Millisecond, SigningSecret: secret}, authsvc.ErrInvalidLifetime},
		{
			"short secret",
			authsvc.AuthConfig{TokenLifetime: time.Hour, SigningSecret: base64.StdEncoding.EncodeToString([]byte("short"))},
			authsvc.ErrKeyTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, err := authsvc.NewCredentialService(tt.cfg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Nil(t, svc.UserRepo)

			cred, err := svc.Issue(context.Background(), admin)
			require.NoError(t, err)

			got, err := svc.Verify(context.Background(), cred.Token)
			require.NoError(t, err)
			assert.Equal(t, admin, got)
		})
	}
}
