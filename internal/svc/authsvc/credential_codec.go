package authsvc

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkrupp/blogapi/internal/domain"
)

var errUnsupportedScheme = errors.New("unsupported signing scheme")

type credentialClaims struct {
	Roles []domain.Role `json:"roles"`
	jwt.RegisteredClaims
}

// CredentialCodec signs and decodes credentials as HMAC-SHA256 JWTs.
// It does not check expiry; that is up to the caller's clock.
type CredentialCodec struct {
	key    []byte
	method *jwt.SigningMethodHMAC
	parser *jwt.Parser
}

// NewCredentialCodec returns a codec using key, which must be at least MinKeySize bytes.
func NewCredentialCodec(key []byte) (*CredentialCodec, error) {
	if len(key) < MinKeySize {
		return nil, fmt.Errorf("%w: %d < %d bytes", ErrKeyTooShort, len(key), MinKeySize)
	}

	return &CredentialCodec{
		key:    key,
		method: jwt.SigningMethodHS256,
		parser: jwt.NewParser(jwt.WithoutClaimsValidation(), jwt.WithStrictDecoding()),
	}, nil
}

// Encode signs claims into a compact token.
func (c *CredentialCodec) Encode(claims domain.Claims) (string, error) {
	token := jwt.NewWithClaims(c.method, credentialClaims{
		Roles: claims.Subject.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject.Name,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})

	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Decode checks the signature of token and returns its claims.
// It fails with ErrCredentialUnsupported if the token names any algorithm other than HS256,
// and with ErrCredentialMalformed for every other decode or signature failure.
// The algorithm is resolved before the signature is checked, so a token naming a foreign
// algorithm is ErrCredentialUnsupported even when its signature is garbage.
// Segments are decoded strictly: a signature whose unused trailing bits are set is malformed.
// The underlying parse error is not included since it may quote the token.
func (c *CredentialCodec) Decode(token string) (domain.Claims, error) {
	var claims credentialClaims

	_, err := c.parser.ParseWithClaims(token, &claims, c.keyFunc)

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.Claims{}, domain.ErrCredentialUnsupported
	default:
		return domain.Claims{}, domain.ErrCredentialMalformed
	}

	if claims.ExpiresAt == nil || claims.IssuedAt == nil || claims.Subject == "" {
		return domain.Claims{}, domain.ErrCredentialMalformed
	}

	roles := claims.Roles
	if roles == nil {
		roles = []domain.Role{}
	}

	return domain.Claims{
		Subject:   domain.Subject{Name: claims.Subject, Roles: roles},
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (c *CredentialCodec) keyFunc(token *jwt.Token) (any, error) {
	if token.Method != c.method {
		return nil, fmt.Errorf("%w: %s", errUnsupportedScheme, token.Method.Alg())
	}

	return c.key, nil
}
