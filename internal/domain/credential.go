package domain

import (
	"errors"
	"slices"
	"time"
)

var (
	// ErrCredentialMissing is returned when no credential is presented or the presented one is blank.
	ErrCredentialMissing = errors.New("credential missing")
	// ErrCredentialMalformed is returned when a credential cannot be decoded or its signature does not match.
	ErrCredentialMalformed = errors.New("credential malformed")
	// ErrCredentialUnsupported is returned when a credential is signed with an unsupported scheme.
	ErrCredentialUnsupported = errors.New("credential unsupported")
	// ErrCredentialExpired is returned when a credential is used at or after its expiry.
	ErrCredentialExpired = errors.New("credential expired")
	// ErrForbiddenRole is returned when the verified subject lacks the required role.
	ErrForbiddenRole = errors.New("forbidden role")
)

// Role is a named permission granted to a subject.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Subject is an authenticated principal carried inside a credential.
type Subject struct {
	Name  string `json:"name"`
	Roles []Role `json:"roles"`
}

// HasRole reports whether the subject was granted role.
func (s Subject) HasRole(role Role) bool {
	return slices.Contains(s.Roles, role)
}

// Claims is the decoded content of a credential.
type Claims struct {
	Subject   Subject
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Credential is an issued, signed access token.
type Credential struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// CredentialResponse is returned to clients after a successful login.
type CredentialResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}
