package domain

import "errors"

// ErrorCode is the machine readable kind of a failure reported to API clients.
type ErrorCode string

const (
	CodeCredentialMissing     ErrorCode = "CREDENTIAL_MISSING"
	CodeCredentialMalformed   ErrorCode = "CREDENTIAL_MALFORMED"
	CodeCredentialUnsupported ErrorCode = "CREDENTIAL_UNSUPPORTED"
	CodeCredentialExpired     ErrorCode = "CREDENTIAL_EXPIRED"
	CodeForbiddenRole         ErrorCode = "FORBIDDEN_ROLE"
	CodeInvalidCredentials    ErrorCode = "INVALID_CREDENTIALS"
	CodeNotFound              ErrorCode = "RESOURCE_NOT_FOUND"
	CodeOwnershipMismatch     ErrorCode = "OWNERSHIP_MISMATCH"
	CodeInvalidPayload        ErrorCode = "INVALID_PAYLOAD"
	CodeUserAlreadyExists     ErrorCode = "USER_ALREADY_EXISTS"
	CodeInternal              ErrorCode = "INTERNAL"
)

//nolint:gochecknoglobals
var codedErrors = []struct {
	code ErrorCode
	err  error
}{
	{CodeCredentialMissing, ErrCredentialMissing},
	{CodeCredentialMalformed, ErrCredentialMalformed},
	{CodeCredentialUnsupported, ErrCredentialUnsupported},
	{CodeCredentialExpired, ErrCredentialExpired},
	{CodeForbiddenRole, ErrForbiddenRole},
	{CodeInvalidCredentials, ErrInvalidCredentials},
	{CodeNotFound, ErrNotFound},
	{CodeOwnershipMismatch, ErrOwnershipMismatch},
	{CodeInvalidPayload, ErrInvalidPayload},
	{CodeUserAlreadyExists, ErrUserAlreadyExists},
}

// CodeOf returns the code of the first known failure err wraps, or CodeInternal.
func CodeOf(err error) ErrorCode {
	for _, c := range codedErrors {
		if errors.Is(err, c.err) {
			return c.code
		}
	}

	return CodeInternal
}

// ErrorOf returns the sentinel error for code, or nil if code is unknown.
func ErrorOf(code ErrorCode) error {
	for _, c := range codedErrors {
		if c.code == code {
			return c.err
		}
	}

	return nil
}
