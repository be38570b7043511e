package auth

import (
	"errors"
	"time"

	"github.com/money-manager/money-manager/internal/shared"
	"github.com/money-manager/money-manager/internal/users"
)

var (
	// ErrTokenMalformed covers unparseable tokens and signature mismatches.
	ErrTokenMalformed = errors.New("auth: token malformed")
	// ErrTokenExpired indicates a correctly signed token past its expiry.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrTokenRevoked indicates a token issued before the user's revocation epoch.
	ErrTokenRevoked = errors.New("auth: token revoked")
	// ErrCorruptCredential indicates stored salt or key material cannot be decoded.
	ErrCorruptCredential = errors.New("auth: corrupt credential")
	// ErrEmailTaken indicates the email is already bound to another credential.
	ErrEmailTaken = errors.New("auth: email already registered")
	// ErrUserMissing indicates the credential references a user that does not exist.
	ErrUserMissing = errors.New("auth: user does not exist")
)

// Credential is the login material of one user, keyed by the user id.
type Credential struct {
	UserID    int64      `json:"id"`
	Email     string     `json:"email"`
	Secret    Secret     `json:"-"`
	LastLogin *time.Time `json:"last_login"`
}

// Mask returns a copy of c with all secret material cleared.
func (c Credential) Mask() Credential {
	c.Secret = Secret{}
	return c
}

// CredentialInput is the request body for registration, login and update.
type CredentialInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID int64
	User   users.User
}

// Reason classifies why a request failed authentication.
type Reason string

const (
	ReasonMissing  Reason = "missing"
	ReasonBadCount Reason = "bad_count"
	ReasonInvalid  Reason = "invalid"
	ReasonBroken   Reason = "broken"
)

// RejectedError is returned by the Authenticator for every refused request.
// It matches shared.ErrUnauthorized under errors.Is.
type RejectedError struct {
	Reason Reason
	Cause  error
}

func (e *RejectedError) Error() string {
	if e.Cause == nil {
		return "auth: rejected: " + string(e.Reason)
	}
	return "auth: rejected: " + string(e.Reason) + ": " + e.Cause.Error()
}

func (e *RejectedError) Unwrap() error { return e.Cause }

// Is reports shared.ErrUnauthorized as a match.
func (e *RejectedError) Is(target error) bool {
	return target == shared.ErrUnauthorized
}

// Detail distinguishes invalid tokens for logging: malformed, expired or revoked.
func (e *RejectedError) Detail() string {
	switch {
	case errors.Is(e.Cause, ErrTokenExpired):
		return "expired"
	case errors.Is(e.Cause, ErrTokenRevoked):
		return "revoked"
	case errors.Is(e.Cause, ErrTokenMalformed):
		return "malformed"
	default:
		return string(e.Reason)
	}
}

func reject(reason Reason, cause error) error {
	return &RejectedError{Reason: reason, Cause: cause}
}
