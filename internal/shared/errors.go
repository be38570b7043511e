package shared

import "errors"

var (
	// ErrNotFound indicates the resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the resource exists but the caller is not entitled to it.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized indicates the request carried no acceptable credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrDuplicate indicates a uniqueness constraint rejected the write.
	ErrDuplicate = errors.New("already exists")
	// ErrValidation indicates a malformed request body or parameter.
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates the write conflicts with existing dependent state.
	ErrConflict = errors.New("conflict")
	// ErrTooLarge indicates a request body over the accepted size.
	ErrTooLarge = errors.New("request body too large")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
