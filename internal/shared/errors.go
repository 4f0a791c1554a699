package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrInvalidCredentials indicates login failure. The same value is
	// returned for an unknown email and for a wrong password so that the
	// response does not reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountDeactivated indicates the account exists but is disabled.
	ErrAccountDeactivated = errors.New("account deactivated")
	// ErrSessionInvalid covers every bad-token case: missing, malformed,
	// tampered or expired. Callers treat all of them as "no session".
	ErrSessionInvalid = errors.New("session invalid")
	// ErrForbidden indicates an authenticated request denied by policy.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation indicates request payload validation failure.
	ErrValidation = errors.New("validation failed")
)
