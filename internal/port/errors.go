package port

import "errors"

// Sentinel errors used across ports.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrTokenInvalid    = errors.New("token invalid")
	ErrProfileWrite    = errors.New("profile write failed")
	ErrEmptyCompletion = errors.New("completion returned no choices")
)

// ProviderError carries a message produced by an external provider. Its
// Error() is the provider's text, unchanged, so it can be shown to callers.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string { return e.Err.Error() }

func (e *ProviderError) Unwrap() error { return e.Err }
