package port

import (
	"context"

	"github.com/arturoeanton/jal-rakshak/internal/domain"
)

// IdentityProvider abstracts the external credential store that issues and
// verifies bearer tokens.
type IdentityProvider interface {
	// CreateUser creates a new identity. Provider-side rejections (duplicate
	// email, weak password) are returned as *ProviderError.
	CreateUser(ctx context.Context, in domain.NewIdentity) (*domain.Identity, error)

	// DeleteUser removes an identity. Used to undo a half-finished registration.
	DeleteUser(ctx context.Context, uid string) error

	// VerifyIDToken checks a bearer token and returns its claims.
	VerifyIDToken(ctx context.Context, token string) (*domain.UserContext, error)
}

// TokenVerifier is the subset of IdentityProvider the request gate needs.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, token string) (*domain.UserContext, error)
}
