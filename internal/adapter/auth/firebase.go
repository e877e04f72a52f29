package auth

import (
	"context"
	"fmt"

	firebaseauth "firebase.google.com/go/v4/auth"

	"github.com/arturoeanton/jal-rakshak/internal/domain"
	"github.com/arturoeanton/jal-rakshak/internal/port"
)

// firebaseClient is the part of *firebaseauth.Client the provider uses.
type firebaseClient interface {
	CreateUser(ctx context.Context, user *firebaseauth.UserToCreate) (*firebaseauth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// FirebaseProvider implements port.IdentityProvider on Firebase Authentication.
type FirebaseProvider struct {
	client firebaseClient
}

// NewFirebaseProvider wraps an initialized Firebase Auth client.
func NewFirebaseProvider(client *firebaseauth.Client) *FirebaseProvider {
	return &FirebaseProvider{client: client}
}

// CreateUser creates an email/password identity.
func (p *FirebaseProvider) CreateUser(ctx context.Context, in domain.NewIdentity) (*domain.Identity, error) {
	params := (&firebaseauth.UserToCreate{}).
		Email(in.Email).
		Password(in.Password)
	// Firebase rejects an empty display name.
	if in.Name != "" {
		params = params.DisplayName(in.Name)
	}

	rec, err := p.client.CreateUser(ctx, params)
	if err != nil {
		return nil, &port.ProviderError{Op: "create user", Err: err}
	}

	return &domain.Identity{
		UID:   rec.UID,
		Email: rec.Email,
		Name:  rec.DisplayName,
	}, nil
}

// DeleteUser removes an identity by UID.
func (p *FirebaseProvider) DeleteUser(ctx context.Context, uid string) error {
	if err := p.client.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("firebase: delete user %s: %w", uid, err)
	}
	return nil
}

// VerifyIDToken verifies a Firebase ID token and maps its claims.
func (p *FirebaseProvider) VerifyIDToken(ctx context.Context, token string) (*domain.UserContext, error) {
	tok, err := p.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrTokenInvalid, err)
	}

	return &domain.UserContext{
		UserID:         tok.UID,
		Email:          stringClaim(tok.Claims, "email"),
		Name:           stringClaim(tok.Claims, "name"),
		Picture:        stringClaim(tok.Claims, "picture"),
		SignInProvider: tok.Firebase.SignInProvider,
	}, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
