package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arturoeanton/jal-rakshak/internal/domain"
	"github.com/arturoeanton/jal-rakshak/internal/logging"
	"github.com/arturoeanton/jal-rakshak/internal/metrics"
	"github.com/arturoeanton/jal-rakshak/internal/port"
)

// RegisterInput is the payload of a password registration.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// AuthService creates users and their profile documents.
type AuthService struct {
	idp     port.IdentityProvider
	store   port.ProfileStore
	metrics metrics.Recorder
	now     func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(idp port.IdentityProvider, store port.ProfileStore, rec metrics.Recorder) *AuthService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &AuthService{
		idp:     idp,
		store:   store,
		metrics: rec,
		now:     time.Now,
	}
}

// Register creates an identity and then its profile document. If the profile
// write fails the identity is deleted again, so a failed registration leaves
// neither half behind. Identity provider rejections are returned unchanged
// (as *port.ProviderError); a profile failure wraps port.ErrProfileWrite.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	identity, err := s.idp.CreateUser(ctx, domain.NewIdentity{
		Email:    in.Email,
		Password: in.Password,
		Name:     in.Name,
	})
	if err != nil {
		return "", err
	}

	email := identity.Email
	if email == "" {
		email = in.Email
	}

	created, err := s.store.CreateProfile(ctx, &domain.UserRecord{
		UID:       identity.UID,
		Email:     email,
		Name:      in.Name,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		s.metrics.UpstreamFailure(metrics.UpstreamStore)
		s.compensate(ctx, identity.UID, err)
		return "", fmt.Errorf("%w: %v", port.ErrProfileWrite, err)
	}
	if created {
		s.metrics.ProfileCreated(domain.ProfileSourceRegistration)
	}

	slog.InfoContext(ctx, "user registered", "uid", identity.UID)
	return identity.UID, nil
}

// compensate removes an identity whose profile could not be written. It runs
// detached from the request's cancellation.
func (s *AuthService) compensate(ctx context.Context, uid string, cause error) {
	logging.ReportError(ctx, "profile write failed, removing identity", cause, "uid", uid)

	if err := s.idp.DeleteUser(context.WithoutCancel(ctx), uid); err != nil {
		s.metrics.UpstreamFailure(metrics.UpstreamIdentity)
		logging.ReportError(ctx, "identity cleanup failed", err, "uid", uid)
	}
}

// HandleSocialLogin makes sure a profile document exists for a federated
// sign-in. An existing document is left untouched; created reports whether
// this call wrote it.
func (s *AuthService) HandleSocialLogin(ctx context.Context, uc *domain.UserContext) (bool, error) {
	created, err := s.store.CreateProfile(ctx, &domain.UserRecord{
		UID:       uc.UserID,
		Email:     uc.Email,
		Name:      uc.Name,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		s.metrics.UpstreamFailure(metrics.UpstreamStore)
		return false, fmt.Errorf("social login: %w", err)
	}
	if created {
		s.metrics.ProfileCreated(domain.ProfileSourceSocialLogin)
		slog.InfoContext(ctx, "profile created from social login", "uid", uc.UserID, "provider", uc.SignInProvider)
	}
	return created, nil
}
