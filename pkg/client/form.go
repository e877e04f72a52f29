package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DashboardPath is where the form navigates after any successful sign-in.
const DashboardPath = "/dashboard"

// Messages shown above the submit control.
const (
	MsgLoginFailed     = "Failed to log in. Please check your credentials."
	MsgGoogleFailed    = "Failed to sign in with Google."
	MsgSessionNotSaved = "Failed to save your session. Please try again."
)

// ErrMissingField is returned by Submit when a visible field is empty.
var ErrMissingField = errors.New("required field missing")

// View is the form's current mode.
type View int

const (
	ViewLogin View = iota
	ViewRegistration
)

func (v View) String() string {
	if v == ViewRegistration {
		return "viewing-registration"
	}
	return "viewing-login"
}

// Authenticator signs users in against the identity provider.
type Authenticator interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignInWithGoogleIDToken(ctx context.Context, googleIDToken string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
}

// Registrar is the part of the backend API the form uses.
type Registrar interface {
	Register(ctx context.Context, email, password, name string) (string, error)
	NotifySocialLogin(ctx context.Context, token string) error
}

// FormDeps are the collaborators of a Form. Google may be nil when
// federated sign-in is not offered.
type FormDeps struct {
	Identity Authenticator
	Backend  Registrar
	Sessions SessionStore
	Google   GoogleTokenSource
	Navigate func(path string)
	Now      func() time.Time
}

// Form is the login / registration form. Field values survive view changes;
// Error holds the message of the last failed action.
type Form struct {
	View     View
	Email    string
	Password string
	Name     string
	Error    string

	deps FormDeps
}

// NewForm creates a form in the login view.
func NewForm(deps FormDeps) *Form {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Navigate == nil {
		deps.Navigate = func(string) {}
	}
	return &Form{View: ViewLogin, deps: deps}
}

// Toggle switches between login and registration and clears Error.
func (f *Form) Toggle() {
	if f.View == ViewLogin {
		f.View = ViewRegistration
	} else {
		f.View = ViewLogin
	}
	f.Error = ""
}

// Submit registers or signs in depending on the view. On success the session
// is stored and the form navigates to DashboardPath.
func (f *Form) Submit(ctx context.Context) error {
	f.Error = ""
	if msg := f.missingFields(); msg != "" {
		return f.fail(msg, ErrMissingField)
	}

	if f.View == ViewRegistration {
		if _, err := f.deps.Backend.Register(ctx, f.Email, f.Password, f.Name); err != nil {
			return f.fail(err.Error(), err)
		}
	}

	sess, err := f.deps.Identity.SignInWithPassword(ctx, f.Email, f.Password)
	if err != nil {
		return f.fail(MsgLoginFailed, err)
	}
	return f.complete(ctx, sess)
}

// GoogleSignIn signs in with Google, then notifies the backend so the user's
// profile exists before navigating.
func (f *Form) GoogleSignIn(ctx context.Context) error {
	f.Error = ""
	if f.deps.Google == nil {
		return f.fail(MsgGoogleFailed, errors.New("google sign-in not configured"))
	}

	idToken, err := f.deps.Google.GoogleIDToken(ctx)
	if err != nil {
		return f.fail(MsgGoogleFailed, err)
	}
	sess, err := f.deps.Identity.SignInWithGoogleIDToken(ctx, idToken)
	if err != nil {
		return f.fail(MsgGoogleFailed, err)
	}
	if err := f.deps.Sessions.Save(ctx, sess); err != nil {
		return f.fail(MsgSessionNotSaved, err)
	}
	if err := f.deps.Backend.NotifySocialLogin(ctx, sess.Token); err != nil {
		return f.fail(MsgGoogleFailed, err)
	}

	f.deps.Navigate(DashboardPath)
	return nil
}

// Session returns the stored session, refreshing it first when it has
// expired. Without a refresh token an expired session yields
// ErrSessionExpired and the user has to sign in again.
func (f *Form) Session(ctx context.Context) (*Session, error) {
	sess, err := f.deps.Sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !sess.Expired(f.deps.Now()) {
		return sess, nil
	}
	if sess.RefreshToken == "" {
		return nil, ErrSessionExpired
	}

	fresh, err := f.deps.Identity.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		slog.WarnContext(ctx, "session refresh failed", "uid", sess.UID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	if err := f.deps.Sessions.Save(ctx, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// SignOut forgets the stored session.
func (f *Form) SignOut(ctx context.Context) error {
	return f.deps.Sessions.Clear(ctx)
}

func (f *Form) complete(ctx context.Context, sess *Session) error {
	if err := f.deps.Sessions.Save(ctx, sess); err != nil {
		return f.fail(MsgSessionNotSaved, err)
	}
	f.deps.Navigate(DashboardPath)
	return nil
}

func (f *Form) fail(msg string, err error) error {
	f.Error = msg
	return err
}

// missingFields mirrors the browser's required-field check. It returns ""
// when every visible field is filled.
func (f *Form) missingFields() string {
	var missing []string
	if f.View == ViewRegistration && strings.TrimSpace(f.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(f.Email) == "" {
		missing = append(missing, "email")
	}
	if f.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) == 0 {
		return ""
	}
	return "Please fill out: " + strings.Join(missing, ", ") + "."
}
