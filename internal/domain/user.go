package domain

import "time"

// UserRecord is the profile half of a user. The document is keyed by the
// identity provider's UID, which never changes.
type UserRecord struct {
	UID       string    `json:"uid"        firestore:"-"         db:"uid"`
	Email     string    `json:"email"      firestore:"email"     db:"email"`
	Name      string    `json:"name"       firestore:"name"      db:"name"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt" db:"created_at"`
}

// Identity is the identity-provider half of a user.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewIdentity holds the fields needed to create an identity.
type NewIdentity struct {
	Email    string
	Password string
	Name     string
}

// UserContext is the verified token claims injected into request handlers.
type UserContext struct {
	UserID         string `json:"uid"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Picture        string `json:"picture,omitempty"`
	SignInProvider string `json:"sign_in_provider,omitempty"`
}

// Profile sources, used to label how a profile came to exist.
const (
	ProfileSourceRegistration = "registration"
	ProfileSourceSocialLogin  = "social_login"
)
