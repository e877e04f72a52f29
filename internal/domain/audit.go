package domain

import "time"

// AuditLog records one handled request.
type AuditLog struct {
	ID         string    `json:"id"          firestore:"id"         db:"id"`
	UserID     string    `json:"user_id"     firestore:"userId"     db:"user_id"`
	Action     string    `json:"action"      firestore:"action"     db:"action"`
	Resource   string    `json:"resource"    firestore:"resource"   db:"resource"`
	ResourceID string    `json:"resource_id" firestore:"resourceId" db:"resource_id"`
	Details    string    `json:"details"     firestore:"details"    db:"details"` // JSON blob
	IP         string    `json:"ip"          firestore:"ip"         db:"ip"`
	UserAgent  string    `json:"user_agent"  firestore:"userAgent"  db:"user_agent"`
	CreatedAt  time.Time `json:"created_at"  firestore:"createdAt"  db:"created_at"`
}

// Audit action constants.
const (
	AuditActionHTTPRequest = "http_request"
	AuditActionRegister    = "register"
	AuditActionSocialLogin = "social_login"
)

// AnonymousUser is recorded when a request carries no verified identity.
const AnonymousUser = "anonymous"
