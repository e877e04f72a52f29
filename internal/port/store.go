package port

import (
	"context"

	"github.com/arturoeanton/jal-rakshak/internal/domain"
)

// ProfileStore persists user profile documents keyed by identity UID.
type ProfileStore interface {
	// CreateProfile writes rec only if no document exists for rec.UID.
	// An existing document is never modified; created reports which case happened.
	CreateProfile(ctx context.Context, rec *domain.UserRecord) (created bool, err error)

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// ProfileReader reads a single profile. Request handling never reads profiles
// back; stores implement it for inspection and tests.
type ProfileReader interface {
	// GetProfile returns ErrUserNotFound when no document exists for uid.
	GetProfile(ctx context.Context, uid string) (*domain.UserRecord, error)
}

// AuditWriter defines how audit records are persisted.
type AuditWriter interface {
	WriteAudit(ctx context.Context, entry *domain.AuditLog) error
}

// AuditReader lists stored audit records, newest first. An empty action
// matches every record.
type AuditReader interface {
	ListAuditLogs(ctx context.Context, limit int, action string) ([]domain.AuditLog, error)
}
