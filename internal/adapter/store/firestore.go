package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/arturoeanton/jal-rakshak/internal/domain"
	"github.com/arturoeanton/jal-rakshak/internal/port"
)

// Firestore collection names.
const (
	UsersCollection = "users"
	AuditCollection = "audit_logs"
)

// FirestoreStore keeps user profiles in the "users" collection, one document
// per identity UID.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an initialized Firestore client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// Close closes the Firestore client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// Ping performs a cheap read to confirm the backend answers. A missing
// document still proves connectivity.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	_, err := s.client.Collection(UsersCollection).Doc("_healthcheck").Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("firestore ping: %w", err)
	}
	return nil
}

// GetProfile reads users/{uid}.
func (s *FirestoreStore) GetProfile(ctx context.Context, uid string) (*domain.UserRecord, error) {
	snap, err := s.client.Collection(UsersCollection).Doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, port.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	var rec domain.UserRecord
	if err := snap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	rec.UID = snap.Ref.ID
	return &rec, nil
}

// CreateProfile creates users/{uid} with a conditional write. Firestore
// rejects the write with AlreadyExists when the document is present, so the
// existing document is left as it was.
func (s *FirestoreStore) CreateProfile(ctx context.Context, rec *domain.UserRecord) (bool, error) {
	_, err := s.client.Collection(UsersCollection).Doc(rec.UID).Create(ctx, rec)
	if status.Code(err) == codes.AlreadyExists {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create profile: %w", err)
	}
	return true, nil
}

// WriteAudit implements port.AuditWriter.
func (s *FirestoreStore) WriteAudit(ctx context.Context, entry *domain.AuditLog) error {
	if _, err := s.client.Collection(AuditCollection).Doc(entry.ID).Set(ctx, entry); err != nil {
		return fmt.Errorf("write audit: %w", err)
	}
	return nil
}

// ListAuditLogs implements port.AuditReader. Filtering by action needs a
// composite index on (action, createdAt).
func (s *FirestoreStore) ListAuditLogs(ctx context.Context, limit int, action string) ([]domain.AuditLog, error) {
	q := s.client.Collection(AuditCollection).OrderBy("createdAt", firestore.Desc)
	if action != "" {
		q = q.Where("action", "==", action)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}

	logs := make([]domain.AuditLog, 0, len(docs))
	for _, d := range docs {
		var l domain.AuditLog
		if err := d.DataTo(&l); err != nil {
			return nil, fmt.Errorf("decode audit log %s: %w", d.Ref.ID, err)
		}
		logs = append(logs, l)
	}
	return logs, nil
}
