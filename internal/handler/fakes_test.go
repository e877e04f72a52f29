package handler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/arturoeanton/jal-rakshak/internal/domain"
	"github.com/arturoeanton/jal-rakshak/internal/port"
)

// fakeIdentity is an in-memory identity provider keyed by email.
type fakeIdentity struct {
	mu      sync.Mutex
	byEmail map[string]string
	tokens  map[string]*domain.UserContext
	next    int
	deleted []string
	verifyN int
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{byEmail: map[string]string{}, tokens: map[string]*domain.UserContext{}}
}

func (f *fakeIdentity) CreateUser(ctx context.Context, in domain.NewIdentity) (*domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[in.Email]; ok {
		return nil, &port.ProviderError{Op: "create user", Err: errors.New("The email address is already in use by another account.")}
	}
	if len(in.Password) < 6 {
		return nil, &port.ProviderError{Op: "create user", Err: errors.New("The password must be a string with at least 6 characters.")}
	}
	f.next++
	uid := fmt.Sprintf("uid-%d", f.next)
	f.byEmail[in.Email] = uid
	return &domain.Identity{UID: uid, Email: in.Email, Name: in.Name}, nil
}

func (f *fakeIdentity) DeleteUser(ctx context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, uid)
	for email, id := range f.byEmail {
		if id == uid {
			delete(f.byEmail, email)
		}
	}
	return nil
}

func (f *fakeIdentity) VerifyIDToken(ctx context.Context, token string) (*domain.UserContext, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyN++
	uc, ok := f.tokens[token]
	if !ok {
		return nil, port.ErrTokenInvalid
	}
	cp := *uc
	return &cp, nil
}

func (f *fakeIdentity) identities() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byEmail)
}

// fakeStore is an in-memory profile store that counts every call.
type fakeStore struct {
	mu       sync.Mutex
	profiles map[string]domain.UserRecord
	writes   int
	createFn func(rec *domain.UserRecord) error
	pingErr  error
	audit    []domain.AuditLog
}

func newFakeStore() *fakeStore {
	return &fakeStore{profiles: map[string]domain.UserRecord{}}
}

func (s *fakeStore) CreateProfile(ctx context.Context, rec *domain.UserRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.createFn != nil {
		if err := s.createFn(rec); err != nil {
			return false, err
		}
	}
	if _, ok := s.profiles[rec.UID]; ok {
		return false, nil
	}
	s.profiles[rec.UID] = *rec
	return true, nil
}

func (s *fakeStore) Ping(ctx context.Context) error { return s.pingErr }
func (s *fakeStore) Close() error                   { return nil }

func (s *fakeStore) ListAuditLogs(ctx context.Context, limit int, action string) ([]domain.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.AuditLog
	for _, l := range s.audit {
		if action == "" || l.Action == action {
			out = append(out, l)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) writeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

type fakeAI struct {
	reply string
	err   error
	last  []domain.ChatMessage
}

func (f *fakeAI) ModelName() string { return "test-model" }

func (f *fakeAI) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	f.last = messages
	return f.reply, f.err
}
