package service

import (
	"context"
	"sync"
	"time"

	"github.com/arturoeanton/jal-rakshak/internal/domain"
)

type fakeIdentityProvider struct {
	createFn func(ctx context.Context, in domain.NewIdentity) (*domain.Identity, error)
	deleteFn func(ctx context.Context, uid string) error

	mu      sync.Mutex
	deleted []string
}

func (f *fakeIdentityProvider) CreateUser(ctx context.Context, in domain.NewIdentity) (*domain.Identity, error) {
	return f.createFn(ctx, in)
}

func (f *fakeIdentityProvider) DeleteUser(ctx context.Context, uid string) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, uid)
	f.mu.Unlock()
	if f.deleteFn != nil {
		return f.deleteFn(ctx, uid)
	}
	return nil
}

func (f *fakeIdentityProvider) VerifyIDToken(ctx context.Context, token string) (*domain.UserContext, error) {
	return nil, nil
}

type fakeProfileStore struct {
	createFn func(ctx context.Context, rec *domain.UserRecord) (bool, error)

	mu      sync.Mutex
	records map[string]domain.UserRecord
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{records: map[string]domain.UserRecord{}}
}

func (f *fakeProfileStore) CreateProfile(ctx context.Context, rec *domain.UserRecord) (bool, error) {
	if f.createFn != nil {
		return f.createFn(ctx, rec)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[rec.UID]; ok {
		return false, nil
	}
	f.records[rec.UID] = *rec
	return true, nil
}

func (f *fakeProfileStore) Ping(ctx context.Context) error { return nil }
func (f *fakeProfileStore) Close() error                   { return nil }

type fakeAI struct {
	completeFn func(ctx context.Context, messages []domain.ChatMessage) (string, error)
}

func (f *fakeAI) ModelName() string { return "test/model" }

func (f *fakeAI) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	return f.completeFn(ctx, messages)
}

type countingRecorder struct {
	mu       sync.Mutex
	failures map[string]int
	created  map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{failures: map[string]int{}, created: map[string]int{}}
}

func (r *countingRecorder) ObserveRequest(string, string, int, time.Duration) {}

func (r *countingRecorder) UpstreamFailure(upstream string) {
	r.mu.Lock()
	r.failures[upstream]++
	r.mu.Unlock()
}

func (r *countingRecorder) ProfileCreated(source string) {
	r.mu.Lock()
	r.created[source]++
	r.mu.Unlock()
}
