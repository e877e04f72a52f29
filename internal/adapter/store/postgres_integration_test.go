package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/arturoeanton/jal-rakshak/internal/domain"
	"github.com/arturoeanton/jal-rakshak/internal/port"
)

var (
	_ port.ProfileStore  = (*PostgresStore)(nil)
	_ port.ProfileReader = (*PostgresStore)(nil)
	_ port.AuditWriter   = (*PostgresStore)(nil)
	_ port.AuditReader   = (*PostgresStore)(nil)
)

func newPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping container test in short mode")
	}

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("jalrakshak"),
		tcpostgres.WithUsername("jal"),
		tcpostgres.WithPassword("jal"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, RunMigrations(dsn))
	// Second run must be a no-op.
	require.NoError(t, RunMigrations(dsn))

	s, err := NewPostgresStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPostgresStore_ProfileLifecycle(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()

	_, err := s.GetProfile(ctx, "uid-1")
	require.ErrorIs(t, err, port.ErrUserNotFound)

	first := &domain.UserRecord{UID: "uid-1", Email: "asha@example.com", Name: "Asha", CreatedAt: time.Now().UTC().Truncate(time.Microsecond)}
	created, err := s.CreateProfile(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	second := &domain.UserRecord{UID: "uid-1", Email: "changed@example.com", Name: "Changed", CreatedAt: time.Now().Add(time.Hour)}
	created, err = s.CreateProfile(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := s.GetProfile(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", got.Email)
	assert.Equal(t, "Asha", got.Name)
	assert.True(t, first.CreatedAt.Equal(got.CreatedAt))

	require.NoError(t, s.Ping(ctx))
}

func TestPostgresStore_ConcurrentCreateKeepsOneProfile(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := s.CreateProfile(ctx, &domain.UserRecord{UID: "uid-race", Email: "race@example.com", CreatedAt: time.Now()})
			assert.NoError(t, err)
			if created {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}

func TestPostgresStore_WriteAudit(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()

	entry := &domain.AuditLog{
		ID:        uuid.NewString(),
		UserID:    domain.AnonymousUser,
		Action:    domain.AuditActionHTTPRequest,
		Resource:  "api",
		Details:   `{"status":200}`,
		IP:        "10.0.0.1",
		UserAgent: "go-test",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.WriteAudit(ctx, entry))

	logs, err := s.ListAuditLogs(ctx, 10, domain.AuditActionHTTPRequest)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entry.ID, logs[0].ID)
	assert.JSONEq(t, `{"status":200}`, logs[0].Details)
}

func TestPostgresStore_ListAuditLogsEmptyIsNotNil(t *testing.T) {
	s := newPostgresStore(t)

	logs, err := s.ListAuditLogs(context.Background(), 10, "no_such_action")

	require.NoError(t, err)
	require.NotNil(t, logs)
	assert.Empty(t, logs)

	out, err := json.Marshal(logs)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}
