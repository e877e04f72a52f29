package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/arturoeanton/jal-rakshak/internal/domain"
	"github.com/arturoeanton/jal-rakshak/internal/port"
)

// PostgresStore keeps user profiles and audit logs in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Ping checks the connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- Users ---

// GetProfile retrieves a profile by UID.
func (s *PostgresStore) GetProfile(ctx context.Context, uid string) (*domain.UserRecord, error) {
	query := `SELECT uid, email, name, created_at FROM users WHERE uid = $1`

	var rec domain.UserRecord
	err := s.db.QueryRowContext(ctx, query, uid).Scan(&rec.UID, &rec.Email, &rec.Name, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &rec, nil
}

// CreateProfile inserts a profile unless one already exists for the UID.
func (s *PostgresStore) CreateProfile(ctx context.Context, rec *domain.UserRecord) (bool, error) {
	query := `
		INSERT INTO users (uid, email, name, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (uid) DO NOTHING`

	res, err := s.db.ExecContext(ctx, query, rec.UID, rec.Email, rec.Name, rec.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("create profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create profile: rows affected: %w", err)
	}
	return n == 1, nil
}

// --- Audit Logs ---

// WriteAudit implements port.AuditWriter.
func (s *PostgresStore) WriteAudit(ctx context.Context, entry *domain.AuditLog) error {
	details := entry.Details
	if details == "" {
		details = "{}"
	}
	query := `INSERT INTO audit_logs (id, user_id, action, resource, resource_id, details, ip, user_agent, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9)`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Action, entry.Resource, entry.ResourceID,
		details, entry.IP, entry.UserAgent, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("write audit: %w", err)
	}
	return nil
}

// ListAuditLogs implements port.AuditReader.
func (s *PostgresStore) ListAuditLogs(ctx context.Context, limit int, action string) ([]domain.AuditLog, error) {
	query := `SELECT id, user_id, action, resource, resource_id, details, ip, user_agent, created_at
	          FROM audit_logs`
	args := []interface{}{}
	argIdx := 1

	if action != "" {
		query += fmt.Sprintf(" WHERE action = $%d", argIdx)
		args = append(args, action)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	logs := make([]domain.AuditLog, 0)
	for rows.Next() {
		var l domain.AuditLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Resource, &l.ResourceID,
			&l.Details, &l.IP, &l.UserAgent, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
