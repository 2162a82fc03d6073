// Package handoff provides a short-lived, navigation-surviving transfer of
// customization results into the application-creation flow. Payloads are
// persisted to a local SQLite file so they survive a full page transition,
// and each payload can be consumed at most once.
package handoff

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/figuedmundo/resumator-sub003/internal/types"
)

// DefaultTTL is how long a payload stays claimable before it expires.
const DefaultTTL = 15 * time.Minute

// ErrNotFound is returned when a payload is missing, expired, or already
// consumed.
var ErrNotFound = errors.New("handoff: payload not found")

// Payload is the transfer record from the customization workflow to the
// application-creation flow.
type Payload struct {
	DocumentID        uuid.UUID          `json:"document_id"`
	Kind              types.DocumentKind `json:"kind"`
	VersionID         uuid.UUID          `json:"version_id"` // the committed customized version
	JobDescription    string             `json:"job_description"`
	CustomizedContent string             `json:"customized_content"`
}

// Store persists payloads in SQLite.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS handoffs (
	id         TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);`

// Open opens (creating if necessary) the handoff database at path and
// purges expired rows.
func Open(path string, ttl time.Duration) (*Store, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create handoff directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open handoff database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize handoff schema: %w", err)
	}
	s := &Store{db: db, ttl: ttl, now: time.Now}
	if err := s.purgeExpired(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Put stores a payload and returns its claim id.
func (s *Store) Put(ctx context.Context, p Payload) (uuid.UUID, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode handoff payload: %w", err)
	}
	id := uuid.New()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO handoffs (id, payload, created_at) VALUES (?, ?, ?)`,
		id.String(), string(data), s.now().Unix(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to store handoff payload: %w", err)
	}
	return id, nil
}

// Consume claims and removes a payload. A second Consume with the same id
// returns ErrNotFound, as does an expired payload.
func (s *Store) Consume(ctx context.Context, id uuid.UUID) (*Payload, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin handoff transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	var createdAt int64
	err = tx.QueryRowContext(ctx,
		`SELECT payload, created_at FROM handoffs WHERE id = ?`, id.String(),
	).Scan(&raw, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read handoff payload: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM handoffs WHERE id = ?`, id.String()); err != nil {
		return nil, fmt.Errorf("failed to claim handoff payload: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit handoff claim: %w", err)
	}

	if s.now().Sub(time.Unix(createdAt, 0)) > s.ttl {
		return nil, ErrNotFound
	}
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("failed to decode handoff payload: %w", err)
	}
	return &p, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) purgeExpired(ctx context.Context) error {
	cutoff := s.now().Add(-s.ttl).Unix()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM handoffs WHERE created_at < ?`, cutoff); err != nil {
		return fmt.Errorf("failed to purge expired handoffs: %w", err)
	}
	return nil
}
