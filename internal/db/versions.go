package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/figuedmundo/resumator-sub003/internal/types"
)

// Version deletion errors. The original version and the last remaining
// version of a document can never be deleted.
var (
	ErrVersionIsOriginal = errors.New("db: the original version cannot be deleted")
	ErrVersionIsLast     = errors.New("db: the last version of a document cannot be deleted")
)

// ListVersions retrieves a document's versions, newest first.
func (db *DB) ListVersions(ctx context.Context, userID, documentID uuid.UUID, kind types.DocumentKind) ([]types.Version, error) {
	if _, err := db.GetDocument(ctx, userID, documentID, kind); err != nil {
		return nil, err
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, document_id, label, content, job_description, is_original, created_at
		 FROM versions WHERE document_id = $1
		 ORDER BY created_at DESC`,
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	var versions []types.Version
	for rows.Next() {
		var v types.Version
		if err := rows.Scan(&v.ID, &v.DocumentID, &v.Label, &v.Content, &v.JobDescription, &v.IsOriginal, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, nil
}

// GetVersion retrieves a single version of a document owned by the user.
func (db *DB) GetVersion(ctx context.Context, userID, documentID, versionID uuid.UUID, kind types.DocumentKind) (*types.Version, error) {
	var v types.Version
	err := db.pool.QueryRow(ctx,
		`SELECT v.id, v.document_id, v.label, v.content, v.job_description, v.is_original, v.created_at
		 FROM versions v
		 JOIN documents d ON d.id = v.document_id
		 WHERE v.id = $1 AND v.document_id = $2 AND d.user_id = $3 AND d.kind = $4`,
		versionID, documentID, userID, kind,
	).Scan(&v.ID, &v.DocumentID, &v.Label, &v.Content, &v.JobDescription, &v.IsOriginal, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get version: %w", err)
	}
	return &v, nil
}

// CreateVersion appends a new version to a document's history. company, when
// non-empty, is included in the auto-assigned label.
func (db *DB) CreateVersion(ctx context.Context, userID, documentID uuid.UUID, kind types.DocumentKind, content, jobDescription, company string) (*types.Version, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var count int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM versions v
		 JOIN documents d ON d.id = v.document_id
		 WHERE v.document_id = $1 AND d.user_id = $2 AND d.kind = $3`,
		documentID, userID, kind,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to count versions: %w", err)
	}
	if count == 0 {
		// Either the document does not exist or it is not the user's.
		if _, err := db.GetDocument(ctx, userID, documentID, kind); err != nil {
			return nil, err
		}
	}

	label := fmt.Sprintf("v%d", count+1)
	if c := strings.TrimSpace(company); c != "" {
		label = fmt.Sprintf("%s - %s", label, c)
	}

	var v types.Version
	err = tx.QueryRow(ctx,
		`INSERT INTO versions (document_id, label, content, job_description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, document_id, label, content, job_description, is_original, created_at`,
		documentID, label, content, jobDescription,
	).Scan(&v.ID, &v.DocumentID, &v.Label, &v.Content, &v.JobDescription, &v.IsOriginal, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create version: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE documents SET updated_at = NOW() WHERE id = $1`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to touch document: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &v, nil
}

// UpdateVersion replaces the content of an existing version in place.
func (db *DB) UpdateVersion(ctx context.Context, userID, documentID, versionID uuid.UUID, kind types.DocumentKind, content string) (*types.Version, error) {
	var v types.Version
	err := db.pool.QueryRow(ctx,
		`UPDATE versions v SET content = $1
		 FROM documents d
		 WHERE v.id = $2 AND v.document_id = $3 AND d.id = v.document_id
		   AND d.user_id = $4 AND d.kind = $5
		 RETURNING v.id, v.document_id, v.label, v.content, v.job_description, v.is_original, v.created_at`,
		content, versionID, documentID, userID, kind,
	).Scan(&v.ID, &v.DocumentID, &v.Label, &v.Content, &v.JobDescription, &v.IsOriginal, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update version: %w", err)
	}

	_, err = db.pool.Exec(ctx, `UPDATE documents SET updated_at = NOW() WHERE id = $1`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to touch document: %w", err)
	}
	return &v, nil
}

// DeleteVersion removes a version from history. The original version and
// the last remaining version are protected.
func (db *DB) DeleteVersion(ctx context.Context, userID, documentID, versionID uuid.UUID, kind types.DocumentKind) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var isOriginal bool
	var count int
	err = tx.QueryRow(ctx,
		`SELECT v.is_original,
		        (SELECT COUNT(*) FROM versions WHERE document_id = $2)
		 FROM versions v
		 JOIN documents d ON d.id = v.document_id
		 WHERE v.id = $1 AND v.document_id = $2 AND d.user_id = $3 AND d.kind = $4`,
		versionID, documentID, userID, kind,
	).Scan(&isOriginal, &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to check version: %w", err)
	}
	if isOriginal {
		return ErrVersionIsOriginal
	}
	if count <= 1 {
		return ErrVersionIsLast
	}

	_, err = tx.Exec(ctx, `DELETE FROM versions WHERE id = $1`, versionID)
	if err != nil {
		return fmt.Errorf("failed to delete version: %w", err)
	}
	return tx.Commit(ctx)
}
