package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/figuedmundo/resumator-sub003/internal/types"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("db: not found")

// CreateDocument inserts a document and its first version in one
// transaction. The first version is always marked as the original.
func (db *DB) CreateDocument(ctx context.Context, userID uuid.UUID, kind types.DocumentKind, title, content string) (*types.Document, *types.Version, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var doc types.Document
	err = tx.QueryRow(ctx,
		`INSERT INTO documents (user_id, kind, title)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, kind, title, is_default, created_at, updated_at`,
		userID, kind, title,
	).Scan(&doc.ID, &doc.UserID, &doc.Kind, &doc.Title, &doc.IsDefault, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create document: %w", err)
	}

	var version types.Version
	err = tx.QueryRow(ctx,
		`INSERT INTO versions (document_id, label, content, is_original)
		 VALUES ($1, 'v1', $2, TRUE)
		 RETURNING id, document_id, label, content, job_description, is_original, created_at`,
		doc.ID, content,
	).Scan(&version.ID, &version.DocumentID, &version.Label, &version.Content, &version.JobDescription, &version.IsOriginal, &version.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create initial version: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &doc, &version, nil
}

// GetDocument retrieves a document owned by the user.
func (db *DB) GetDocument(ctx context.Context, userID, documentID uuid.UUID, kind types.DocumentKind) (*types.Document, error) {
	var doc types.Document
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, kind, title, is_default, created_at, updated_at
		 FROM documents WHERE id = $1 AND user_id = $2 AND kind = $3`,
		documentID, userID, kind,
	).Scan(&doc.ID, &doc.UserID, &doc.Kind, &doc.Title, &doc.IsDefault, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

// ListDocuments retrieves all of the user's documents of a kind, newest first.
func (db *DB) ListDocuments(ctx context.Context, userID uuid.UUID, kind types.DocumentKind) ([]types.Document, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, kind, title, is_default, created_at, updated_at
		 FROM documents WHERE user_id = $1 AND kind = $2
		 ORDER BY updated_at DESC`,
		userID, kind,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		var doc types.Document
		if err := rows.Scan(&doc.ID, &doc.UserID, &doc.Kind, &doc.Title, &doc.IsDefault, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// UpdateDocumentTitle renames a document.
func (db *DB) UpdateDocumentTitle(ctx context.Context, userID, documentID uuid.UUID, kind types.DocumentKind, title string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE documents SET title = $1, updated_at = NOW()
		 WHERE id = $2 AND user_id = $3 AND kind = $4`,
		title, documentID, userID, kind,
	)
	if err != nil {
		return fmt.Errorf("failed to update document title: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetDefaultDocument marks a document as the user's default for its kind,
// clearing the flag on any other document of the same kind.
func (db *DB) SetDefaultDocument(ctx context.Context, userID, documentID uuid.UUID, kind types.DocumentKind) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`UPDATE documents SET is_default = FALSE WHERE user_id = $1 AND kind = $2`,
		userID, kind,
	)
	if err != nil {
		return fmt.Errorf("failed to clear default flag: %w", err)
	}

	result, err := tx.Exec(ctx,
		`UPDATE documents SET is_default = TRUE, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND kind = $3`,
		documentID, userID, kind,
	)
	if err != nil {
		return fmt.Errorf("failed to set default flag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

// DeleteDocument deletes a document and all its versions (via cascade).
func (db *DB) DeleteDocument(ctx context.Context, userID, documentID uuid.UUID, kind types.DocumentKind) error {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM documents WHERE id = $1 AND user_id = $2 AND kind = $3`,
		documentID, userID, kind,
	)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
