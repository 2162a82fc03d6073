// Package store provides access to the document store backend: fetching,
// creating and updating documents and their version history. The HTTP
// implementation talks to the REST backend; the memory implementation backs
// tests. Response shapes are normalized here so callers never branch on
// wire format.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/figuedmundo/resumator-sub003/internal/types"
)

// Session carries the authenticated caller identity injected into a store
// client. There is deliberately no package-level session state.
type Session struct {
	Token  string
	UserID uuid.UUID
}

// Store is the contract the editing core consumes. All operations are
// scoped to a document kind (resume or cover letter).
type Store interface {
	// GetDocument fetches document metadata.
	GetDocument(ctx context.Context, kind types.DocumentKind, id uuid.UUID) (*types.Document, error)
	// ListVersions returns the document's versions, newest first.
	ListVersions(ctx context.Context, kind types.DocumentKind, id uuid.UUID) ([]types.Version, error)
	// CreateDocument creates a document together with its first, original version.
	CreateDocument(ctx context.Context, kind types.DocumentKind, title, content string) (*types.Document, error)
	// UpdateVersion replaces the content of an existing version.
	UpdateVersion(ctx context.Context, kind types.DocumentKind, documentID, versionID uuid.UUID, content string) (*types.Version, error)
	// UpdateMetadata updates document-level metadata (currently the title).
	UpdateMetadata(ctx context.Context, kind types.DocumentKind, documentID uuid.UUID, title string) (*types.Document, error)
	// RequestCustomization asks the AI collaborator for a tailored variant of
	// the document's latest content. It does not modify the version history.
	RequestCustomization(ctx context.Context, kind types.DocumentKind, documentID uuid.UUID, jobDescription string, opts types.CustomizeOptions) (string, error)
	// CreateVersion appends a brand-new version with the given content.
	// Prior versions are never touched.
	CreateVersion(ctx context.Context, kind types.DocumentKind, documentID uuid.UUID, content, jobDescription string) (*types.Version, error)
	// CreateApplication records a job application referencing document versions.
	CreateApplication(ctx context.Context, app types.Application) (*types.Application, error)
}
