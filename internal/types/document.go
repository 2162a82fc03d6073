// Package types defines the shared domain types for documents, versions,
// drafts and applications.
package types

import (
	"time"

	"github.com/google/uuid"
)

// DocumentKind identifies which kind of document a container holds.
type DocumentKind string

// Document kinds supported by the store
const (
	KindResume      DocumentKind = "resume"
	KindCoverLetter DocumentKind = "cover_letter"
)

// Valid reports whether the kind is one of the supported document kinds.
func (k DocumentKind) Valid() bool {
	return k == KindResume || k == KindCoverLetter
}

// Document is a titled container for versioned markdown content.
// The substantive content lives in versions; the document row itself is a shell.
type Document struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	Kind      DocumentKind `json:"kind"`
	Title     string       `json:"title"`
	IsDefault bool         `json:"is_default"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Version is an immutable snapshot of a document's markdown content.
// A non-empty JobDescription marks the version as AI-customized.
type Version struct {
	ID             uuid.UUID `json:"id"`
	DocumentID     uuid.UUID `json:"document_id"`
	Label          string    `json:"label"` // e.g. "v1", "v3 - Acme Corp"
	Content        string    `json:"content"`
	JobDescription string    `json:"job_description,omitempty"`
	IsOriginal     bool      `json:"is_original"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsCustomized reports whether this version was produced by the AI workflow.
func (v Version) IsCustomized() bool {
	return v.JobDescription != ""
}
