package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/figuedmundo/resumator-sub003/internal/types"
)

// CustomizeFunc produces a customized variant of content for a job
// description. The memory store delegates to it so tests can control the AI
// collaborator's behavior.
type CustomizeFunc func(ctx context.Context, content, jobDescription string, opts types.CustomizeOptions) (string, error)

// MemoryStore is an in-memory Store implementation for tests and offline use.
type MemoryStore struct {
	mu           sync.Mutex
	documents    map[uuid.UUID]*types.Document
	versions     map[uuid.UUID][]types.Version // documentID -> versions, append order
	applications map[uuid.UUID]*types.Application
	customize    CustomizeFunc
	now          func() time.Time
}

// NewMemoryStore creates an empty memory store. customize may be nil, in
// which case customization requests fail.
func NewMemoryStore(customize CustomizeFunc) *MemoryStore {
	return &MemoryStore{
		documents:    make(map[uuid.UUID]*types.Document),
		versions:     make(map[uuid.UUID][]types.Version),
		applications: make(map[uuid.UUID]*types.Application),
		customize:    customize,
		now:          time.Now,
	}
}

// SetClock overrides the store clock; tests use it to control version ordering.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// GetDocument fetches document metadata.
func (m *MemoryStore) GetDocument(_ context.Context, kind types.DocumentKind, id uuid.UUID) (*types.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[id]
	if !ok || doc.Kind != kind {
		return nil, &Error{Kind: KindNotFound, Message: fmt.Sprintf("document not found: %s", id)}
	}
	copied := *doc
	return &copied, nil
}

// ListVersions returns the document's versions, newest first.
func (m *MemoryStore) ListVersions(_ context.Context, kind types.DocumentKind, id uuid.UUID) ([]types.Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[id]
	if !ok || doc.Kind != kind {
		return nil, &Error{Kind: KindNotFound, Message: fmt.Sprintf("document not found: %s", id)}
	}
	stored := m.versions[id]
	out := make([]types.Version, len(stored))
	copy(out, stored)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return i > j // later appends win ties
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// CreateDocument creates a document plus its first, original version.
func (m *MemoryStore) CreateDocument(_ context.Context, kind types.DocumentKind, title, content string) (*types.Document, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &Error{Kind: KindValidation, Message: "title is required"}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	doc := &types.Document{
		ID:        uuid.New(),
		Kind:      kind,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.documents[doc.ID] = doc
	m.versions[doc.ID] = []types.Version{{
		ID:         uuid.New(),
		DocumentID: doc.ID,
		Label:      "v1",
		Content:    content,
		IsOriginal: true,
		CreatedAt:  now,
	}}
	copied := *doc
	return &copied, nil
}

// UpdateVersion replaces the content of an existing version.
func (m *MemoryStore) UpdateVersion(_ context.Context, kind types.DocumentKind, documentID, versionID uuid.UUID, content string) (*types.Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[documentID]
	if !ok || doc.Kind != kind {
		return nil, &Error{Kind: KindNotFound, Message: fmt.Sprintf("document not found: %s", documentID)}
	}
	stored := m.versions[documentID]
	for i := range stored {
		if stored[i].ID == versionID {
			stored[i].Content = content
			doc.UpdatedAt = m.now()
			copied := stored[i]
			return &copied, nil
		}
	}
	return nil, &Error{Kind: KindNotFound, Message: fmt.Sprintf("version not found: %s", versionID)}
}

// UpdateMetadata updates the document title.
func (m *MemoryStore) UpdateMetadata(_ context.Context, kind types.DocumentKind, documentID uuid.UUID, title string) (*types.Document, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &Error{Kind: KindValidation, Message: "title is required"}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[documentID]
	if !ok || doc.Kind != kind {
		return nil, &Error{Kind: KindNotFound, Message: fmt.Sprintf("document not found: %s", documentID)}
	}
	doc.Title = title
	doc.UpdatedAt = m.now()
	copied := *doc
	return &copied, nil
}

// RequestCustomization delegates to the injected customize function using
// the latest version's content as the source.
func (m *MemoryStore) RequestCustomization(ctx context.Context, kind types.DocumentKind, documentID uuid.UUID, jobDescription string, opts types.CustomizeOptions) (string, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return "", &Error{Kind: KindValidation, Message: "job description is required"}
	}
	versions, err := m.ListVersions(ctx, kind, documentID)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", &Error{Kind: KindCustomize, Message: "document has no versions to customize"}
	}
	if m.customize == nil {
		return "", &Error{Kind: KindCustomize, Message: "no customizer configured"}
	}
	result, err := m.customize(ctx, versions[0].Content, jobDescription, opts)
	if err != nil {
		return "", &Error{Kind: KindCustomize, Message: "customization failed", Cause: err, Retryable: true}
	}
	return result, nil
}

// CreateVersion appends a brand-new version.
func (m *MemoryStore) CreateVersion(_ context.Context, kind types.DocumentKind, documentID uuid.UUID, content, jobDescription string) (*types.Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[documentID]
	if !ok || doc.Kind != kind {
		return nil, &Error{Kind: KindNotFound, Message: fmt.Sprintf("document not found: %s", documentID)}
	}
	version := types.Version{
		ID:             uuid.New(),
		DocumentID:     documentID,
		Label:          fmt.Sprintf("v%d", len(m.versions[documentID])+1),
		Content:        content,
		JobDescription: jobDescription,
		CreatedAt:      m.now(),
	}
	m.versions[documentID] = append(m.versions[documentID], version)
	doc.UpdatedAt = version.CreatedAt
	copied := version
	return &copied, nil
}

// CreateApplication records a job application.
func (m *MemoryStore) CreateApplication(_ context.Context, app types.Application) (*types.Application, error) {
	if app.Company == "" || app.Position == "" {
		return nil, &Error{Kind: KindValidation, Message: "company and position are required"}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	app.ID = uuid.New()
	if app.Status == "" {
		app.Status = types.StatusApplied
	}
	app.CreatedAt = m.now()
	app.UpdatedAt = app.CreatedAt
	m.applications[app.ID] = &app
	copied := app
	return &copied, nil
}

// Applications returns all recorded applications; test helper.
func (m *MemoryStore) Applications() []types.Application {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Application, 0, len(m.applications))
	for _, app := range m.applications {
		out = append(out, *app)
	}
	return out
}
