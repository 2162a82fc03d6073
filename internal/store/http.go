package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/figuedmundo/resumator-sub003/internal/types"
)

// DefaultRequestTimeout bounds ordinary CRUD calls. Customization calls get
// a longer budget because the AI collaborator can take seconds.
const (
	DefaultRequestTimeout = 15 * time.Second
	CustomizationTimeout  = 90 * time.Second
	defaultAPIPrefix      = "/api/v1"
	headerAuthorization   = "Authorization"
	headerContentType     = "Content-Type"
	contentTypeJSON       = "application/json"
)

// HTTPStore is the Store implementation over the REST backend.
type HTTPStore struct {
	baseURL string
	session *Session
	client  *http.Client

	// Per-operation deadlines. The http.Client itself carries no Timeout:
	// a client-level timeout would cap customization calls at the CRUD
	// budget regardless of the context deadline.
	requestTimeout   time.Duration
	customizeTimeout time.Duration
}

// NewHTTPStore creates a store client for the backend at baseURL using the
// explicitly injected session.
func NewHTTPStore(baseURL string, session *Session) *HTTPStore {
	return &HTTPStore{
		baseURL:          strings.TrimRight(baseURL, "/") + defaultAPIPrefix,
		session:          session,
		client:           &http.Client{},
		requestTimeout:   DefaultRequestTimeout,
		customizeTimeout: CustomizationTimeout,
	}
}

// kindPath maps a document kind to its URL segment.
func kindPath(kind types.DocumentKind) string {
	if kind == types.KindCoverLetter {
		return "cover-letters"
	}
	return "resumes"
}

// GetDocument fetches document metadata.
func (s *HTTPStore) GetDocument(ctx context.Context, kind types.DocumentKind, id uuid.UUID) (*types.Document, error) {
	var doc types.Document
	url := fmt.Sprintf("%s/%s/%s", s.baseURL, kindPath(kind), id)
	if err := s.doJSON(ctx, http.MethodGet, url, nil, &doc, KindLoad); err != nil {
		return nil, err
	}
	return &doc, nil
}

// versionListEnvelope accepts both response shapes the backend has used for
// version lists: a bare array and an object with a "versions" key.
type versionListEnvelope struct {
	versions []types.Version
}

func (e *versionListEnvelope) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(data, &e.versions)
	}
	var wrapped struct {
		Versions []types.Version `json:"versions"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	e.versions = wrapped.Versions
	return nil
}

// ListVersions returns the document's versions, newest first regardless of
// the order the backend sent them in.
func (s *HTTPStore) ListVersions(ctx context.Context, kind types.DocumentKind, id uuid.UUID) ([]types.Version, error) {
	var envelope versionListEnvelope
	url := fmt.Sprintf("%s/%s/%s/versions", s.baseURL, kindPath(kind), id)
	if err := s.doJSON(ctx, http.MethodGet, url, nil, &envelope, KindLoad); err != nil {
		return nil, err
	}
	versions := envelope.versions
	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].CreatedAt.After(versions[j].CreatedAt)
	})
	return versions, nil
}

// CreateDocument creates a document together with its first version.
func (s *HTTPStore) CreateDocument(ctx context.Context, kind types.DocumentKind, title, content string) (*types.Document, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &Error{Kind: KindValidation, Message: "title is required"}
	}
	body := map[string]string{"title": title, "content": content}
	var doc types.Document
	url := fmt.Sprintf("%s/%s", s.baseURL, kindPath(kind))
	if err := s.doJSON(ctx, http.MethodPost, url, body, &doc, KindSave); err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateVersion replaces the content of an existing version.
func (s *HTTPStore) UpdateVersion(ctx context.Context, kind types.DocumentKind, documentID, versionID uuid.UUID, content string) (*types.Version, error) {
	body := map[string]string{"content": content}
	var version types.Version
	url := fmt.Sprintf("%s/%s/%s/versions/%s", s.baseURL, kindPath(kind), documentID, versionID)
	if err := s.doJSON(ctx, http.MethodPut, url, body, &version, KindSave); err != nil {
		return nil, err
	}
	return &version, nil
}

// UpdateMetadata updates the document title.
func (s *HTTPStore) UpdateMetadata(ctx context.Context, kind types.DocumentKind, documentID uuid.UUID, title string) (*types.Document, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &Error{Kind: KindValidation, Message: "title is required"}
	}
	body := map[string]string{"title": title}
	var doc types.Document
	url := fmt.Sprintf("%s/%s/%s", s.baseURL, kindPath(kind), documentID)
	if err := s.doJSON(ctx, http.MethodPut, url, body, &doc, KindSave); err != nil {
		return nil, err
	}
	return &doc, nil
}

// RequestCustomization asks the backend's AI collaborator for a tailored
// variant. The version history is not modified by a preview.
func (s *HTTPStore) RequestCustomization(ctx context.Context, kind types.DocumentKind, documentID uuid.UUID, jobDescription string, opts types.CustomizeOptions) (string, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return "", &Error{Kind: KindValidation, Message: "job description is required"}
	}
	body := map[string]any{
		"job_description": jobDescription,
		"options":         opts,
	}
	var resp struct {
		CustomizedContent string `json:"customized_content"`
	}
	ctx, cancel := context.WithTimeout(ctx, s.customizeTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s/%s/customize", s.baseURL, kindPath(kind), documentID)
	if err := s.doJSON(ctx, http.MethodPost, url, body, &resp, KindCustomize); err != nil {
		return "", err
	}
	if resp.CustomizedContent == "" {
		return "", &Error{Kind: KindCustomize, Message: "backend returned empty customized content", Retryable: true}
	}
	return resp.CustomizedContent, nil
}

// CreateVersion appends a brand-new version with the given content.
func (s *HTTPStore) CreateVersion(ctx context.Context, kind types.DocumentKind, documentID uuid.UUID, content, jobDescription string) (*types.Version, error) {
	body := map[string]string{
		"content":         content,
		"job_description": jobDescription,
	}
	var version types.Version
	url := fmt.Sprintf("%s/%s/%s/versions", s.baseURL, kindPath(kind), documentID)
	if err := s.doJSON(ctx, http.MethodPost, url, body, &version, KindSave); err != nil {
		return nil, err
	}
	return &version, nil
}

// CreateApplication records a job application.
func (s *HTTPStore) CreateApplication(ctx context.Context, app types.Application) (*types.Application, error) {
	var created types.Application
	url := fmt.Sprintf("%s/applications", s.baseURL)
	if err := s.doJSON(ctx, http.MethodPost, url, app, &created, KindSave); err != nil {
		return nil, err
	}
	return &created, nil
}

// doJSON performs a JSON request/response round trip, mapping failures onto
// the store error taxonomy with failKind. Calls without a deadline get the
// default CRUD timeout; callers needing a longer budget (customization) set
// their own deadline first.
func (s *HTTPStore) doJSON(ctx context.Context, method, url string, body, out any, failKind ErrorKind) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: failKind, Message: "failed to encode request body", Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &Error{Kind: failKind, Message: "failed to build request", Cause: err}
	}
	req.Header.Set(headerContentType, contentTypeJSON)
	if s.session != nil && s.session.Token != "" {
		req.Header.Set(headerAuthorization, "Bearer "+s.session.Token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return &Error{Kind: failKind, Message: "request failed", Cause: err, Retryable: true}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s returned 404", method, url)}
	}
	if resp.StatusCode >= 400 {
		msg := readErrorMessage(resp.Body)
		return &Error{
			Kind:      failKind,
			Message:   fmt.Sprintf("backend returned %d: %s", resp.StatusCode, msg),
			Retryable: resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: failKind, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// readErrorMessage extracts the backend's error message, falling back to the
// raw body.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return "unreadable error body"
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(data))
}
