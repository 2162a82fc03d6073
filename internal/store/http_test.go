package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figuedmundo/resumator-sub003/internal/types"
)

func testSession() *Session {
	return &Session{Token: "test-token", UserID: uuid.New()}
}

func TestHTTPStore_GetDocument(t *testing.T) {
	docID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, fmt.Sprintf("/api/v1/resumes/%s", docID), r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(types.Document{ID: docID, Kind: types.KindResume, Title: "My Resume"})
	}))
	defer server.Close()

	s := NewHTTPStore(server.URL, testSession())
	doc, err := s.GetDocument(context.Background(), types.KindResume, docID)
	require.NoError(t, err)
	assert.Equal(t, docID, doc.ID)
	assert.Equal(t, "My Resume", doc.Title)
}

func TestHTTPStore_CoverLetterPath(t *testing.T) {
	docID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fmt.Sprintf("/api/v1/cover-letters/%s", docID), r.URL.Path)
		_ = json.NewEncoder(w).Encode(types.Document{ID: docID, Kind: types.KindCoverLetter})
	}))
	defer server.Close()

	s := NewHTTPStore(server.URL, testSession())
	_, err := s.GetDocument(context.Background(), types.KindCoverLetter, docID)
	require.NoError(t, err)
}

func TestHTTPStore_ListVersionsBareArray(t *testing.T) {
	old := types.Version{ID: uuid.New(), CreatedAt: time.Now().Add(-time.Hour)}
	newer := types.Version{ID: uuid.New(), CreatedAt: time.Now()}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Oldest first on the wire; the client must normalize.
		_ = json.NewEncoder(w).Encode([]types.Version{old, newer})
	}))
	defer server.Close()

	s := NewHTTPStore(server.URL, testSession())
	versions, err := s.ListVersions(context.Background(), types.KindResume, uuid.New())
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, newer.ID, versions[0].ID, "newest must come first")
}

func TestHTTPStore_ListVersionsWrappedObject(t *testing.T) {
	v := types.Version{ID: uuid.New(), CreatedAt: time.Now()}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"versions": []types.Version{v}})
	}))
	defer server.Close()

	s := NewHTTPStore(server.URL, testSession())
	versions, err := s.ListVersions(context.Background(), types.KindResume, uuid.New())
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, v.ID, versions[0].ID)
}

func TestHTTPStore_NotFoundMapsToKindNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := NewHTTPStore(server.URL, testSession())
	_, err := s.GetDocument(context.Background(), types.KindResume, uuid.New())
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestHTTPStore_ServerErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "database on fire"}`))
	}))
	defer server.Close()

	s := NewHTTPStore(server.URL, testSession())
	_, err := s.GetDocument(context.Background(), types.KindResume, uuid.New())
	require.Error(t, err)

	var storeErr *Error
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, KindLoad, storeErr.Kind)
	assert.True(t, storeErr.Retryable)
	assert.Contains(t, storeErr.Message, "database on fire")
}

func TestHTTPStore_BadRequestNotRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "title is required"}`))
	}))
	defer server.Close()

	s := NewHTTPStore(server.URL, testSession())
	_, err := s.CreateDocument(context.Background(), types.KindResume, "Title", "content")
	require.Error(t, err)

	var storeErr *Error
	require.ErrorAs(t, err, &storeErr)
	assert.False(t, storeErr.Retryable)
}

func TestHTTPStore_CreateDocumentValidatesLocally(t *testing.T) {
	// No server: validation must fail before any network call.
	s := NewHTTPStore("http://127.0.0.1:0", testSession())
	_, err := s.CreateDocument(context.Background(), types.KindResume, "   ", "content")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
}

func TestHTTPStore_RequestCustomization(t *testing.T) {
	docID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fmt.Sprintf("/api/v1/resumes/%s/customize", docID), r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Go role", body["job_description"])
		_ = json.NewEncoder(w).Encode(map[string]string{"customized_content": "# Tailored"})
	}))
	defer server.Close()

	s := NewHTTPStore(server.URL, testSession())
	content, err := s.RequestCustomization(context.Background(), types.KindResume, docID, "Go role", types.CustomizeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "# Tailored", content)
}

func TestHTTPStore_RequestCustomizationEmptyResultIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"customized_content": ""})
	}))
	defer server.Close()

	s := NewHTTPStore(server.URL, testSession())
	_, err := s.RequestCustomization(context.Background(), types.KindResume, uuid.New(), "Go role", types.CustomizeOptions{})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindCustomize))
}

func TestHTTPStore_CustomizationOutlivesRequestTimeout(t *testing.T) {
	// The backend responds slower than the CRUD deadline; a customization
	// call must still succeed within its own, longer budget.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]string{"customized_content": "# Tailored"})
	}))
	defer server.Close()

	s := NewHTTPStore(server.URL, testSession())
	s.requestTimeout = 50 * time.Millisecond
	s.customizeTimeout = 2 * time.Second

	content, err := s.RequestCustomization(context.Background(), types.KindResume, uuid.New(), "Go role", types.CustomizeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "# Tailored", content)
}

func TestHTTPStore_RequestTimeoutBoundsCRUD(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(types.Document{ID: uuid.New()})
	}))
	defer server.Close()

	s := NewHTTPStore(server.URL, testSession())
	s.requestTimeout = 50 * time.Millisecond

	_, err := s.GetDocument(context.Background(), types.KindResume, uuid.New())
	require.Error(t, err)

	var storeErr *Error
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, KindLoad, storeErr.Kind)
	assert.True(t, storeErr.Retryable)
}

func TestHTTPStore_UpdateVersion(t *testing.T) {
	docID, versionID := uuid.New(), uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, fmt.Sprintf("/api/v1/resumes/%s/versions/%s", docID, versionID), r.URL.Path)
		_ = json.NewEncoder(w).Encode(types.Version{ID: versionID, DocumentID: docID, Content: "new content"})
	}))
	defer server.Close()

	s := NewHTTPStore(server.URL, testSession())
	v, err := s.UpdateVersion(context.Background(), types.KindResume, docID, versionID, "new content")
	require.NoError(t, err)
	assert.Equal(t, "new content", v.Content)
}
