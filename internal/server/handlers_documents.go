package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/figuedmundo/resumator-sub003/internal/ingest"
	"github.com/figuedmundo/resumator-sub003/internal/types"
)

// CreateDocumentRequest is the payload for creating a document together
// with its first version.
type CreateDocumentRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content"`
}

// UpdateDocumentRequest is the payload for renaming a document.
type UpdateDocumentRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

// CreateVersionRequest is the payload for appending a version.
type CreateVersionRequest struct {
	Content        string `json:"content" validate:"required"`
	JobDescription string `json:"job_description"`
	Company        string `json:"company"`
}

// UpdateVersionRequest is the payload for replacing version content.
type UpdateVersionRequest struct {
	Content string `json:"content" validate:"required"`
}

// CustomizeRequest is the payload for an AI customization. Either the job
// description text or a job posting URL must be provided.
type CustomizeRequest struct {
	JobDescription string                 `json:"job_description"`
	JobURL         string                 `json:"job_url"`
	Options        types.CustomizeOptions `json:"options"`
}

// CustomizeResponse carries the AI-customized content. Nothing is
// persisted by a customization call.
type CustomizeResponse struct {
	CustomizedContent string `json:"customized_content"`
	JobDescription    string `json:"job_description"`
}

// pathID parses a UUID path segment, writing a 400 on failure.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request, segment string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(segment))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// decodeValid decodes and validates a JSON request body.
func (s *Server) decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := s.validator.Struct(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return false
	}
	return true
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request, kind types.DocumentKind) {
	userID, err := userIDFrom(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req CreateDocumentRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	doc, _, err := s.db.CreateDocument(r.Context(), userID, kind, req.Title, req.Content)
	if err != nil {
		s.failResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, doc)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request, kind types.DocumentKind) {
	userID, err := userIDFrom(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	docs, err := s.db.ListDocuments(r.Context(), userID, kind)
	if err != nil {
		s.failResponse(w, err)
		return
	}
	if docs == nil {
		docs = []types.Document{}
	}
	s.jsonResponse(w, http.StatusOK, docs)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request, kind types.DocumentKind) {
	userID, err := userIDFrom(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	doc, err := s.db.GetDocument(r.Context(), userID, id, kind)
	if err != nil {
		s.failResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request, kind types.DocumentKind) {
	userID, err := userIDFrom(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateDocumentRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	if err := s.db.UpdateDocumentTitle(r.Context(), userID, id, kind, req.Title); err != nil {
		s.failResponse(w, err)
		return
	}
	doc, err := s.db.GetDocument(r.Context(), userID, id, kind)
	if err != nil {
		s.failResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request, kind types.DocumentKind) {
	userID, err := userIDFrom(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.db.DeleteDocument(r.Context(), userID, id, kind); err != nil {
		s.failResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetDefaultDocument(w http.ResponseWriter, r *http.Request, kind types.DocumentKind) {
	userID, err := userIDFrom(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.db.SetDefaultDocument(r.Context(), userID, id, kind); err != nil {
		s.failResponse(w, err)
		return
	}
	doc, err := s.db.GetDocument(r.Context(), userID, id, kind)
	if err != nil {
		s.failResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request, kind types.DocumentKind) {
	userID, err := userIDFrom(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	versions, err := s.db.ListVersions(r.Context(), userID, id, kind)
	if err != nil {
		s.failResponse(w, err)
		return
	}
	if versions == nil {
		versions = []types.Version{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"versions": versions})
}

func (s *Server) handleCreateVersion(w http.ResponseWriter, r *http.Request, kind types.DocumentKind) {
	userID, err := userIDFrom(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	var req CreateVersionRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	version, err := s.db.CreateVersion(r.Context(), userID, id, kind, req.Content, req.JobDescription, req.Company)
	if err != nil {
		s.failResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, version)
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request, kind types.DocumentKind) {
	userID, err := userIDFrom(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	versionID, ok := s.pathID(w, r, "vid")
	if !ok {
		return
	}
	version, err := s.db.GetVersion(r.Context(), userID, id, versionID, kind)
	if err != nil {
		s.failResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, version)
}

func (s *Server) handleUpdateVersion(w http.ResponseWriter, r *http.Request, kind types.DocumentKind) {
	userID, err := userIDFrom(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	versionID, ok := s.pathID(w, r, "vid")
	if !ok {
		return
	}
	var req UpdateVersionRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	version, err := s.db.UpdateVersion(r.Context(), userID, id, versionID, kind, req.Content)
	if err != nil {
		s.failResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, version)
}

func (s *Server) handleDeleteVersion(w http.ResponseWriter, r *http.Request, kind types.DocumentKind) {
	userID, err := userIDFrom(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	versionID, ok := s.pathID(w, r, "vid")
	if !ok {
		return
	}
	if err := s.db.DeleteVersion(r.Context(), userID, id, versionID, kind); err != nil {
		s.failResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCustomize generates an AI-customized variant of the document's
// newest version. The result is returned to the caller only; version
// history is never touched here.
func (s *Server) handleCustomize(w http.ResponseWriter, r *http.Request, kind types.DocumentKind) {
	userID, err := userIDFrom(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if s.ai == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "AI customization is not configured")
		return
	}
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	var req CustomizeRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	jobDescription := req.JobDescription
	if jobDescription == "" && req.JobURL != "" {
		jobDescription, err = ingest.JobDescription(r.Context(), req.JobURL, nil)
		if err != nil {
			s.errorResponse(w, http.StatusBadGateway, "failed to fetch job posting")
			return
		}
	}
	if jobDescription == "" {
		s.failResponse(w, &ErrValidation{Field: "job_description", Message: "required"})
		return
	}

	versions, err := s.db.ListVersions(r.Context(), userID, id, kind)
	if err != nil {
		s.failResponse(w, err)
		return
	}
	if len(versions) == 0 {
		s.errorResponse(w, http.StatusNotFound, "document has no versions")
		return
	}

	customized, err := s.ai.Customize(r.Context(), versions[0].Content, jobDescription, req.Options)
	if err != nil {
		s.log.Error().Err(err).Msg("customization failed")
		s.errorResponse(w, http.StatusBadGateway, "customization failed")
		return
	}
	s.jsonResponse(w, http.StatusOK, CustomizeResponse{
		CustomizedContent: customized,
		JobDescription:    jobDescription,
	})
}
