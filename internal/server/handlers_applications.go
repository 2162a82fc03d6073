package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/figuedmundo/resumator-sub003/internal/db"
	"github.com/figuedmundo/resumator-sub003/internal/types"
)

// CreateApplicationRequest is the payload for recording an application.
type CreateApplicationRequest struct {
	ResumeID               uuid.UUID  `json:"resume_id" validate:"required"`
	ResumeVersionID        uuid.UUID  `json:"resume_version_id" validate:"required"`
	CoverLetterID          *uuid.UUID `json:"cover_letter_id,omitempty"`
	CoverLetterVersionID   *uuid.UUID `json:"cover_letter_version_id,omitempty"`
	CustomizedVersionID    *uuid.UUID `json:"customized_version_id,omitempty"`
	Company                string     `json:"company" validate:"required,max=200"`
	Position               string     `json:"position" validate:"required,max=200"`
	JobDescription         string     `json:"job_description"`
	AdditionalInstructions string     `json:"additional_instructions"`
	Status                 string     `json:"status"`
	AppliedDate            *time.Time `json:"applied_date,omitempty"`
	Notes                  string     `json:"notes"`
}

// UpdateApplicationRequest is the payload for updating tracking fields.
type UpdateApplicationRequest struct {
	Status *string `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req CreateApplicationRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	status := types.StatusApplied
	if req.Status != "" {
		status = types.ApplicationStatus(req.Status)
		if !status.Valid() {
			s.failResponse(w, &ErrValidation{Field: "status", Message: "unknown status"})
			return
		}
	}
	appliedDate := time.Now()
	if req.AppliedDate != nil {
		appliedDate = *req.AppliedDate
	}

	app := &types.Application{
		UserID:                 userID,
		ResumeID:               req.ResumeID,
		ResumeVersionID:        req.ResumeVersionID,
		CoverLetterID:          req.CoverLetterID,
		CoverLetterVersionID:   req.CoverLetterVersionID,
		CustomizedVersionID:    req.CustomizedVersionID,
		Company:                req.Company,
		Position:               req.Position,
		JobDescription:         req.JobDescription,
		AdditionalInstructions: req.AdditionalInstructions,
		Status:                 status,
		AppliedDate:            appliedDate,
		Notes:                  req.Notes,
	}

	created, err := s.db.CreateApplication(r.Context(), app)
	if err != nil {
		s.failResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filters := db.ApplicationFilters{
		Company: r.URL.Query().Get("company"),
		Status:  types.ApplicationStatus(r.URL.Query().Get("status")),
	}
	apps, err := s.db.ListApplications(r.Context(), userID, filters)
	if err != nil {
		s.failResponse(w, err)
		return
	}
	if apps == nil {
		apps = []types.Application{}
	}
	s.jsonResponse(w, http.StatusOK, apps)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	app, err := s.db.GetApplication(r.Context(), userID, id)
	if err != nil {
		s.failResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateApplicationRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	if req.Status != nil {
		status := types.ApplicationStatus(*req.Status)
		if !status.Valid() {
			s.failResponse(w, &ErrValidation{Field: "status", Message: "unknown status"})
			return
		}
		if err := s.db.UpdateApplicationStatus(r.Context(), userID, id, status); err != nil {
			s.failResponse(w, err)
			return
		}
	}
	if req.Notes != nil {
		if err := s.db.UpdateApplicationNotes(r.Context(), userID, id, *req.Notes); err != nil {
			s.failResponse(w, err)
			return
		}
	}

	app, err := s.db.GetApplication(r.Context(), userID, id)
	if err != nil {
		s.failResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.db.DeleteApplication(r.Context(), userID, id); err != nil {
		s.failResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
