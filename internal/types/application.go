package types

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus tracks where a job application stands.
type ApplicationStatus string

// Application statuses
const (
	StatusApplied      ApplicationStatus = "Applied"
	StatusInterviewing ApplicationStatus = "Interviewing"
	StatusRejected     ApplicationStatus = "Rejected"
	StatusOffer        ApplicationStatus = "Offer"
	StatusWithdrawn    ApplicationStatus = "Withdrawn"
)

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusInterviewing, StatusRejected, StatusOffer, StatusWithdrawn:
		return true
	}
	return false
}

// Application binds a specific resume version (and optionally a cover
// letter version) to a company and position.
type Application struct {
	ID                     uuid.UUID         `json:"id"`
	UserID                 uuid.UUID         `json:"user_id"`
	ResumeID               uuid.UUID         `json:"resume_id"`
	ResumeVersionID        uuid.UUID         `json:"resume_version_id"`
	CoverLetterID          *uuid.UUID        `json:"cover_letter_id,omitempty"`
	CoverLetterVersionID   *uuid.UUID        `json:"cover_letter_version_id,omitempty"`
	CustomizedVersionID    *uuid.UUID        `json:"customized_version_id,omitempty"`
	Company                string            `json:"company"`
	Position               string            `json:"position"`
	JobDescription         string            `json:"job_description,omitempty"`
	AdditionalInstructions string            `json:"additional_instructions,omitempty"`
	Status                 ApplicationStatus `json:"status"`
	AppliedDate            time.Time         `json:"applied_date"`
	Notes                  string            `json:"notes,omitempty"`
	CreatedAt              time.Time         `json:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at"`
}
