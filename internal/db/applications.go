package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/figuedmundo/resumator-sub003/internal/types"
)

const applicationColumns = `id, user_id, resume_id, resume_version_id,
	cover_letter_id, cover_letter_version_id, customized_version_id,
	company, position, job_description, additional_instructions,
	status, applied_date, notes, created_at, updated_at`

func scanApplication(row pgx.Row) (*types.Application, error) {
	var app types.Application
	err := row.Scan(
		&app.ID, &app.UserID, &app.ResumeID, &app.ResumeVersionID,
		&app.CoverLetterID, &app.CoverLetterVersionID, &app.CustomizedVersionID,
		&app.Company, &app.Position, &app.JobDescription, &app.AdditionalInstructions,
		&app.Status, &app.AppliedDate, &app.Notes, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// CreateApplication records a new job application.
func (db *DB) CreateApplication(ctx context.Context, app *types.Application) (*types.Application, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO applications (user_id, resume_id, resume_version_id,
		   cover_letter_id, cover_letter_version_id, customized_version_id,
		   company, position, job_description, additional_instructions,
		   status, applied_date, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING `+applicationColumns,
		app.UserID, app.ResumeID, app.ResumeVersionID,
		app.CoverLetterID, app.CoverLetterVersionID, app.CustomizedVersionID,
		app.Company, app.Position, app.JobDescription, app.AdditionalInstructions,
		app.Status, app.AppliedDate, app.Notes,
	)
	created, err := scanApplication(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return created, nil
}

// GetApplication retrieves an application owned by the user.
func (db *DB) GetApplication(ctx context.Context, userID, applicationID uuid.UUID) (*types.Application, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE id = $1 AND user_id = $2`,
		applicationID, userID,
	)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// ApplicationFilters holds optional filters for listing applications.
type ApplicationFilters struct {
	Company string
	Status  types.ApplicationStatus
	Limit   int
}

// ListApplications retrieves the user's applications, most recent first.
func (db *DB) ListApplications(ctx context.Context, userID uuid.UUID, filters ApplicationFilters) ([]types.Application, error) {
	if filters.Limit == 0 {
		filters.Limit = 100
	}

	query := `SELECT ` + applicationColumns + ` FROM applications WHERE user_id = $1`
	args := []any{userID}
	argNum := 2

	if filters.Company != "" {
		query += fmt.Sprintf(" AND company ILIKE $%d", argNum)
		args = append(args, "%"+filters.Company+"%")
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY applied_date DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []types.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, nil
}

// UpdateApplicationStatus changes the tracking status of an application.
func (db *DB) UpdateApplicationStatus(ctx context.Context, userID, applicationID uuid.UUID, status types.ApplicationStatus) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE applications SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND user_id = $3`,
		status, applicationID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateApplicationNotes replaces the free-form notes of an application.
func (db *DB) UpdateApplicationNotes(ctx context.Context, userID, applicationID uuid.UUID, notes string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE applications SET notes = $1, updated_at = NOW()
		 WHERE id = $2 AND user_id = $3`,
		notes, applicationID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update application notes: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteApplication removes an application. Referenced versions are kept.
func (db *DB) DeleteApplication(ctx context.Context, userID, applicationID uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM applications WHERE id = $1 AND user_id = $2`,
		applicationID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
