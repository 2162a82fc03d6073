// Package server provides the HTTP REST API backing the editor client.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/figuedmundo/resumator-sub003/internal/db"
)

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid username or password"
}

// ErrUserExists indicates the username or email is already registered
type ErrUserExists struct{}

func (e *ErrUserExists) Error() string {
	return "username or email already registered"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validation *ErrValidation
	switch {
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrDuplicateUser):
		return http.StatusConflict
	case errors.Is(err, db.ErrVersionIsOriginal), errors.Is(err, db.ErrVersionIsLast):
		return http.StatusConflict
	case errors.As(err, &validation):
		return http.StatusBadRequest
	}
	switch err.(type) {
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	case *ErrUserExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
