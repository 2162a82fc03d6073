package editor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrClosed is returned by operations on a controller that has been torn down.
var ErrClosed = errors.New("editor: controller is closed")

// ErrNotLoaded is returned when an operation requires a completed load.
var ErrNotLoaded = errors.New("editor: document not loaded")

// DirtyDraftError is returned by SelectVersion under SwitchBlock when the
// draft has unsaved changes. The caller must save or discard before
// switching.
type DirtyDraftError struct {
	TargetVersionID uuid.UUID
}

func (e *DirtyDraftError) Error() string {
	return fmt.Sprintf("draft has unsaved changes; resolve before switching to version %s", e.TargetVersionID)
}

// VersionNotFoundError is returned when a requested version id is not in
// the loaded version list.
type VersionNotFoundError struct {
	VersionID uuid.UUID
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version not in loaded list: %s", e.VersionID)
}
