// Package editor implements the versioned-document editing core: version
// selection, the draft controller state machine, and the built-in document
// templates.
package editor

import (
	"github.com/google/uuid"

	"github.com/figuedmundo/resumator-sub003/internal/types"
)

// Selection deterministically picks which version of a document is being
// edited. An explicit desired id (carried over from navigation) wins once;
// otherwise the newest version is picked. Once a selection is active, list
// refreshes never move it implicitly; only Force does.
type Selection struct {
	desired  uuid.UUID
	selected uuid.UUID
	active   bool
}

// NewSelection creates a selection with an optional one-shot desired
// version id. Pass uuid.Nil for no preference.
func NewSelection(desired uuid.UUID) *Selection {
	return &Selection{desired: desired}
}

// Apply reconciles the selection against a freshly loaded version list
// (newest first) and returns the selected version id. With no versions it
// returns uuid.Nil and the selection stays inactive.
func (s *Selection) Apply(versions []types.Version) uuid.UUID {
	if s.active {
		return s.selected
	}
	if s.desired != uuid.Nil {
		for _, v := range versions {
			if v.ID == s.desired {
				s.selected = s.desired
				s.desired = uuid.Nil // one-shot
				s.active = true
				return s.selected
			}
		}
		// Desired id absent from the list: fall through to newest.
		s.desired = uuid.Nil
	}
	if len(versions) > 0 {
		s.selected = versions[0].ID
		s.active = true
		return s.selected
	}
	return uuid.Nil
}

// Force explicitly switches the selection to the given version id.
func (s *Selection) Force(id uuid.UUID) {
	s.selected = id
	s.desired = uuid.Nil
	s.active = true
}

// Selected returns the active version id, or uuid.Nil when nothing is
// selected yet.
func (s *Selection) Selected() uuid.UUID {
	if !s.active {
		return uuid.Nil
	}
	return s.selected
}

// Active reports whether a version is currently selected.
func (s *Selection) Active() bool {
	return s.active
}
