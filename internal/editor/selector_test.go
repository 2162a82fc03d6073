package editor

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/figuedmundo/resumator-sub003/internal/types"
)

func versionList(ids ...uuid.UUID) []types.Version {
	out := make([]types.Version, len(ids))
	base := time.Now()
	for i, id := range ids {
		// Newest first, matching what the store returns.
		out[i] = types.Version{ID: id, CreatedAt: base.Add(-time.Duration(i) * time.Minute)}
	}
	return out
}

func TestSelection_DefaultsToNewest(t *testing.T) {
	newest := uuid.New()
	older := uuid.New()
	s := NewSelection(uuid.Nil)

	got := s.Apply(versionList(newest, older))
	assert.Equal(t, newest, got)
	assert.True(t, s.Active())
}

func TestSelection_DesiredWinsOnce(t *testing.T) {
	newest := uuid.New()
	desired := uuid.New()
	s := NewSelection(desired)

	got := s.Apply(versionList(newest, desired))
	assert.Equal(t, desired, got)

	// The desired id is one-shot: a fresh list must not re-apply it.
	s2 := NewSelection(desired)
	s2.Apply(versionList(newest, desired))
	s2.Force(newest)
	assert.Equal(t, newest, s2.Apply(versionList(newest, desired)))
}

func TestSelection_DesiredAbsentFallsBackToNewest(t *testing.T) {
	newest := uuid.New()
	s := NewSelection(uuid.New())

	got := s.Apply(versionList(newest))
	assert.Equal(t, newest, got)
}

func TestSelection_EmptyListStaysInactive(t *testing.T) {
	s := NewSelection(uuid.Nil)

	got := s.Apply(nil)
	assert.Equal(t, uuid.Nil, got)
	assert.False(t, s.Active())
	assert.Equal(t, uuid.Nil, s.Selected())
}

func TestSelection_RefreshDoesNotMoveActiveSelection(t *testing.T) {
	first := uuid.New()
	s := NewSelection(uuid.Nil)
	s.Apply(versionList(first))

	// A newer version appears at the head of the refreshed list; the
	// active selection must stay where the user left it.
	newer := uuid.New()
	got := s.Apply(versionList(newer, first))
	assert.Equal(t, first, got)
}

func TestSelection_ForceSwitches(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	s := NewSelection(uuid.Nil)
	s.Apply(versionList(first, second))

	s.Force(second)
	assert.Equal(t, second, s.Selected())
	assert.Equal(t, second, s.Apply(versionList(first, second)))
}
