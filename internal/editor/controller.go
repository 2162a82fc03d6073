package editor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/figuedmundo/resumator-sub003/internal/autosave"
	"github.com/figuedmundo/resumator-sub003/internal/store"
	"github.com/figuedmundo/resumator-sub003/internal/types"
)

// State is the draft controller's lifecycle state.
type State string

// Controller states
const (
	StateLoading State = "loading"
	StateClean   State = "editing_clean"
	StateDirty   State = "editing_dirty"
	StateSaving  State = "saving"
	StateError   State = "error"
)

// SwitchPolicy governs what happens when the user switches the selected
// version while the draft is dirty. The default blocks the switch so the
// surrounding UI must resolve save-or-discard explicitly.
type SwitchPolicy int

// Switch policies
const (
	SwitchBlock SwitchPolicy = iota
	SwitchDiscard
	SwitchSave
)

// Snapshot is an immutable view of the controller state for subscribers.
type Snapshot struct {
	State             State
	SaveStatus        autosave.Status
	Kind              types.DocumentKind
	DocumentID        uuid.UUID
	SelectedVersionID uuid.UUID
	Draft             types.Draft
	Dirty             bool
	IsNew             bool
	ErrorMessage      string
}

// Options configures a draft controller.
type Options struct {
	Kind             types.DocumentKind
	DocumentID       uuid.UUID // uuid.Nil starts a new, unpersisted document
	DesiredVersionID uuid.UUID // optional one-shot selection carried from navigation
	SwitchPolicy     SwitchPolicy
	AutosaveDelay    time.Duration
	Logger           zerolog.Logger
	OnChange         func(Snapshot) // invoked outside the controller lock
}

// Controller owns the editable draft for one document: it loads the
// selected version into the draft, tracks dirtiness against the last
// persisted snapshot, and serializes manual and automatic saves through
// the store. All methods are safe for concurrent use.
type Controller struct {
	mu       sync.Mutex
	store    store.Store
	kind     types.DocumentKind
	policy   SwitchPolicy
	log      zerolog.Logger
	onChange func(Snapshot)
	sched    *autosave.Scheduler

	state     State
	doc       *types.Document
	versions  []types.Version
	selection *Selection
	draft     types.Draft
	baseline  types.Draft // last persisted snapshot; saves move this, never the draft
	isNew     bool
	errMsg    string
	inFlight  bool
	followUp  bool // a save arrived while one was in flight; coalesced, not queued
	loadGen   uint64
	closed    bool
}

// NewController creates a controller. For a new document (no id) the draft
// starts from the built-in template and the controller is immediately
// editable; for an existing document, call Load before editing.
func NewController(st store.Store, opts Options) *Controller {
	c := &Controller{
		store:     st,
		kind:      opts.Kind,
		policy:    opts.SwitchPolicy,
		log:       opts.Logger.With().Str("component", "editor").Str("kind", string(opts.Kind)).Logger(),
		onChange:  opts.OnChange,
		selection: NewSelection(opts.DesiredVersionID),
	}
	c.sched = autosave.New(opts.AutosaveDelay, c.autosaveCallback)
	c.sched.OnStatus(func(autosave.Status) { c.notify() })

	if opts.DocumentID == uuid.Nil {
		c.isNew = true
		c.draft = types.Draft{
			Title:   DefaultTitleFor(opts.Kind),
			Content: TemplateFor(opts.Kind),
		}
		c.baseline = c.draft
		c.state = StateClean
	} else {
		c.doc = &types.Document{ID: opts.DocumentID, Kind: opts.Kind}
		c.state = StateLoading
	}
	return c
}

// Load fetches document metadata and the version list concurrently, then
// populates the draft from the selected version. The draft is only
// populated once both have arrived. A load failure is blocking: the
// controller stays unusable and no draft is fabricated from partial data.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.isNew {
		c.mu.Unlock()
		return nil
	}
	docID := c.doc.ID
	c.loadGen++
	gen := c.loadGen
	c.mu.Unlock()

	var (
		doc      *types.Document
		versions []types.Version
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		doc, err = c.store.GetDocument(gctx, c.kind, docID)
		return err
	})
	g.Go(func() error {
		var err error
		versions, err = c.store.ListVersions(gctx, c.kind, docID)
		return err
	})
	if err := g.Wait(); err != nil {
		c.mu.Lock()
		if !c.closed && gen == c.loadGen {
			c.state = StateError
			c.errMsg = err.Error()
		}
		c.mu.Unlock()
		c.notify()
		return err
	}

	c.mu.Lock()
	if c.closed || gen != c.loadGen {
		// Torn down or superseded by a newer load; drop the stale result.
		c.mu.Unlock()
		return nil
	}
	c.doc = doc
	c.versions = versions
	selectedID := c.selection.Apply(versions)
	if v := c.versionLocked(selectedID); v != nil {
		c.draft = types.Draft{Title: doc.Title, Content: v.Content}
	} else {
		// Brand-new shell with no versions: fall back to the template
		// instead of blocking on an empty history.
		c.draft = types.Draft{Title: doc.Title, Content: TemplateFor(c.kind)}
	}
	c.baseline = c.draft
	c.state = StateClean
	c.errMsg = ""
	c.mu.Unlock()
	c.notify()
	return nil
}

// SetTitle applies a title edit to the draft. Never blocks.
func (c *Controller) SetTitle(title string) {
	c.mutate(func(d *types.Draft) { d.Title = title })
}

// SetContent applies a content edit to the draft. Never blocks.
func (c *Controller) SetContent(content string) {
	c.mutate(func(d *types.Draft) { d.Content = content })
}

func (c *Controller) mutate(apply func(*types.Draft)) {
	c.mu.Lock()
	if c.closed || c.state == StateLoading {
		c.mu.Unlock()
		return
	}
	apply(&c.draft)
	dirty := !c.draft.Equal(c.baseline)
	if c.state != StateSaving {
		if dirty {
			c.state = StateDirty
		} else {
			c.state = StateClean
		}
	}
	// Autosave only for an existing document's existing version; it never
	// creates documents or versions on the user's behalf.
	arm := dirty && !c.isNew && c.selection.Active()
	c.mu.Unlock()
	if arm {
		c.sched.Trigger()
	}
	c.notify()
}

// Save performs an explicit, user-initiated save. While a save is already
// in flight the request coalesces with it instead of queueing.
func (c *Controller) Save(ctx context.Context) error {
	return c.performSave(ctx)
}

// autosaveCallback is invoked by the scheduler when the debounce timer
// expires. It skips silently when there is nothing it may save.
func (c *Controller) autosaveCallback(ctx context.Context) error {
	c.mu.Lock()
	skip := c.closed || c.isNew || !c.selection.Active() || c.draft.Equal(c.baseline)
	c.mu.Unlock()
	if skip {
		return nil
	}
	return c.performSave(ctx)
}

// performSave serializes saves: at most one outstanding save per document.
// On success only the baseline moves; the draft is never overwritten, so a
// save landing after further edits leaves those edits intact.
func (c *Controller) performSave(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state == StateLoading {
		c.mu.Unlock()
		return ErrNotLoaded
	}
	if c.inFlight {
		c.followUp = true
		c.mu.Unlock()
		return nil
	}
	snap := c.draft
	wasNew := c.isNew
	var docID, versionID uuid.UUID
	var oldTitle string
	if !wasNew {
		docID = c.doc.ID
		versionID = c.selection.Selected()
		oldTitle = c.doc.Title
	}
	c.inFlight = true
	c.state = StateSaving
	c.errMsg = ""
	c.mu.Unlock()
	c.notify()

	var (
		savedDoc     *types.Document
		savedVersion *types.Version
		newVersions  []types.Version
		err          error
	)
	if wasNew {
		savedDoc, err = c.store.CreateDocument(ctx, c.kind, snap.Title, snap.Content)
		if err == nil {
			newVersions, err = c.store.ListVersions(ctx, c.kind, savedDoc.ID)
		}
	} else {
		if versionID == uuid.Nil {
			// Existing shell without versions: a manual save creates the
			// first version.
			savedVersion, err = c.store.CreateVersion(ctx, c.kind, docID, snap.Content, "")
			if err == nil {
				newVersions, err = c.store.ListVersions(ctx, c.kind, docID)
			}
		} else {
			savedVersion, err = c.store.UpdateVersion(ctx, c.kind, docID, versionID, snap.Content)
		}
		if err == nil && snap.Title != oldTitle {
			savedDoc, err = c.store.UpdateMetadata(ctx, c.kind, docID, snap.Title)
		}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return err
	}
	c.inFlight = false
	if err != nil {
		// The draft is preserved exactly as the user left it.
		c.state = StateError
		c.errMsg = err.Error()
		c.followUp = false
		c.mu.Unlock()
		c.notify()
		c.log.Warn().Err(err).Msg("save failed; draft preserved")
		return err
	}

	c.baseline = snap
	if savedDoc != nil {
		c.doc = savedDoc
	}
	if wasNew {
		c.isNew = false
		c.versions = newVersions
		c.selection.Apply(newVersions)
	} else if savedVersion != nil {
		c.patchVersionLocked(*savedVersion)
		if versionID == uuid.Nil {
			c.versions = newVersions
			c.selection.Apply(newVersions)
		}
	} else if newVersions != nil {
		c.versions = newVersions
		c.selection.Apply(newVersions)
	}
	dirty := !c.draft.Equal(c.baseline)
	if dirty {
		c.state = StateDirty
	} else {
		c.state = StateClean
	}
	followUp := c.followUp && dirty
	c.followUp = false
	c.mu.Unlock()
	c.notify()
	if followUp {
		// The coalesced request restarts the debounce rather than firing
		// immediately; superseding, not pipelining.
		c.sched.Trigger()
	}
	return nil
}

// SelectVersion explicitly switches the edited version. With a dirty draft
// the configured SwitchPolicy decides: block (default), discard, or save
// first. Never silently drops work.
func (c *Controller) SelectVersion(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state == StateLoading {
		c.mu.Unlock()
		return ErrNotLoaded
	}
	dirty := !c.draft.Equal(c.baseline)
	policy := c.policy
	c.mu.Unlock()

	if dirty {
		switch policy {
		case SwitchBlock:
			return &DirtyDraftError{TargetVersionID: id}
		case SwitchSave:
			if err := c.performSave(ctx); err != nil {
				return err
			}
		case SwitchDiscard:
			// Draft is replaced below.
		}
	}

	c.mu.Lock()
	v := c.versionLocked(id)
	if v == nil {
		c.mu.Unlock()
		return &VersionNotFoundError{VersionID: id}
	}
	c.selection.Force(id)
	title := c.draft.Title
	if c.doc != nil {
		title = c.doc.Title
	}
	c.draft = types.Draft{Title: title, Content: v.Content}
	c.baseline = c.draft
	c.state = StateClean
	c.errMsg = ""
	c.mu.Unlock()
	c.notify()
	return nil
}

// RefreshVersions reloads the version list. An active selection is left
// untouched even if the refreshed list is reordered or grew.
func (c *Controller) RefreshVersions(ctx context.Context) error {
	c.mu.Lock()
	if c.closed || c.isNew {
		c.mu.Unlock()
		return nil
	}
	docID := c.doc.ID
	c.loadGen++
	gen := c.loadGen
	c.mu.Unlock()

	versions, err := c.store.ListVersions(ctx, c.kind, docID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed || gen != c.loadGen {
		c.mu.Unlock()
		return nil
	}
	c.versions = versions
	c.selection.Apply(versions)
	c.mu.Unlock()
	c.notify()
	return nil
}

// Close tears the controller down: pending autosave timers are cancelled
// and results of in-flight requests are dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.sched.Stop()
}

// Snapshot returns a consistent view of the controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SelectedVersionID returns the version the draft mirrors, or uuid.Nil.
func (c *Controller) SelectedVersionID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.Selected()
}

// Versions returns a copy of the loaded version list, newest first.
func (c *Controller) Versions() []types.Version {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]types.Version, len(c.versions))
	copy(out, c.versions)
	return out
}

// Kind returns the controller's document kind.
func (c *Controller) Kind() types.DocumentKind {
	return c.kind
}

// SaveStatus returns the autosave scheduler's status.
func (c *Controller) SaveStatus() autosave.Status {
	return c.sched.Status()
}

func (c *Controller) snapshotLocked() Snapshot {
	var docID uuid.UUID
	if c.doc != nil {
		docID = c.doc.ID
	}
	return Snapshot{
		State:             c.state,
		SaveStatus:        c.sched.Status(),
		Kind:              c.kind,
		DocumentID:        docID,
		SelectedVersionID: c.selection.Selected(),
		Draft:             c.draft,
		Dirty:             !c.draft.Equal(c.baseline),
		IsNew:             c.isNew,
		ErrorMessage:      c.errMsg,
	}
}

func (c *Controller) versionLocked(id uuid.UUID) *types.Version {
	if id == uuid.Nil {
		return nil
	}
	for i := range c.versions {
		if c.versions[i].ID == id {
			return &c.versions[i]
		}
	}
	return nil
}

func (c *Controller) patchVersionLocked(v types.Version) {
	for i := range c.versions {
		if c.versions[i].ID == v.ID {
			c.versions[i] = v
			return
		}
	}
}

func (c *Controller) notify() {
	if c.onChange == nil {
		return
	}
	c.onChange(c.Snapshot())
}
