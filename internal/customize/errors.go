package customize

import "errors"

// ErrPreviewInFlight is returned when a preview is requested while another
// one is still pending for the same document. Previews are never queued.
var ErrPreviewInFlight = errors.New("customize: a preview is already in flight")

// ErrNoOverlay is returned by commit operations when no customization
// overlay is active.
var ErrNoOverlay = errors.New("customize: no active customization to commit")

// ErrNoSink is returned by SaveAsApplication when no handoff sink was
// configured.
var ErrNoSink = errors.New("customize: no handoff sink configured")
