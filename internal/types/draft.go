package types

// Draft is the transient, in-memory edit state mirroring a version.
// It is never persisted directly; saving replaces the persisted snapshot.
type Draft struct {
	Title   string
	Content string
}

// Equal reports whether two drafts hold identical title and content.
func (d Draft) Equal(other Draft) bool {
	return d.Title == other.Title && d.Content == other.Content
}

// Overlay is an uncommitted AI-customized variant held alongside the
// draft's baseline. It is discarded or promoted to a new version, never
// silently merged.
type Overlay struct {
	JobDescription     string
	CustomInstructions string
	ProposedContent    string
}

// Active reports whether the overlay holds a proposed variant.
func (o Overlay) Active() bool {
	return o.ProposedContent != ""
}

// CustomizeOptions carries optional knobs for an AI customization request.
type CustomizeOptions struct {
	CustomInstructions string `json:"custom_instructions,omitempty"`
	Company            string `json:"company,omitempty"`
}
