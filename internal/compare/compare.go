// Package compare prepares data for the original-versus-customized
// comparison view: word counts, deltas and a job description excerpt. It
// is pure presentation prep; the only state is the active display mode.
package compare

import "strings"

// Mode selects how the two documents are displayed.
type Mode string

// Display modes
const (
	ModeToggle Mode = "toggle" // one document visible, user-switchable
	ModeSplit  Mode = "split"  // both visible side by side
)

// Side identifies which document is visible in toggle mode.
type Side string

// Sides
const (
	SideOriginal   Side = "original"
	SideCustomized Side = "customized"
)

// excerptWords is how many leading words of the job description make it
// into the summary header.
const excerptWords = 12

// Summary holds the computed comparison framing for the view.
type Summary struct {
	OriginalWords         int
	CustomizedWords       int
	WordDelta             int // customized minus original
	JobDescriptionExcerpt string
	Empty                 bool // either side missing; render the empty state, never crash
}

// Summarize computes the comparison summary. Missing content on either
// side yields an explicit empty-state summary.
func Summarize(original, customized, jobDescription string) Summary {
	s := Summary{
		OriginalWords:         WordCount(original),
		CustomizedWords:       WordCount(customized),
		JobDescriptionExcerpt: Excerpt(jobDescription, excerptWords),
	}
	if strings.TrimSpace(original) == "" || strings.TrimSpace(customized) == "" {
		s.Empty = true
		return s
	}
	s.WordDelta = s.CustomizedWords - s.OriginalWords
	return s
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Excerpt returns the first maxWords words of s, with an ellipsis when
// truncated.
func Excerpt(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	if len(words) <= maxWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxWords], " ") + "..."
}

// View tracks the active display mode and visible side. Zero value is a
// usable toggle view showing the original.
type View struct {
	mode    Mode
	visible Side
}

// NewView creates a comparison view in the given mode.
func NewView(mode Mode) *View {
	if mode == "" {
		mode = ModeToggle
	}
	return &View{mode: mode, visible: SideOriginal}
}

// Mode returns the active display mode.
func (v *View) Mode() Mode {
	if v.mode == "" {
		return ModeToggle
	}
	return v.mode
}

// SetMode switches the display mode.
func (v *View) SetMode(mode Mode) {
	v.mode = mode
}

// Visible returns the side shown in toggle mode. In split mode both sides
// are always visible and this is ignored by the renderer.
func (v *View) Visible() Side {
	if v.visible == "" {
		return SideOriginal
	}
	return v.visible
}

// Toggle switches which side is visible in toggle mode.
func (v *View) Toggle() {
	if v.Visible() == SideOriginal {
		v.visible = SideCustomized
	} else {
		v.visible = SideOriginal
	}
}
