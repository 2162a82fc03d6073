package editor

import "github.com/figuedmundo/resumator-sub003/internal/types"

// Built-in templates used when a brand-new document has no versions yet.
// The controller falls back to these instead of blocking on the network.

const resumeTemplate = `# Your Name

your.email@example.com | (555) 000-0000 | City, ST

## Summary

One or two sentences describing your experience and what you are looking for.

## Experience

### Role — Company
*Start – End*

- Achievement with a measurable outcome
- Another achievement

## Education

### Degree — School
*Year*

## Skills

- Skill one, skill two, skill three
`

const coverLetterTemplate = `Dear Hiring Manager,

I am writing to express my interest in the [Position] role at [Company].

[Why you are a strong fit: one or two short paragraphs.]

Thank you for your time and consideration.

Sincerely,
Your Name
`

// TemplateFor returns the built-in starting content for a document kind.
func TemplateFor(kind types.DocumentKind) string {
	if kind == types.KindCoverLetter {
		return coverLetterTemplate
	}
	return resumeTemplate
}

// DefaultTitleFor returns the starting title for a new document of a kind.
func DefaultTitleFor(kind types.DocumentKind) string {
	if kind == types.KindCoverLetter {
		return "Untitled Cover Letter"
	}
	return "Untitled Resume"
}
