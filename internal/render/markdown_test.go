package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreview_RendersHeadingsAndLists(t *testing.T) {
	html := string(Preview("# Jane Doe\n\n- Go\n- PostgreSQL\n"))
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "Jane Doe")
	assert.Contains(t, html, "<li>Go</li>")
}

func TestPreview_ExternalLinksOpenInNewTab(t *testing.T) {
	html := string(Preview("[portfolio](https://example.com)"))
	assert.Contains(t, html, `target="_blank"`)
	assert.Contains(t, html, `href="https://example.com"`)
}

func TestPreview_EmptyInput(t *testing.T) {
	assert.Empty(t, string(Preview("")))
}
