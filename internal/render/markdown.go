// Package render provides markdown-to-HTML rendering for document previews.
package render

import (
	"github.com/gomarkdown/markdown"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Preview renders markdown content to HTML for the editor preview and the
// comparison view.
func Preview(content string) []byte {
	opts := md_html.RendererOptions{
		Flags: md_html.CommonFlags | md_html.HrefTargetBlank,
	}
	renderer := md_html.NewRenderer(opts)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(content))
	return markdown.Render(doc, renderer)
}
