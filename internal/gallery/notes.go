package gallery

import (
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// RenderNotes converts a markdown sidecar to HTML. Raw HTML in the source is
// dropped and only safe link protocols are kept.
func RenderNotes(source []byte) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.SkipHTML | html.Safelink | html.HrefTargetBlank,
	})
	return template.HTML(markdown.ToHTML(source, p, renderer))
}
