// Package preview renders chunked Markdown back to HTML for a best-effort
// side-by-side preview, the way a Dify plugin author would sanity-check a
// chunking pipeline's output in a browser. It never participates in chunk
// content or metadata: if the renderer fails or produces unexpected HTML,
// that has no effect on the chunks pkg/chunking already computed.
package preview

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/hsn0918/mdchunk/pkg/chunking"
)

var renderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// ChunkHTML is one chunk's rendered preview, alongside the metadata a
// reviewer would want next to it.
type ChunkHTML struct {
	Index      int    `json:"index"`
	HeaderPath string `json:"header_path,omitempty"`
	HTML       string `json:"html"`
}

// Render converts each chunk's content to standalone HTML using a
// full-CommonMark+GFM parser, independent of the structural scanner
// pkg/chunking uses internally. A chunk whose content fails to render
// (should not happen for well-formed Markdown) is skipped rather than
// aborting the whole preview.
func Render(result *chunking.ChunkingResult) []ChunkHTML {
	out := make([]ChunkHTML, 0, len(result.Chunks))
	for i, c := range result.Chunks {
		var buf bytes.Buffer
		if err := renderer.Convert([]byte(c.Content), &buf); err != nil {
			continue
		}
		headerPath, _ := c.Metadata[chunking.MetaHeaderPath].(string)
		out = append(out, ChunkHTML{Index: i, HeaderPath: headerPath, HTML: buf.String()})
	}
	return out
}
