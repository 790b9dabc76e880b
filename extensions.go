package mdpress

import (
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// pluginChain returns the markdown extensions in registration order:
// the GFM substrate first, inline sugar next (emoji shortcodes, math
// spans), then the labeled containers, syntax highlighting last.
//
// Math spans are claimed at parse time, so underscores and asterisks
// inside `$...$` never reach the emphasis parser.
func pluginChain() []goldmark.Extender {
	return []goldmark.Extender{
		extension.GFM,            // Tables, strikethrough, autolinks, task lists
		extension.Footnote,       // [^1] footnotes
		extension.DefinitionList, // Term / : definition pairs
		emoji.Emoji,
		mathjax.MathJax,
		NewAdmonition("warning"),
		NewAdmonition("info"),
		highlighting.NewHighlighting(
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true), // CSS classes for smaller HTML and external stylesheet control
			),
		),
	}
}

// parserOptions returns the goldmark parser options for the pipeline.
func parserOptions() []parser.Option {
	return []parser.Option{
		parser.WithAutoHeadingID(), // Generate IDs for headings
	}
}

// rendererOptions returns the goldmark renderer options for the pipeline.
//
// WithUnsafe is required: the preprocessor emits raw diagram containers
// and the client-script preamble is plain HTML, both of which must pass
// through to the rendered page.
func rendererOptions() []renderer.Option {
	return []renderer.Option{
		html.WithXHTML(),
		html.WithUnsafe(),
	}
}
