package mdpress

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Admonition is a block node for a labeled callout container:
//
//	::: warning
//	Content parsed as regular markdown.
//	:::
//
// It renders as <div class="admonition <label>"> so the stylesheet can
// draw the callout box.
type Admonition struct {
	ast.BaseBlock

	// Label is the container label ("warning", "info").
	Label string

	// fenceLength is the colon count of the opening fence. The closing
	// fence must be at least as long, which lets containers nest.
	fenceLength int
}

// KindAdmonition is the node kind of Admonition blocks.
var KindAdmonition = ast.NewNodeKind("Admonition")

// Kind implements ast.Node.
func (n *Admonition) Kind() ast.NodeKind { return KindAdmonition }

// Dump implements ast.Node.
func (n *Admonition) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Label": n.Label}, nil)
}

// admonitionParser parses `:::`-fenced containers for a single label.
// One instance is registered per recognized label; lines with any other
// label fall through to regular parsing and render as literal text.
type admonitionParser struct {
	label []byte
}

var _ parser.BlockParser = (*admonitionParser)(nil)

func (p *admonitionParser) Trigger() []byte {
	return []byte{':'}
}

func (p *admonitionParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || line[pos] != ':' {
		return nil, parser.NoChildren
	}

	i := pos
	for ; i < len(line) && line[i] == ':'; i++ {
	}
	fenceLength := i - pos
	if fenceLength < 3 {
		return nil, parser.NoChildren
	}

	label := util.TrimRightSpace(util.TrimLeftSpace(line[i:]))
	if !bytes.Equal(label, p.label) {
		return nil, parser.NoChildren
	}

	node := &Admonition{Label: string(p.label), fenceLength: fenceLength}
	reader.Advance(segment.Len() - 1)
	return node, parser.HasChildren
}

func (p *admonitionParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if util.IsBlank(line) {
		return parser.Continue | parser.HasChildren
	}

	n := node.(*Admonition)
	w, pos := util.IndentWidth(line, reader.LineOffset())
	if w < 4 {
		i := pos
		for ; i < len(line) && line[i] == ':'; i++ {
		}
		length := i - pos
		if length >= n.fenceLength && util.IsBlank(line[i:]) {
			newline := 1
			if line[len(line)-1] != '\n' {
				newline = 0
			}
			reader.Advance(segment.Stop - segment.Start - newline - segment.Padding)
			return parser.Close
		}
	}

	return parser.Continue | parser.HasChildren
}

func (p *admonitionParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	// An unterminated container is closed at EOF; the content it
	// swallowed still renders, so malformed input degrades gracefully.
}

func (p *admonitionParser) CanInterruptParagraph() bool {
	return true
}

func (p *admonitionParser) CanAcceptIndentedLine() bool {
	return false
}

// admonitionHTMLRenderer renders Admonition nodes as div containers.
type admonitionHTMLRenderer struct{}

var _ renderer.NodeRenderer = (*admonitionHTMLRenderer)(nil)

// RegisterFuncs implements renderer.NodeRenderer.
func (r *admonitionHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindAdmonition, r.renderAdmonition)
}

func (r *admonitionHTMLRenderer) renderAdmonition(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*Admonition)
	if entering {
		// Labels come from the extension configuration, never from the
		// document, so they are safe to write unescaped.
		_, _ = w.WriteString(`<div class="admonition `)
		_, _ = w.WriteString(n.Label)
		_, _ = w.WriteString("\">\n")
	} else {
		_, _ = w.WriteString("</div>\n")
	}
	return ast.WalkContinue, nil
}

// admonitionExtension wires the parser and renderer for one label.
type admonitionExtension struct {
	label string
}

// NewAdmonition returns a goldmark extension that parses `::: <label>`
// fenced containers and renders them as styled callout boxes.
func NewAdmonition(label string) goldmark.Extender {
	return &admonitionExtension{label: label}
}

// Extend implements goldmark.Extender.
//
// The parser registers ahead of the definition list parser, which also
// triggers on ':' and would otherwise capture container fences that
// follow a paragraph.
func (e *admonitionExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithBlockParsers(
		util.Prioritized(&admonitionParser{label: []byte(e.label)}, 100),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&admonitionHTMLRenderer{}, 500),
	))
}
