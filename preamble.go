package mdpress

import "context"

// serifFontStack is the font family forced onto diagram labels so they
// match the document body in print.
const serifFontStack = `Georgia, 'Times New Roman', serif`

// mathJaxPreamble configures and loads MathJax before the document body
// renders. Both TeX dollar delimiters and the \( \) spans produced by
// the math extension are registered.
const mathJaxPreamble = `<script>
window.MathJax = {
  tex: {
    inlineMath: [['$', '$'], ['\\(', '\\)']],
    displayMath: [['$$', '$$'], ['\\[', '\\]']],
    processEscapes: true
  },
  svg: { fontCache: 'global' }
};
</script>
<script id="mathjax-script" async src="https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-svg.js"></script>`

// mermaidPreamble loads Mermaid and renders every .mermaid container on
// page load with the neutral theme, which prints well in grayscale.
const mermaidPreamble = `<script src="https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"></script>
<script>
mermaid.initialize({
  startOnLoad: true,
  theme: 'neutral',
  fontFamily: "Georgia, 'Times New Roman', serif"
});
</script>`

// diagramStylePreamble overrides Mermaid's inline SVG styling so diagram
// text and strokes stay consistent with the document typography.
const diagramStylePreamble = `<style>
.mermaid svg {
  font-family: Georgia, 'Times New Roman', serif !important;
  max-width: 100%;
}
.mermaid .label,
.mermaid text {
  font-family: Georgia, 'Times New Roman', serif !important;
  fill: #333333;
}
.mermaid .node rect,
.mermaid .node circle,
.mermaid .node ellipse,
.mermaid .node polygon,
.mermaid .edgePath path {
  stroke: #333333 !important;
}
</style>`

// scriptInjector defines the contract for client-script injection.
type scriptInjector interface {
	InjectClientScripts(ctx context.Context, content string) string
}

// scriptInjection prepends the constant client-script preamble to the
// preprocessed markdown, before the document is staged. The preamble is
// raw HTML and survives conversion untouched.
type scriptInjection struct{}

var _ scriptInjector = (*scriptInjection)(nil)

// InjectClientScripts returns the preamble followed by content, or the
// input unchanged when ctx is already done. The preamble does not depend
// on the document being converted.
func (s *scriptInjection) InjectClientScripts(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	return clientScriptPreamble() + "\n\n" + content
}

// clientScriptPreamble assembles the constant preamble: MathJax
// configuration and loader, Mermaid loader and init call, and the
// diagram style overrides, in that order.
func clientScriptPreamble() string {
	return mathJaxPreamble + "\n" + mermaidPreamble + "\n" + diagramStylePreamble
}
