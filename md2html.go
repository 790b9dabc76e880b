package mdpress

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
)

// htmlShellTemplate wraps Goldmark's fragment output in a complete HTML5
// document with the stylesheet inlined, so the rendered page has no
// external file dependencies.
const htmlShellTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
%s
</style>
</head>
<body class="%s">
%s
</body>
</html>`

// documentShell carries the chrome wrapped around the converted body.
type documentShell struct {
	Title     string // document title, defaults to "Document"
	CSS       string // stylesheet inlined into <head>
	BodyClass string // class attribute on <body>
}

// htmlConverter turns Markdown plus a shell into a full HTML document.
type htmlConverter interface {
	ToHTML(ctx context.Context, content string, shell documentShell) (string, error)
}

// goldmarkConverter is the in-process htmlConverter built on goldmark.
type goldmarkConverter struct {
	md goldmark.Markdown
}

var _ htmlConverter = (*goldmarkConverter)(nil)

// newGoldmarkConverter creates a goldmarkConverter with the full
// extension chain from pluginChain.
func newGoldmarkConverter() *goldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(pluginChain()...),
		goldmark.WithParserOptions(parserOptions()...),
		goldmark.WithRendererOptions(rendererOptions()...),
	)
	return &goldmarkConverter{md: md}
}

// ToHTML renders content and wraps it in the document shell. Goldmark
// itself has no context hook, so conversion runs in a goroutine and the
// select below honors cancellation.
func (c *goldmarkConverter) ToHTML(ctx context.Context, content string, shell documentShell) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: renderShell(shell, buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// renderShell assembles the final document around the converted body.
func renderShell(shell documentShell, body string) string {
	title := shell.Title
	if title == "" {
		title = "Document"
	}
	return fmt.Sprintf(htmlShellTemplate,
		html.EscapeString(title),
		sanitizeCSS(shell.CSS),
		html.EscapeString(shell.BodyClass),
		body,
	)
}

// sanitizeCSS keeps stylesheet text from closing the inline <style>
// block early. Escaping every </ covers </style> and any other closing
// tag a hostile stylesheet could smuggle in.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
