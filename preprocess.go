package mdpress

import (
	"context"
	"regexp"
	"strings"
)

// diagramLanguage is the fence info string that marks a diagram block.
const diagramLanguage = "mermaid"

// Diagram fences are rewritten to a raw HTML container that the
// client-side renderer picks up after page load.
const (
	diagramOpenTag  = `<div class="mermaid">`
	diagramCloseTag = `</div>`
)

// crlfOrCR normalizes Windows and old Mac line endings.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// markdownPreprocessor rewrites markdown before it reaches the converter.
type markdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// diagramFencePreprocessor rewrites diagram-tagged code fences into raw
// HTML containers before CommonMark conversion. Everything else passes
// through untouched.
type diagramFencePreprocessor struct{}

// PreprocessMarkdown normalizes line endings and rewrites diagram fences.
// A cancelled context returns the input unchanged.
func (p *diagramFencePreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	return rewriteDiagramFences(content)
}

// normalizeLineEndings folds \r\n and bare \r into \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// rewriteDiagramFences replaces each closed ```mermaid fence with a
// <div class="mermaid"> container holding the trimmed fence body.
//
// The scan tracks all fenced blocks so a diagram fence nested inside
// another fence (e.g. a markdown example) is left alone, and an
// unterminated diagram fence degrades to literal text instead of
// swallowing the rest of the document.
func rewriteDiagramFences(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		marker, info, ok := parseFenceOpen(line)
		if !ok {
			out = append(out, line)
			continue
		}

		if info == diagramLanguage && marker[0] == '`' {
			body, closeIdx, closed := collectFenceBody(lines, i+1, marker)
			if !closed {
				// Unterminated: keep the remainder verbatim.
				out = append(out, lines[i:]...)
				break
			}
			out = append(out, diagramOpenTag)
			if body != "" {
				out = append(out, body)
			}
			out = append(out, diagramCloseTag)
			i = closeIdx
			continue
		}

		// Ordinary fenced block: copy verbatim through its close.
		out = append(out, line)
		j := i + 1
		for ; j < len(lines); j++ {
			out = append(out, lines[j])
			if isFenceClose(lines[j], marker) {
				break
			}
		}
		i = j
	}

	return strings.Join(out, "\n")
}

// parseFenceOpen reports whether line opens a fenced code block.
// It returns the fence marker (run of backticks or tildes) and the
// trimmed info string. Up to three leading spaces are allowed, matching
// CommonMark fence rules.
func parseFenceOpen(line string) (marker, info string, ok bool) {
	rest := line
	indent := 0
	for indent < 3 && strings.HasPrefix(rest, " ") {
		rest = rest[1:]
		indent++
	}
	if len(rest) < 3 {
		return "", "", false
	}

	fenceChar := rest[0]
	if fenceChar != '`' && fenceChar != '~' {
		return "", "", false
	}
	length := 0
	for length < len(rest) && rest[length] == fenceChar {
		length++
	}
	if length < 3 {
		return "", "", false
	}

	info = strings.TrimSpace(rest[length:])
	// CommonMark forbids backticks in the info string of a backtick fence.
	if fenceChar == '`' && strings.Contains(info, "`") {
		return "", "", false
	}
	return rest[:length], info, true
}

// isFenceClose reports whether line closes a fence opened by marker:
// at least as many of the same fence character, nothing else after.
func isFenceClose(line, marker string) bool {
	rest := strings.TrimLeft(line, " ")
	if len(line)-len(rest) > 3 {
		return false
	}
	fenceChar := marker[0]
	length := 0
	for length < len(rest) && rest[length] == fenceChar {
		length++
	}
	return length >= len(marker) && strings.TrimSpace(rest[length:]) == ""
}

// collectFenceBody gathers lines until the closing fence. Returns the
// trimmed body, the index of the closing line, and whether a close was
// found before EOF.
func collectFenceBody(lines []string, start int, marker string) (body string, closeIdx int, closed bool) {
	for i := start; i < len(lines); i++ {
		if isFenceClose(lines[i], marker) {
			body = strings.TrimSpace(strings.Join(lines[start:i], "\n"))
			return body, i, true
		}
	}
	return "", 0, false
}
