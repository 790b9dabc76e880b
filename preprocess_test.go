package mdpress

import (
	"context"
	"strings"
	"testing"
)

func TestNormalizeLineEndings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "LF unchanged",
			input:    "line1\nline2\nline3",
			expected: "line1\nline2\nline3",
		},
		{
			name:     "CRLF to LF",
			input:    "line1\r\nline2\r\nline3",
			expected: "line1\nline2\nline3",
		},
		{
			name:     "CR to LF",
			input:    "line1\rline2\rline3",
			expected: "line1\nline2\nline3",
		},
		{
			name:     "mixed line endings",
			input:    "line1\r\nline2\rline3\nline4",
			expected: "line1\nline2\nline3\nline4",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := normalizeLineEndings(tt.input)
			if got != tt.expected {
				t.Errorf("normalizeLineEndings() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRewriteDiagramFences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "plain text unchanged",
			input:    "Hello world",
			expected: "Hello world",
		},
		{
			name:     "single diagram fence",
			input:    "```mermaid\ngraph TD;\nA-->B;\n```",
			expected: "<div class=\"mermaid\">\ngraph TD;\nA-->B;\n</div>",
		},
		{
			name:     "diagram fence body trimmed",
			input:    "```mermaid\n\n  graph TD;\n  A-->B;\n\n```",
			expected: "<div class=\"mermaid\">\ngraph TD;\n  A-->B;\n</div>",
		},
		{
			name:     "empty diagram fence",
			input:    "```mermaid\n```",
			expected: "<div class=\"mermaid\">\n</div>",
		},
		{
			name:     "multiple diagram fences",
			input:    "```mermaid\nA-->B;\n```\n\ntext\n\n```mermaid\nC-->D;\n```",
			expected: "<div class=\"mermaid\">\nA-->B;\n</div>\n\ntext\n\n<div class=\"mermaid\">\nC-->D;\n</div>",
		},
		{
			name:     "surrounding prose preserved",
			input:    "# Title\n\n```mermaid\nA-->B;\n```\n\nAfter.",
			expected: "# Title\n\n<div class=\"mermaid\">\nA-->B;\n</div>\n\nAfter.",
		},
		{
			name:     "non-diagram fence untouched",
			input:    "```go\nfmt.Println(\"hi\")\n```",
			expected: "```go\nfmt.Println(\"hi\")\n```",
		},
		{
			name:     "fence with no info string untouched",
			input:    "```\nplain\n```",
			expected: "```\nplain\n```",
		},
		{
			name:     "unterminated diagram fence kept verbatim",
			input:    "before\n```mermaid\nA-->B;",
			expected: "before\n```mermaid\nA-->B;",
		},
		{
			name:     "diagram fence inside outer fence untouched",
			input:    "````markdown\n```mermaid\nA-->B;\n```\n````",
			expected: "````markdown\n```mermaid\nA-->B;\n```\n````",
		},
		{
			name:     "diagram fence inside tilde fence untouched",
			input:    "~~~\n```mermaid\nA-->B;\n```\n~~~",
			expected: "~~~\n```mermaid\nA-->B;\n```\n~~~",
		},
		{
			name:     "tilde diagram fence left to code rendering",
			input:    "~~~mermaid\nA-->B;\n~~~",
			expected: "~~~mermaid\nA-->B;\n~~~",
		},
		{
			name:     "longer closing fence accepted",
			input:    "```mermaid\nA-->B;\n`````",
			expected: "<div class=\"mermaid\">\nA-->B;\n</div>",
		},
		{
			name:     "diagram fence after unclosed regular fence untouched",
			input:    "```go\ncode\n\n```mermaid\nA-->B;\n```",
			expected: "```go\ncode\n\n```mermaid\nA-->B;\n```",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := rewriteDiagramFences(tt.input)
			if got != tt.expected {
				t.Errorf("rewriteDiagramFences():\ngot:  %q\nwant: %q", got, tt.expected)
			}
		})
	}
}

func TestParseFenceOpen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		wantMarker string
		wantInfo   string
		wantOK     bool
	}{
		{
			name:       "backtick fence with language",
			input:      "```mermaid",
			wantMarker: "```",
			wantInfo:   "mermaid",
			wantOK:     true,
		},
		{
			name:       "info string trimmed",
			input:      "```  mermaid  ",
			wantMarker: "```",
			wantInfo:   "mermaid",
			wantOK:     true,
		},
		{
			name:       "longer marker",
			input:      "````markdown",
			wantMarker: "````",
			wantInfo:   "markdown",
			wantOK:     true,
		},
		{
			name:       "tilde fence",
			input:      "~~~python",
			wantMarker: "~~~",
			wantInfo:   "python",
			wantOK:     true,
		},
		{
			name:   "two backticks is not a fence",
			input:  "``not a fence``",
			wantOK: false,
		},
		{
			name:   "four leading spaces is indented code",
			input:  "    ```mermaid",
			wantOK: false,
		},
		{
			name:       "three leading spaces allowed",
			input:      "   ```mermaid",
			wantMarker: "```",
			wantInfo:   "mermaid",
			wantOK:     true,
		},
		{
			name:   "backtick in info string rejected",
			input:  "``` foo`bar",
			wantOK: false,
		},
		{
			name:   "plain text",
			input:  "hello",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			marker, info, ok := parseFenceOpen(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("parseFenceOpen(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if marker != tt.wantMarker || info != tt.wantInfo {
				t.Errorf("parseFenceOpen(%q) = (%q, %q), want (%q, %q)",
					tt.input, marker, info, tt.wantMarker, tt.wantInfo)
			}
		})
	}
}

func TestDiagramFencePreprocessor_PreprocessMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no diagram fences is identity",
			input:    "# Title\n\nSome *text* with a [link](https://example.com).\n",
			expected: "# Title\n\nSome *text* with a [link](https://example.com).\n",
		},
		{
			name:     "CRLF normalized then rewritten",
			input:    "```mermaid\r\nA-->B;\r\n```\r\n",
			expected: "<div class=\"mermaid\">\nA-->B;\n</div>\n",
		},
		{
			name:     "full document",
			input:    "# Doc\n\n```mermaid\ngraph LR;\nX-->Y;\n```\n\nTail text.",
			expected: "# Doc\n\n<div class=\"mermaid\">\ngraph LR;\nX-->Y;\n</div>\n\nTail text.",
		},
	}

	preprocessor := &diagramFencePreprocessor{}
	ctx := context.Background()

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := preprocessor.PreprocessMarkdown(ctx, tt.input)
			if got != tt.expected {
				t.Errorf("PreprocessMarkdown():\ngot:  %q\nwant: %q", got, tt.expected)
			}
		})
	}
}

func TestDiagramFencePreprocessor_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	preprocessor := &diagramFencePreprocessor{}
	input := "```mermaid\r\nA-->B;\r\n```"

	// A cancelled context returns the input untouched; the service layer
	// surfaces the context error.
	if got := preprocessor.PreprocessMarkdown(ctx, input); got != input {
		t.Errorf("PreprocessMarkdown() with cancelled ctx = %q, want input unchanged", got)
	}
}

func TestRewriteDiagramFencesIdentityWithoutDiagrams(t *testing.T) {
	t.Parallel()

	doc := strings.Join([]string{
		"# Heading",
		"",
		"Paragraph with `inline code` and **bold**.",
		"",
		"```python",
		"print('hello')",
		"```",
		"",
		"- list item",
		"- another",
		"",
		"> quote",
		"",
	}, "\n")

	if got := rewriteDiagramFences(doc); got != doc {
		t.Errorf("rewriteDiagramFences() changed a document with no diagram fences:\ngot:  %q\nwant: %q", got, doc)
	}
}
