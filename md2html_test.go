package mdpress

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		want       []string
		wantAbsent []string
	}{
		{
			name:  "basic heading",
			input: "# Hello World",
			want: []string{
				"<!DOCTYPE html>",
				"<h1",
				"Hello World",
				"</h1>",
			},
		},
		{
			name:  "heading levels with auto IDs",
			input: "# Intro\n## Usage\n### Flags",
			want: []string{
				"<h1",
				"<h2",
				"<h3",
				`id="`,
			},
		},
		{
			name:  "soft break keeps lines in one paragraph",
			input: "Line one\nLine two",
			want: []string{
				"<p>",
				"Line one",
				"Line two",
			},
			wantAbsent: []string{
				"<br",
			},
		},
		{
			name:  "GFM table",
			input: "| A | B |\n|---|---|\n| 1 | 2 |",
			want: []string{
				"<table>",
				"<thead>",
				"<tbody>",
				"<th>",
				"<td>",
			},
		},
		{
			name:  "GFM strikethrough",
			input: "~~deleted~~",
			want: []string{
				"<del>",
				"deleted",
				"</del>",
			},
		},
		{
			name:  "GFM autolink",
			input: "See https://go.dev for details",
			want: []string{
				"<a href=\"https://go.dev\"",
				"https://go.dev",
			},
		},
		{
			name:  "inline code",
			input: "Use `fmt.Println` function",
			want: []string{
				"<code>",
				"fmt.Println",
				"</code>",
			},
		},
		{
			name:  "bold and italic",
			input: "**bold** and *italic*",
			want: []string{
				"<strong>",
				"bold",
				"<em>",
				"italic",
			},
		},
		{
			name:  "links",
			input: "[docs](https://go.dev/doc)",
			want: []string{
				"<a href=\"https://go.dev/doc\"",
				"docs",
				"</a>",
			},
		},
		{
			name:  "images",
			input: "![architecture](arch.png)",
			want: []string{
				"<img",
				"src=\"arch.png\"",
				"alt=\"architecture\"",
			},
		},
		{
			name:  "blockquote",
			input: "> A quoted line",
			want: []string{
				"<blockquote>",
				"A quoted line",
			},
		},
		{
			name:  "horizontal rule",
			input: "---",
			want: []string{
				"<hr",
			},
		},
		{
			name:  "empty input",
			input: "",
			want: []string{
				"<!DOCTYPE html>",
				"<html>",
				"<body",
				"</body>",
				"</html>",
			},
		},
		{
			name:  "unicode content",
			input: "# 日本語\n\nBonjour le monde",
			want: []string{
				"日本語",
				"Bonjour le monde",
			},
		},
		{
			// Diagram containers and the client-script preamble are raw
			// HTML, so the renderer must pass it through.
			name:  "raw HTML passes through",
			input: "<div class=\"mermaid\">\nA-->B;\n</div>",
			want: []string{
				"<div class=\"mermaid\">",
				"A-->B;",
			},
			wantAbsent: []string{
				"<!-- raw HTML omitted -->",
			},
		},
		{
			name:  "script preamble passes through",
			input: "<script>window.x = 1;</script>\n\n# Doc",
			want: []string{
				"<script>window.x = 1;</script>",
				"<h1",
			},
		},
		{
			name:  "HTML shell structure",
			input: "# Test",
			want: []string{
				"<!DOCTYPE html>",
				"<html>",
				"<head>",
				"<meta charset=\"utf-8\">",
				"<title>Document</title>",
				"<style>",
				"</head>",
				"<body",
				"</body>",
				"</html>",
			},
		},
	}

	converter := newGoldmarkConverter()
	ctx := context.Background()

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := converter.ToHTML(ctx, tt.input, documentShell{})
			if err != nil {
				t.Fatalf("ToHTML() unexpected error: %v", err)
			}

			for _, want := range tt.want {
				if !strings.Contains(result, want) {
					t.Errorf("ToHTML() result should contain %q\nGot:\n%s", want, result)
				}
			}

			for _, notWant := range tt.wantAbsent {
				if strings.Contains(result, notWant) {
					t.Errorf("ToHTML() result should NOT contain %q\nGot:\n%s", notWant, result)
				}
			}
		})
	}
}

func TestGoldmarkConverter_ToHTML_ContextCancellation(t *testing.T) {
	t.Parallel()

	converter := newGoldmarkConverter()

	t.Run("cancelled context returns error", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := converter.ToHTML(ctx, "# Test", documentShell{})
		if err == nil {
			t.Fatal("expected error for cancelled context")
		}
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("deadline exceeded returns error", func(t *testing.T) {
		t.Parallel()

		// A deadline in the past keeps the test deterministic
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()

		_, err := converter.ToHTML(ctx, "# Test", documentShell{})
		if err == nil {
			t.Fatal("expected error for timed out context")
		}
		if err != context.DeadlineExceeded {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}
	})

	t.Run("valid context succeeds", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := converter.ToHTML(ctx, "# Test", documentShell{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(result, "Test") {
			t.Error("result should contain converted content")
		}
	})
}

func TestNewGoldmarkConverter(t *testing.T) {
	t.Parallel()

	converter := newGoldmarkConverter()

	if converter == nil {
		t.Fatal("newGoldmarkConverter() returned nil")
	}

	if converter.md == nil {
		t.Error("converter.md is nil")
	}
}

func TestRenderShell(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		shell      documentShell
		body       string
		want       []string
		wantAbsent []string
	}{
		{
			name:  "empty title falls back to Document",
			shell: documentShell{},
			body:  "<p>x</p>",
			want: []string{
				"<title>Document</title>",
				"<p>x</p>",
			},
		},
		{
			name:  "title is escaped",
			shell: documentShell{Title: "a < b & c"},
			body:  "",
			want: []string{
				"<title>a &lt; b &amp; c</title>",
			},
		},
		{
			name:  "stylesheet inlined into head",
			shell: documentShell{CSS: "body { color: #333; }"},
			body:  "",
			want: []string{
				"<style>",
				"body { color: #333; }",
				"</style>",
			},
		},
		{
			name:  "style breakout escaped",
			shell: documentShell{CSS: "body {}</style><script>alert(1)</script>"},
			body:  "",
			wantAbsent: []string{
				"</style><script>",
			},
		},
		{
			name:  "body class applied",
			shell: documentShell{BodyClass: "markdown-body"},
			body:  "",
			want: []string{
				`<body class="markdown-body">`,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := renderShell(tt.shell, tt.body)

			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("renderShell() should contain %q\nGot:\n%s", want, got)
				}
			}
			for _, notWant := range tt.wantAbsent {
				if strings.Contains(got, notWant) {
					t.Errorf("renderShell() should NOT contain %q\nGot:\n%s", notWant, got)
				}
			}
		})
	}
}

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain css unchanged",
			input:    "body { margin: 0; }",
			expected: "body { margin: 0; }",
		},
		{
			name:     "closing sequence escaped",
			input:    "</style>",
			expected: `<\/style>`,
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

			if got := sanitizeCSS(tt.input); got != tt.expected {
				t.Errorf("sanitizeCSS() = %q, want %q", got, tt.expected)
			}
		})
	}
}
