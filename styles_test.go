package mdpress

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStylesheetSource_Load(t *testing.T) {
	t.Run("empty path falls back to embedded default", func(t *testing.T) {
		src := &stylesheetSource{}

		css, err := src.Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if css == "" {
			t.Fatal("expected non-empty embedded stylesheet")
		}
		for _, want := range []string{".markdown-body", ".admonition", ".mermaid"} {
			if !strings.Contains(css, want) {
				t.Errorf("embedded stylesheet missing %q", want)
			}
		}
	})

	t.Run("configured file is read", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.css")
		if err := os.WriteFile(path, []byte("body { color: red; }"), 0o644); err != nil {
			t.Fatal(err)
		}

		src := &stylesheetSource{path: path}
		css, err := src.Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if css != "body { color: red; }" {
			t.Errorf("Load() = %q, want file content", css)
		}
	})

	t.Run("file is re-read on every load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "live.css")
		if err := os.WriteFile(path, []byte("body { margin: 0; }"), 0o644); err != nil {
			t.Fatal(err)
		}
		src := &stylesheetSource{path: path}

		if _, err := src.Load(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := os.WriteFile(path, []byte("body { margin: 1em; }"), 0o644); err != nil {
			t.Fatal(err)
		}

		css, err := src.Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if css != "body { margin: 1em; }" {
			t.Errorf("Load() = %q, want updated content", css)
		}
	})

	t.Run("missing file returns ErrStylesheetRead", func(t *testing.T) {
		src := &stylesheetSource{path: filepath.Join(t.TempDir(), "missing.css")}

		_, err := src.Load()
		if !errors.Is(err, ErrStylesheetRead) {
			t.Errorf("expected ErrStylesheetRead, got %v", err)
		}
	})
}
