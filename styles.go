package mdpress

import (
	"fmt"
	"os"

	"github.com/alnah/go-mdpress/internal/assets"
)

// stylesheetLoader resolves the CSS injected into the HTML shell.
type stylesheetLoader interface {
	Load() (string, error)
}

// Compile-time interface check
var _ stylesheetLoader = (*stylesheetSource)(nil)

// stylesheetSource reads CSS from a configured file, falling back to the
// embedded default when no path is set. The file is re-read on every
// conversion so stylesheet edits apply without restarting the service.
type stylesheetSource struct {
	path string
}

func (s *stylesheetSource) Load() (string, error) {
	if s.path == "" {
		return assets.LoadStyle(assets.DefaultStyleName)
	}

	content, err := os.ReadFile(s.path) // #nosec G304 -- stylesheet path is operator-provided
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStylesheetRead, err)
	}
	return string(content), nil
}
