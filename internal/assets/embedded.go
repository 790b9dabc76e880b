package assets

import (
	"embed"
	"fmt"
)

//go:embed styles/*.css
var styleFS embed.FS

// DefaultStyleName is the style applied when no override is configured.
const DefaultStyleName = "document"

// LoadStyle returns the embedded stylesheet named name, without its
// .css extension. Unknown names yield ErrStyleNotFound and unsafe ones
// ErrInvalidAssetName.
func LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	b, err := styleFS.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(b), nil
}
