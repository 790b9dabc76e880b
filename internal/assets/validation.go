package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName rejects names that could reach outside the embedded
// styles tree. Dots are refused outright, so neither traversal nor an
// extension swap can slip through.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case strings.ContainsAny(name, `/\.`):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
