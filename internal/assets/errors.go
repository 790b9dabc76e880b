package assets

import "errors"

var (
	// ErrStyleNotFound means no embedded stylesheet carries the
	// requested name.
	ErrStyleNotFound = errors.New("style not found")

	// ErrInvalidAssetName rejects names with path separators, dots, or
	// traversal sequences.
	ErrInvalidAssetName = errors.New("invalid asset name")
)
