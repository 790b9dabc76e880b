// Package fileutil holds small filesystem helpers shared across the
// pipeline: temp staging for the renderer and simple existence checks.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInvalidExtension flags an extension that cannot appear in a temp
// file pattern.
var ErrInvalidExtension = errors.New("invalid file extension")

// ValidateExtension checks that ext is usable as a temp file suffix:
// non-empty and free of path separators and NUL bytes.
func ValidateExtension(ext string) error {
	switch {
	case ext == "":
		return fmt.Errorf("%w: empty", ErrInvalidExtension)
	case strings.ContainsAny(ext, "/\\\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
	}
	return nil
}

// WriteTempFile stages content in a fresh file named mdpress-<rand>.<ext>
// under the system temp dir. It returns the path together with a cleanup
// func that removes the file. The file is closed before returning so the
// path can be handed to another process.
func WriteTempFile(content, extension string) (string, func(), error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp("", "mdpress-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating staging file: %w", err)
	}
	path := f.Name()
	remove := func() { _ = os.Remove(path) }

	_, err = f.WriteString(content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		remove()
		return "", nil, fmt.Errorf("staging %s: %w", path, err)
	}
	return path, remove, nil
}

// FileExists reports whether path names a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
