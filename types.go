package mdpress

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// PageSize identifies a supported paper format.
type PageSize string

// Supported page sizes.
const (
	PageSizeA4     PageSize = "a4"
	PageSizeLetter PageSize = "letter"
	PageSizeLegal  PageSize = "legal"
)

// Page margins, expressed in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 1.0
)

// DefaultPageSize is used when no page size is specified.
const DefaultPageSize = PageSizeA4

// DefaultBaseURL is the advertised origin for download links.
const DefaultBaseURL = "http://localhost:8000"

// defaultBodyClass is applied to the rendered document body so the
// stylesheet can scope its rules.
const defaultBodyClass = "markdown-body"

// defaultTimeout bounds a conversion when WithTimeout is not used.
const defaultTimeout = 30 * time.Second

// Artifact extensions written to the output directory.
const (
	markdownExt = ".md"
	pdfExt      = ".pdf"
)

// maxFileNameLength bounds artifact names to keep paths portable.
const maxFileNameLength = 128

// fileNamePattern accepts names that are safe as both file names and URL
// path segments. The first character must be alphanumeric, which also
// rejects hidden files and dot traversal.
var fileNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Input is a single conversion request.
type Input struct {
	FileName string // Artifact name without extension (required)
	Markdown string // Markdown content (required)
}

// Result describes the generated artifact.
type Result struct {
	FileName    string `json:"file_name"`
	DownloadURL string `json:"download_url"`
}

// DefaultOutputDir returns the directory artifacts are written to when
// none is configured.
func DefaultOutputDir() string {
	return filepath.Join(os.TempDir(), "mdpress")
}

// validateFileName checks that name is usable as an artifact name.
// Names containing path separators, null bytes, or a leading dot are
// rejected so a caller can never escape the output directory.
func validateFileName(name string) error {
	if name == "" {
		return ErrEmptyFileName
	}
	if len(name) > maxFileNameLength {
		return fmt.Errorf("%w: %d chars (max %d)", ErrFileNameTooLong, len(name), maxFileNameLength)
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrUnsafeFileName, name)
	}
	if !fileNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrUnsafeFileName, name)
	}
	return nil
}

// isValidPageSize reports whether size names a supported page size,
// ignoring case.
func isValidPageSize(size PageSize) bool {
	switch PageSize(strings.ToLower(string(size))) {
	case PageSizeA4, PageSizeLetter, PageSizeLegal:
		return true
	}
	return false
}

// paperDimensions returns width and height in inches for a page size.
func paperDimensions(size PageSize) (width, height float64) {
	switch PageSize(strings.ToLower(string(size))) {
	case PageSizeLetter:
		return 8.5, 11
	case PageSizeLegal:
		return 8.5, 14
	default:
		return 8.27, 11.69 // a4
	}
}

// Option customizes a Service at construction time.
type Option func(*Service)

// serviceConfig collects the knobs a Service runs with.
type serviceConfig struct {
	timeout        time.Duration
	outputDir      string
	baseURL        string
	stylesheetPath string
	bodyClass      string
	pageSize       PageSize
	margin         float64
}

// WithTimeout bounds each conversion. Panics when d <= 0, the same
// contract as time.NewTicker.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdpress: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithOutputDir sets the directory staging and PDF artifacts are written to.
func WithOutputDir(dir string) Option {
	return func(s *Service) {
		s.cfg.outputDir = dir
	}
}

// WithBaseURL sets the origin used to build download links.
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.cfg.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithStylesheet points the document stylesheet at a file on disk.
// The file is re-read on every conversion; an empty path keeps the
// embedded default.
func WithStylesheet(path string) Option {
	return func(s *Service) {
		s.cfg.stylesheetPath = path
	}
}

// WithBodyClass sets the CSS classes applied to the document body.
func WithBodyClass(classes ...string) Option {
	return func(s *Service) {
		s.cfg.bodyClass = strings.Join(classes, " ")
	}
}

// WithPageSize sets the paper format.
// Panics on unknown sizes (programmer error, same register as WithTimeout).
func WithPageSize(size PageSize) Option {
	if !isValidPageSize(size) {
		panic(fmt.Sprintf("mdpress: WithPageSize unknown size %q", size))
	}
	return func(s *Service) {
		s.cfg.pageSize = PageSize(strings.ToLower(string(size)))
	}
}

// WithMargin sets the page margin in inches, applied to all sides.
// Panics when the margin is out of bounds.
func WithMargin(inches float64) Option {
	if inches < MinMargin || inches > MaxMargin {
		panic(fmt.Sprintf("mdpress: WithMargin %.2f out of bounds [%.2f, %.2f]", inches, MinMargin, MaxMargin))
	}
	return func(s *Service) {
		s.cfg.margin = inches
	}
}
