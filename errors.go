package mdpress

import "errors"

// Sentinels callers can match with errors.Is.
var (
	// Input validation.
	ErrEmptyFileName   = errors.New("file name cannot be empty")
	ErrEmptyMarkdown   = errors.New("markdown source cannot be empty")
	ErrUnsafeFileName  = errors.New("file name contains unsafe characters")
	ErrFileNameTooLong = errors.New("file name exceeds maximum length")

	// Artifact staging.
	ErrStagingWrite = errors.New("failed to write markdown staging file")
	ErrPDFWrite     = errors.New("failed to write PDF artifact")

	// Stylesheet loading.
	ErrStylesheetRead = errors.New("failed to read stylesheet")

	// Conversion and rendering.
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrRenderTimeout  = errors.New("rendering timed out")

	// Page geometry validation.
	ErrInvalidPageSize = errors.New("invalid page size")
	ErrInvalidMargin   = errors.New("invalid margin")
)
