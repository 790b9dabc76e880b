package mdpress

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Service runs markdown through preprocessing, HTML conversion, and PDF
// rendering, then reports where the result landed.
type Service struct {
	cfg           serviceConfig
	preprocessor  markdownPreprocessor
	injector      scriptInjector
	htmlConverter htmlConverter
	styles        stylesheetLoader
	pdfConverter  pdfConverter
}

// New builds a Service with defaults and applies opts on top
// (WithTimeout, WithOutputDir, and friends).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			timeout:   defaultTimeout,
			outputDir: DefaultOutputDir(),
			baseURL:   DefaultBaseURL,
			bodyClass: defaultBodyClass,
			pageSize:  DefaultPageSize,
			margin:    DefaultMargin,
		},
		preprocessor: &diagramFencePreprocessor{},
		injector:     &scriptInjection{},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.htmlConverter == nil {
		s.htmlConverter = newGoldmarkConverter()
	}
	if s.styles == nil {
		s.styles = &stylesheetSource{path: s.cfg.stylesheetPath}
	}
	// Browser-backed converter unless a fake was injected
	if s.pdfConverter == nil {
		s.pdfConverter = newRodConverter(s.cfg.timeout)
	}

	return s
}

// Convert runs the full pipeline for one document and returns where the
// PDF can be downloaded. Two artifacts are written to the output
// directory: <file_name>.md, the prepared source staged for rendering,
// and <file_name>.pdf, the final document. Neither is cleaned up here;
// the staging file doubles as a rendering audit trail.
//
// The context bounds the whole conversion; the configured timeout is
// applied on top of it.
func (s *Service) Convert(ctx context.Context, input Input) (*Result, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.timeout)
	defer cancel()

	// Rewrite diagram fences into client-rendered containers
	mdContent := s.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Prepend the client script preamble (math config, diagram init)
	mdContent = s.injector.InjectClientScripts(ctx, mdContent)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Stage the prepared source next to the future PDF
	if err := s.stageMarkdown(input.FileName, mdContent); err != nil {
		return nil, err
	}

	css, err := s.styles.Load()
	if err != nil {
		return nil, err
	}

	// Convert to a full HTML document
	shell := documentShell{Title: input.FileName, CSS: css, BodyClass: s.cfg.bodyClass}
	htmlContent, err := s.htmlConverter.ToHTML(ctx, mdContent, shell)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	// Render through headless Chrome
	pdfBytes, err := s.pdfConverter.ToPDF(ctx, htmlContent, s.pdfOptions())
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}

	if err := s.writePDF(input.FileName, pdfBytes); err != nil {
		return nil, err
	}

	return buildResult(input.FileName, s.cfg.baseURL), nil
}

// Close shuts down the headless browser if one was started.
func (s *Service) Close() error {
	if s.pdfConverter != nil {
		return s.pdfConverter.Close()
	}
	return nil
}

// validateInput rejects missing or malformed fields before any work
// starts. File names are rejected rather than sanitized: a name that
// fails validation never touches the filesystem.
func (s *Service) validateInput(input Input) error {
	if err := validateFileName(input.FileName); err != nil {
		return err
	}
	if input.Markdown == "" {
		return ErrEmptyMarkdown
	}
	return nil
}

// stageMarkdown persists the prepared markdown source to the output
// directory so the conversion engine reads exactly what was rendered.
func (s *Service) stageMarkdown(fileName, content string) error {
	if err := os.MkdirAll(s.cfg.outputDir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrStagingWrite, err)
	}

	path := filepath.Join(s.cfg.outputDir, fileName+markdownExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrStagingWrite, err)
	}
	return nil
}

// writePDF persists the rendered document. Called only after the engine
// succeeds, so a failed conversion never leaves a partial PDF behind.
func (s *Service) writePDF(fileName string, pdfBytes []byte) error {
	path := filepath.Join(s.cfg.outputDir, fileName+pdfExt)
	if err := os.WriteFile(path, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrPDFWrite, err)
	}
	return nil
}

// pdfOptions derives the page geometry from the configured layout.
func (s *Service) pdfOptions() *pdfOptions {
	w, h := paperDimensions(s.cfg.pageSize)
	return &pdfOptions{PaperWidth: w, PaperHeight: h, Margin: s.cfg.margin}
}
