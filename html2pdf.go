package mdpress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdpress/internal/fileutil"
)

// pdfConverter turns an HTML document into PDF bytes.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// pdfRenderer is the browser-facing half of the converter, split out so
// tests can swap in a fake and skip Chrome entirely.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error)
}

// Conformance checks
var (
	_ pdfConverter = (*rodConverter)(nil)
	_ pdfRenderer  = (*rodRenderer)(nil)
)

// pdfOptions holds page geometry for PDF generation, in inches.
type pdfOptions struct {
	PaperWidth  float64
	PaperHeight float64
	Margin      float64
}

// defaultPDFOptions returns the deployment default geometry.
func defaultPDFOptions() *pdfOptions {
	w, h := paperDimensions(DefaultPageSize)
	return &pdfOptions{PaperWidth: w, PaperHeight: h, Margin: DefaultMargin}
}

// typesetSettledJS resolves once web fonts are loaded and MathJax has
// finished its initial typesetting pass. Rod awaits the returned promise.
const typesetSettledJS = `() => {
	const jobs = [document.fonts.ready];
	if (window.MathJax && MathJax.startup && MathJax.startup.promise) {
		jobs.push(MathJax.startup.promise);
	}
	return Promise.all(jobs).then(() => true);
}`

// diagramsSettledJS reports whether every diagram container has been
// hydrated. Mermaid marks each element it renders with data-processed.
const diagramsSettledJS = `() => {
	const nodes = document.querySelectorAll('.mermaid');
	for (const el of nodes) {
		if (!el.hasAttribute('data-processed')) {
			return false;
		}
	}
	return true;
}`

// rodRenderer drives headless Chrome through go-rod. When no browser is
// found locally, rod downloads a Chromium build on first launch. One
// renderer serves every request, so the browser handle is guarded.
type rodRenderer struct {
	mu      sync.Mutex
	browser *rod.Browser
	connect func() (*rod.Browser, error)
	timeout time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{connect: launchBrowser, timeout: timeout}
}

// launchBrowser starts a Chrome process and connects a client to it.
func launchBrowser() (*rod.Browser, error) {
	l := launcher.New()

	// Containerized deployments ship their own Chrome
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// Chrome refuses to sandbox as root, which is how CI containers run
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, err
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, err
	}
	return b, nil
}

// ensureBrowser returns the shared browser, launching and connecting on
// first use. Concurrent renders serialize here, so exactly one Chrome
// comes up and the handle is stored only after Connect has succeeded.
func (r *rodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	b, err := r.connect()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.browser = b
	return b, nil
}

// Close kills the browser. A later render relaunches it.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	return err
}

// RenderFromFile opens a local HTML file in headless Chrome, waits for
// client-side typesetting to settle, and renders the page to PDF. All
// browser failures surface as errors rather than rod's default panics.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	// One budget covers load, settling, and print capture. The caller's
	// deadline wins when it has one; otherwise the configured timeout
	// starts here. The deferred Close keeps the page's own context so
	// the tab still goes away after the budget expires.
	bctx, cancel := renderBudget(ctx, r.timeout)
	defer cancel()
	bound := page.Context(bctx)

	if err := bound.WaitLoad(); err != nil {
		return nil, wrapTimeout(ErrPageLoad, err)
	}

	if err := waitSettled(bound); err != nil {
		return nil, err
	}

	reader, err := bound.PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, wrapTimeout(ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, wrapTimeout(ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// renderBudget bounds a render. A caller deadline is used as is; without
// one the fallback opens a fresh window.
func renderBudget(ctx context.Context, fallback time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, fallback)
}

// waitSettled blocks until fonts, math typesetting, and diagram
// hydration are done, so the print capture sees the final layout.
func waitSettled(page *rod.Page) error {
	if _, err := page.Eval(typesetSettledJS); err != nil {
		return wrapTimeout(ErrPageLoad, err)
	}
	if err := page.Wait(rod.Eval(diagramsSettledJS)); err != nil {
		return wrapTimeout(ErrPageLoad, err)
	}
	return nil
}

// wrapTimeout maps context expiry onto ErrRenderTimeout; other failures
// keep their stage sentinel.
func wrapTimeout(sentinel, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrRenderTimeout, err)
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

// buildPDFOptions constructs proto.PagePrintToPDF from page geometry.
func buildPDFOptions(opts *pdfOptions) *proto.PagePrintToPDF {
	if opts == nil {
		opts = defaultPDFOptions()
	}

	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(opts.PaperWidth),
		PaperHeight:     floatPtr(opts.PaperHeight),
		MarginTop:       floatPtr(opts.Margin),
		MarginBottom:    floatPtr(opts.Margin),
		MarginLeft:      floatPtr(opts.Margin),
		MarginRight:     floatPtr(opts.Margin),
		PrintBackground: true,
	}
}

// floatPtr fills proto's optional float fields.
func floatPtr(v float64) *float64 {
	return &v
}

// rodConverter stages HTML to disk and hands the file to a renderer.
type rodConverter struct {
	renderer pdfRenderer
	closer   interface{ Close() error }
}

// newRodConverter wires a rodConverter to a real browser renderer.
func newRodConverter(timeout time.Duration) *rodConverter {
	r := newRodRenderer(timeout)
	return &rodConverter{renderer: r, closer: r}
}

// ToPDF writes htmlContent to a temp file and renders it over file://,
// which keeps relative URLs and the browser's same-origin rules happy.
func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, tmpPath, opts)
}

// Close forwards to the owning renderer.
func (c *rodConverter) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
