package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"codypdf/internal/fsutil"
)

// Renderer turns an HTML file into a PDF file. The production implementation
// drives a headless browser; tests substitute a stub so the pipeline can run
// without one installed.
type Renderer interface {
	// Available reports whether the rendering dependency is usable,
	// returning a DependencyError when it is not.
	Available() error

	// RenderFile renders the HTML document at src into a PDF at dest.
	RenderFile(ctx context.Context, src, dest string) error
}

// HTMLConverter converts markup documents (html, htm, mht) via a Renderer.
type HTMLConverter struct {
	renderer Renderer
}

// NewHTMLConverter returns an HTML converter backed by the given renderer.
func NewHTMLConverter(r Renderer) *HTMLConverter {
	return &HTMLConverter{renderer: r}
}

// Convert renders the source document to destDir/<stem>.pdf.
func (c *HTMLConverter) Convert(src, destDir string) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return c.convertAs(src, destDir, stem)
}

// convertAs renders src to destDir/<stem>.pdf for an explicit stem, so
// delegating converters (Markdown) can keep their own source's name.
func (c *HTMLConverter) convertAs(src, destDir, stem string) (string, error) {
	if err := c.renderer.Available(); err != nil {
		return "", err
	}

	dest := fsutil.UniquePath(filepath.Join(destDir, stem+".pdf"))
	if err := c.renderer.RenderFile(context.Background(), src, dest); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("html rendering failed: %w", err)
	}
	return dest, nil
}

// browserCandidates are the executable names probed for a usable browser.
var browserCandidates = []string{
	"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome",
}

// renderTimeout bounds a single browser rendering pass.
const renderTimeout = 30 * time.Second

// ChromeRenderer renders HTML with a headless Chrome/Chromium instance via
// the DevTools protocol.
type ChromeRenderer struct {
	exec executor
}

// NewChromeRenderer returns the production headless-browser renderer.
func NewChromeRenderer() *ChromeRenderer {
	return &ChromeRenderer{exec: defaultExec}
}

// Available probes for a browser binary on PATH.
func (r *ChromeRenderer) Available() error {
	var lastErr error
	for _, bin := range browserCandidates {
		if _, err := r.exec.LookPath(bin); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	return &DependencyError{Name: "chrome", Err: lastErr}
}

// RenderFile navigates the browser to the source file and prints it to PDF.
func (r *ChromeRenderer) RenderFile(ctx context.Context, src, dest string) error {
	abs, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("failed to resolve source path: %w", err)
	}
	fileURL := "file://" + abs

	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	var pdfBuffer []byte
	err = chromedp.Run(taskCtx,
		chromedp.Navigate(fileURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			resp, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = resp
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}

	if err := os.WriteFile(dest, pdfBuffer, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF file: %w", err)
	}
	return nil
}
