package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Page geometry: 210mm x 350mm at 96 DPI
const (
	pageWidthPx   = 794
	pageHeightPx  = 1323
	pageWidthIn   = 8.27
	pageHeightIn  = 13.78
	maxAttemptsPg = 2
)

// waitForAssetsJS resolves once fonts and every <img> are loaded (or gave up)
const waitForAssetsJS = `
(function() {
	return Promise.all([
		document.fonts.ready,
		Promise.all(Array.from(document.querySelectorAll('img')).map(img => {
			return new Promise((resolve) => {
				if (img.complete && img.naturalWidth > 0 && img.naturalHeight > 0) {
					resolve();
					return;
				}
				const timeout = setTimeout(() => resolve(), 5000);
				img.onload = () => { clearTimeout(timeout); resolve(); };
				img.onerror = () => { clearTimeout(timeout); resolve(); };
			});
		}))
	]);
})();
`

// SnapshotService exports rendered card pages to PDF or PNG with headless Chrome
type SnapshotService struct {
	baseURL    string
	chromePath string
	logger     *zap.Logger
}

// NewSnapshotService creates a new SnapshotService
func NewSnapshotService(baseURL, chromePath string, logger *zap.Logger) *SnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotService{
		baseURL:    baseURL,
		chromePath: chromePath,
		logger:     logger,
	}
}

// DetectChromePath returns the configured Chrome path if it exists, else the first common install found
func DetectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// newBrowser starts a headless browser. The returned cancel releases both contexts.
func (s *SnapshotService) newBrowser(ctx context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
		chromedp.Flag("enable-print-preview", true),
	)
	if chromePath := DetectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	return browserCtx, func() {
		browserCancel()
		allocCancel()
	}
}

// loadPage navigates to renderPath and waits for assets and layout
func (s *SnapshotService) loadPage(renderPath string) chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.EmulateViewport(pageWidthPx, 5000), // Large height to show all pages
		chromedp.Navigate(s.baseURL + renderPath),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(waitForAssetsJS, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.Evaluate(`
			document.documentElement.style.width = '210mm';
			document.documentElement.style.height = 'auto';
			document.body.style.width = '210mm';
			document.body.style.height = 'auto';
		`, nil),
		chromedp.Sleep(500*time.Millisecond), // Final wait for layout
	}
}

// GeneratePDF prints the page at renderPath to PDF
func (s *SnapshotService) GeneratePDF(ctx context.Context, renderPath string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	browserCtx, closeBrowser := s.newBrowser(ctx)
	defer closeBrowser()

	var pdfBuf []byte
	err := chromedp.Run(browserCtx,
		s.loadPage(renderPath),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// PrintToPDF handles page breaks via CSS
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(pageWidthIn).
				WithPaperHeight(pageHeightIn).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	s.logger.Info("📄 Generated PDF", zap.String("path", renderPath), zap.Int("bytes", len(pdfBuf)))
	return pdfBuf, nil
}

// GeneratePNG screenshots every .page element at renderPath.
// Returns a map of page number (1-based) to PNG data.
func (s *SnapshotService) GeneratePNG(ctx context.Context, renderPath string, expectedPages int) (map[int][]byte, error) {
	// Base + per-page budget, capped to keep requests bounded
	timeout := 30 * time.Second
	if expectedPages > 1 {
		timeout = time.Duration(20+expectedPages*10) * time.Second
		if timeout > 3*time.Minute {
			timeout = 3 * time.Minute
		}
	}
	s.logger.Info("📸 GeneratePNG", zap.String("path", renderPath), zap.Int("expectedPages", expectedPages), zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browserCtx, closeBrowser := s.newBrowser(ctx)
	defer closeBrowser()

	var pageCountVal float64
	err := chromedp.Run(browserCtx,
		s.loadPage(renderPath),
		chromedp.Evaluate(`document.querySelectorAll('.page').length`, &pageCountVal),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}

	pageCount := int(pageCountVal)
	if pageCount == 0 {
		return nil, fmt.Errorf("no pages found in HTML")
	}
	if expectedPages > 0 && pageCount != expectedPages {
		s.logger.Warn("⚠️ Page count mismatch", zap.Int("detected", pageCount), zap.Int("expected", expectedPages))
	}

	pngs := make(map[int][]byte, pageCount)
	var missingPages []int

	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		var buf []byte
		var lastErr error

		for attempt := 1; attempt <= maxAttemptsPg; attempt++ {
			buf = nil
			lastErr = chromedp.Run(browserCtx,
				chromedp.EmulateViewport(pageWidthPx, pageHeightPx),
				chromedp.Evaluate(showOnlyPageJS(pageNum), nil),
				chromedp.Sleep(300*time.Millisecond),
				chromedp.CaptureScreenshot(&buf),
			)
			if lastErr == nil && len(buf) > 0 {
				break
			}
			s.logger.Warn("⚠️ Failed to capture page", zap.Int("page", pageNum), zap.Int("attempt", attempt), zap.Error(lastErr))
		}

		if lastErr != nil || len(buf) == 0 {
			missingPages = append(missingPages, pageNum)
			continue
		}
		pngs[pageNum] = buf
	}

	if len(pngs) == 0 {
		return nil, fmt.Errorf("failed to capture any pages")
	}
	if len(missingPages) > 0 {
		return nil, fmt.Errorf("failed to capture all pages: missing=%v captured=%d/%d", missingPages, len(pngs), pageCount)
	}
	return pngs, nil
}

// showOnlyPageJS hides every .page except pageNum and sizes the document to one page
func showOnlyPageJS(pageNum int) string {
	return fmt.Sprintf(`
(function() {
	const pages = document.querySelectorAll('.page');
	pages.forEach((page, index) => {
		page.style.display = index === %d - 1 ? 'flex' : 'none';
	});
	document.documentElement.style.height = '350mm';
	document.documentElement.style.overflow = 'hidden';
	document.body.style.height = '350mm';
	document.body.style.overflow = 'hidden';
	return pages.length;
})();
`, pageNum)
}
