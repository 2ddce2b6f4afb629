package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"brickvault/listsync"
	"brickvault/models"
	"brickvault/repository"
)

// ExportSheet is the data of the printable collection sheet
type ExportSheet struct {
	Owner       string
	GeneratedAt time.Time
	Stats       models.CollectionStats
	Groups      []listsync.Group
}

// ExportService renders the signed-in user's collection as a printable
// sheet and converts it to PDF with headless Chrome
type ExportService struct {
	collection repository.CollectionRepositoryInterface
	renderer   *RenderService
	chromePath string
	timeout    time.Duration
	now        func() time.Time
}

// NewExportService creates a new ExportService
func NewExportService(
	collection repository.CollectionRepositoryInterface,
	renderer *RenderService,
	chromePath string,
	timeout time.Duration,
) *ExportService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ExportService{
		collection: collection,
		renderer:   renderer,
		chromePath: chromePath,
		timeout:    timeout,
		now:        time.Now,
	}
}

// detectChromePath returns the configured browser when it exists, else the
// first common install location found, else "" to let chromedp search PATH
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
		zap.S().Warnf("⚠️ Export: CHROME_PATH %s not found, falling back to defaults", configured)
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Sheet fetches the collection and groups it by theme
func (s *ExportService) Sheet(ctx context.Context, owner string, spec listsync.SortSpec) (*ExportSheet, error) {
	items, err := s.collection.List(ctx)
	if err != nil {
		return nil, err
	}

	list := listsync.New(items, listsync.Options{})
	defer list.Close()

	return &ExportSheet{
		Owner:       owner,
		GeneratedAt: s.now(),
		Stats:       list.Stats(),
		Groups:      listsync.GroupByTheme(items, spec, 0, nil),
	}, nil
}

// HTML renders the collection sheet
func (s *ExportService) HTML(ctx context.Context, owner string, spec listsync.SortSpec) (string, error) {
	sheet, err := s.Sheet(ctx, owner, spec)
	if err != nil {
		return "", err
	}
	return s.renderer.RenderExport(*sheet)
}

// PDF renders the collection sheet and prints it to an A4 PDF
func (s *ExportService) PDF(ctx context.Context, owner string, spec listsync.SortSpec) ([]byte, error) {
	html, err := s.HTML(ctx, owner, spec)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	pdf, err := s.print(ctx, html)
	if err != nil {
		zap.S().Errorf("❌ Export: PDF generation failed for %s: %v", owner, err)
		return nil, err
	}
	zap.S().Infof("✅ Export: %d byte PDF for %s in %s", len(pdf), owner, time.Since(start).Round(time.Millisecond))
	return pdf, nil
}

func (s *ExportService) print(ctx context.Context, html string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("enable-print-preview", true),
	)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 in inches, margins in CSS
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
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
	return pdf, nil
}
