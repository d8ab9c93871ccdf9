package invoice

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"pharmacare/m/domain"
)

// detectChromePath finds a Chrome/Chromium executable on well-known paths.
func detectChromePath() string {
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

// ExportPDF renders the bill and prints it to a PDF at the given path using
// headless Chrome. On error no usable output exists at the path.
func (r *Renderer) ExportPDF(ctx context.Context, details domain.BillDetails, path string) error {
	html, err := r.RenderHTML(details)
	if err != nil {
		return fmt.Errorf("render invoice: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	chromePath := r.chromePath
	if chromePath == "" {
		chromePath = detectChromePath()
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	var pdf []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var printErr error
			pdf, _, printErr = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				Do(ctx)
			return printErr
		}),
	)
	if err != nil {
		return fmt.Errorf("print invoice pdf: %w", err)
	}

	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return fmt.Errorf("write invoice pdf: %w", err)
	}
	r.log.Info("invoice exported", zap.String("bill_id", details.Bill.BillID), zap.String("path", path))
	return nil
}
