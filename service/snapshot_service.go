package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

const (
	snapshotTimeout = 30 * time.Second
	snapshotWidth   = 1200
	snapshotHeight  = 800
)

// SnapshotService screenshots a session's mount page with headless Chrome
type SnapshotService struct {
	baseURL string // Base URL the browser loads the page from (e.g., "http://localhost:8080")
	timeout time.Duration
}

// NewSnapshotService creates a new SnapshotService
func NewSnapshotService(baseURL string) *SnapshotService {
	return &SnapshotService{
		baseURL: baseURL,
		timeout: snapshotTimeout,
	}
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks CHROME_PATH env var first, then common installation paths
func detectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
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

// PageURL returns the address of a session's mount page
func (s *SnapshotService) PageURL(sessionID string) string {
	return fmt.Sprintf("%s/customizer/sessions/%s/page", s.baseURL, sessionID)
}

// Capture loads the mount page of sessionID and returns a PNG screenshot of the viewport
func (s *SnapshotService) Capture(ctx context.Context, sessionID string) ([]byte, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctxTimeout, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	renderURL := s.PageURL(sessionID)
	log.Printf("📸 Capturing snapshot of %s", renderURL)

	var buf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(snapshotWidth, snapshotHeight),
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		chromedp.WaitVisible("#preview", chromedp.ByID),
		// Wait for the preview image to finish loading
		chromedp.Evaluate(`
			new Promise((resolve) => {
				const img = document.getElementById('preview');
				if (img.complete && img.naturalWidth > 0) {
					resolve(true);
					return;
				}
				const timeout = setTimeout(() => resolve(false), 5000);
				img.onload = () => { clearTimeout(timeout); resolve(true); };
				img.onerror = () => { clearTimeout(timeout); resolve(false); };
			});
		`, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture snapshot: %w", err)
	}

	log.Printf("✓ Snapshot captured (%d bytes)", len(buf))
	return buf, nil
}
