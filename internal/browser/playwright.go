package browser

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// PlaywrightManager owns the shared chromium instance. Each Render opens
// its own page, so callers may render concurrently.
type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	debug   *ScreenshotDebugger

	// how long to wait for the ready selector before giving up and
	// reading whatever rendered, in milliseconds
	renderWaitMs float64
}

func NewPlaywright(headless bool, renderWaitMs float64) (*PlaywrightManager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
			"--window-size=1920,1080",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	return &PlaywrightManager{
		pw:           pw,
		browser:      browser,
		debug:        NewScreenshotDebugger(),
		renderWaitMs: renderWaitMs,
	}, nil
}

func (pm *PlaywrightManager) Close() error {
	if pm.browser != nil {
		if err := pm.browser.Close(); err != nil {
			return err
		}
	}
	if pm.pw != nil {
		return pm.pw.Stop()
	}
	return nil
}

// Render navigates to url in a fresh page, waits for readySelector up to
// the render ceiling, optionally scrolls to the bottom to trigger lazy
// loading, and returns the page content. A ready-wait timeout is not an
// error: whatever rendered is returned.
func (pm *PlaywrightManager) Render(ctx context.Context, url, readySelector string, scroll bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browserCtx, err := pm.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
	})
	if err != nil {
		return "", fmt.Errorf("new browser context: %w", err)
	}
	defer browserCtx.Close()

	page, err := browserCtx.NewPage()
	if err != nil {
		return "", fmt.Errorf("new page: %w", err)
	}

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		pm.debug.CaptureAndLog(page, "goto-failed", fmt.Sprintf("🚨 Navigation failed: %s", url))
		return "", fmt.Errorf("goto %s: %w", url, err)
	}

	if readySelector != "" {
		// proceed with a partial page rather than hanging on slow JS
		_ = page.Locator(readySelector).First().WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateAttached,
			Timeout: playwright.Float(pm.renderWaitMs),
		})
	}

	if scroll {
		ScrollToBottom(page)
	}

	html, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("read page content: %w", err)
	}
	return html, nil
}
