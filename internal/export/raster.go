package export

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

// CaptureSelector is the element the rasterizer screenshots.
const CaptureSelector = "#capture"

var captureTemplate = pongo2.Must(pongo2.FromString(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
html, body { margin: 0; padding: 0; background: transparent; }
#capture { display: inline-block; width: auto; height: auto; padding: 20px; background-color: {{ background }}; }
#capture table { width: auto !important; max-width: none !important; }
{% if hover_rule %}{{ hover_rule|safe }}
{% endif %}</style>
</head>
<body>
<div id="capture">{{ table|safe }}</div>
</body>
</html>
`))

// Rasterizer renders table markup to a PNG image.
type Rasterizer interface {
	Rasterize(ctx context.Context, markup, hoverRule string, settings models.ExportSettings) ([]byte, error)
	Close() error
}

// CaptureDocument builds the off-screen page the table is photographed in.
// The container is auto-sized with 20px padding; the table is released
// from any width constraint so the full content is captured.
func CaptureDocument(markup, hoverRule string, settings models.ExportSettings) (string, error) {
	table, err := SanitizeTable(markup)
	if err != nil {
		return "", err
	}
	background := BackgroundColor(settings)
	if background == "" {
		background = "transparent"
	} else if !safeCSSValue(background) {
		background = white
	}
	out, err := captureTemplate.Execute(pongo2.Context{
		"background": background,
		"table":      table,
		"hover_rule": safeHoverRule(hoverRule),
	})
	if err != nil {
		return "", fmt.Errorf("render capture page: %w", err)
	}
	return out, nil
}

// PlaywrightOptions configure the headless browser.
type PlaywrightOptions struct {
	// Install downloads the driver and Chromium on first use.
	Install bool
	Timeout time.Duration
}

// PlaywrightRasterizer screenshots tables in headless Chromium. The browser
// starts lazily on the first request and is shared; every request gets its
// own browser context so scale factors do not leak between requests.
type PlaywrightRasterizer struct {
	opts   PlaywrightOptions
	logger *zap.Logger

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewPlaywrightRasterizer creates a rasterizer without starting the browser.
func NewPlaywrightRasterizer(opts PlaywrightOptions, logger *zap.Logger) *PlaywrightRasterizer {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlaywrightRasterizer{opts: opts, logger: logger}
}

func (r *PlaywrightRasterizer) start() (playwright.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil && r.browser.IsConnected() {
		return r.browser, nil
	}
	if r.pw == nil {
		if r.opts.Install {
			if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
				return nil, fmt.Errorf("install playwright: %w", err)
			}
		}
		pw, err := playwright.Run()
		if err != nil {
			return nil, fmt.Errorf("start playwright: %w", err)
		}
		r.pw = pw
	}
	browser, err := r.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	r.logger.Info("headless browser started", zap.String("version", browser.Version()))
	r.browser = browser
	return browser, nil
}

// Rasterize renders markup at the scale selected by settings. hoverRule
// may be empty.
func (r *PlaywrightRasterizer) Rasterize(ctx context.Context, markup, hoverRule string, settings models.ExportSettings) ([]byte, error) {
	return r.capture(ctx, markup, hoverRule, Scale(settings), settings)
}

// ClipboardImage renders markup on white at the clipboard scale.
func (r *PlaywrightRasterizer) ClipboardImage(ctx context.Context, markup string, expanded bool) ([]byte, error) {
	settings := models.ExportSettings{Quality: models.QualityHigh, Background: models.BackgroundWhite, Expanded: expanded}
	return r.capture(ctx, markup, "", ClipboardScale(expanded), settings)
}

func (r *PlaywrightRasterizer) capture(ctx context.Context, markup, hoverRule string, scale float64, settings models.ExportSettings) ([]byte, error) {
	doc, err := CaptureDocument(markup, hoverRule, settings)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := r.start()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterize, err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		DeviceScaleFactor: playwright.Float(scale),
		Viewport:          &playwright.Size{Width: 1280, Height: 720},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: new context: %v", ErrRasterize, err)
	}
	defer func() {
		if cerr := bctx.Close(); cerr != nil {
			r.logger.Warn("closing browser context", zap.Error(cerr))
		}
	}()

	page, err := bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("%w: new page: %v", ErrRasterize, err)
	}
	timeout := playwright.Float(float64(r.timeout(ctx).Milliseconds()))
	if err := page.SetContent(doc, playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   timeout,
	}); err != nil {
		return nil, fmt.Errorf("%w: set content: %v", ErrRasterize, err)
	}

	png, err := page.Locator(CaptureSelector).Screenshot(playwright.LocatorScreenshotOptions{
		Type:           playwright.ScreenshotTypePng,
		OmitBackground: playwright.Bool(settings.Background == models.BackgroundTransparent),
		Timeout:        timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: screenshot: %v", ErrRasterize, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return png, nil
}

// timeout shortens the configured timeout to the context deadline.
func (r *PlaywrightRasterizer) timeout(ctx context.Context) time.Duration {
	d := r.opts.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < d {
			d = left
		}
	}
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return d
}

// Close stops the browser and the driver.
func (r *PlaywrightRasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = multierr.Append(err, r.browser.Close())
		r.browser = nil
	}
	if r.pw != nil {
		err = multierr.Append(err, r.pw.Stop())
		r.pw = nil
	}
	return err
}
