package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Headless          bool
	UserAgent         string
	CookiesDir        string
	ScreenshotDir     string // empty disables screenshots
	NavigationTimeout time.Duration
	WaitTimeout       time.Duration
	ScrollPause       time.Duration
}

// PlaywrightLauncher starts one Chromium process per session.
type PlaywrightLauncher struct {
	opts Options
}

func NewPlaywright(opts Options) *PlaywrightLauncher {
	return &PlaywrightLauncher{opts: opts}
}

func (l *PlaywrightLauncher) Launch(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(l.opts.Headless),
		Args:     []string{"--disable-gpu", "--no-sandbox", "--disable-dev-shm-usage"},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}

	contextOpts := playwright.BrowserNewContextOptions{}
	if l.opts.UserAgent != "" {
		contextOpts.UserAgent = playwright.String(l.opts.UserAgent)
	}
	bctx, err := b.NewContext(contextOpts)
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	if l.opts.CookiesDir != "" {
		cookies, err := LoadCookieDir(l.opts.CookiesDir)
		if err != nil {
			log.Warn().Err(err).Str("dir", l.opts.CookiesDir).Msg("⚠️ Some cookie files could not be loaded")
		}
		if len(cookies) > 0 {
			if err := bctx.AddCookies(cookies); err != nil {
				log.Warn().Err(err).Msg("⚠️ Could not add cookies, continuing without them")
			} else {
				log.Info().Int("count", len(cookies)).Msg("🍪 Cookies loaded")
			}
		}
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	log.Info().Bool("headless", l.opts.Headless).Msg("✅ Browser session started")
	return &playwrightSession{
		opts:    l.opts,
		pw:      pw,
		browser: b,
		context: bctx,
		page:    page,
	}, nil
}

type playwrightSession struct {
	opts    Options
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	closeOnce sync.Once
	closeErr  error
}

func (s *playwrightSession) Navigate(ctx context.Context, url, readySelector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   timeoutMs(ctx, s.opts.NavigationTimeout),
	}); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}

	if readySelector == "" {
		return nil
	}
	if err := s.page.Locator(readySelector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: timeoutMs(ctx, s.opts.WaitTimeout),
	}); err != nil {
		return fmt.Errorf("wait for %q: %w", readySelector, err)
	}
	return nil
}

func (s *playwrightSession) Title() (string, error) {
	return s.page.Title()
}

func (s *playwrightSession) Content() (string, error) {
	return s.page.Content()
}

func (s *playwrightSession) Exists(selector string) bool {
	count, err := s.page.Locator(selector).Count()
	return err == nil && count > 0
}

func (s *playwrightSession) Click(selector string) error {
	return s.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(2000),
	})
}

func (s *playwrightSession) ScrollToBottom(ctx context.Context, times int) error {
	for i := 0; i < times; i++ {
		if _, err := s.page.Evaluate("window.scrollTo(0, document.body.scrollHeight)"); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.opts.ScrollPause):
		}
	}
	return nil
}

func (s *playwrightSession) Screenshot(name string) {
	if s.opts.ScreenshotDir == "" {
		return
	}
	if err := os.MkdirAll(s.opts.ScreenshotDir, 0o755); err != nil {
		log.Warn().Err(err).Msg("⚠️ Failed to create screenshot directory")
		return
	}

	filename := fmt.Sprintf("%s_%s.png", name, time.Now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(s.opts.ScreenshotDir, filename)
	if _, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		log.Warn().Err(err).Msg("⚠️ Failed to capture screenshot")
		return
	}
	log.Info().Str("path", path).Msg("📸 Screenshot saved")
}

// Close tears down page, context, browser and driver. Safe to call twice.
func (s *playwrightSession) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if err := s.page.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := s.context.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := s.browser.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := s.pw.Stop(); err != nil {
			errs = append(errs, err)
		}
		s.closeErr = errors.Join(errs...)
		log.Info().Msg("🛑 Browser session closed")
	})
	return s.closeErr
}

// timeoutMs caps d by the context deadline and converts it to playwright
// milliseconds.
func timeoutMs(ctx context.Context, d time.Duration) *float64 {
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < d {
			d = left
		}
	}
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return playwright.Float(float64(d.Milliseconds()))
}
