package scraper

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"go-job-scraper/internal/browser"
)

// Page describes one results page load.
type Page struct {
	URL string

	// ReadySelector must be attached before the page counts as loaded.
	ReadySelector string

	// Scrolls triggers lazy loading before the DOM is captured.
	Scrolls int

	// BlockedShot names the debug screenshot taken when a challenge page shows up.
	BlockedShot string
}

// LoadDocument navigates sess to p.URL, waits, scrolls and parses the
// rendered DOM.
func LoadDocument(ctx context.Context, sess browser.Session, p Page) (*goquery.Document, error) {
	if err := sess.Navigate(ctx, p.URL, p.ReadySelector); err != nil {
		if title, _ := sess.Title(); IsChallengeTitle(title) {
			if p.BlockedShot != "" {
				sess.Screenshot(p.BlockedShot)
			}
			return nil, fmt.Errorf("blocked by challenge page %q: %w", title, err)
		}
		return nil, err
	}

	if p.Scrolls > 0 {
		if err := sess.ScrollToBottom(ctx, p.Scrolls); err != nil {
			log.Debug().Err(err).Str("url", p.URL).Msg("scroll interrupted, parsing what rendered")
		}
	}

	html, err := sess.Content()
	if err != nil {
		return nil, fmt.Errorf("read page content: %w", err)
	}
	return ParseHTML(html)
}
