package indeed

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"go-job-scraper/internal/browser"
	"go-job-scraper/internal/models"
	"go-job-scraper/internal/scraper"
)

const (
	defaultBaseURL = "https://www.indeed.com"

	resultsSelector = "h2.jobTitle > a[data-jk], a.jcs-JobTitle"
	popoverSelector = "button.popover-x-button-close, button.icl-CloseButton, [aria-label='close'], [aria-label='Close']"
)

var errChallenge = errors.New("challenge page")

type Scraper struct {
	baseURL     string
	userAgent   string
	httpTimeout time.Duration
}

type Option func(*Scraper)

// WithBaseURL points the scraper at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(s *Scraper) {
		s.baseURL = strings.TrimRight(u, "/")
	}
}

func NewScraper(userAgent string, httpTimeout time.Duration, opts ...Option) *Scraper {
	s := &Scraper{
		baseURL:     defaultBaseURL,
		userAgent:   userAgent,
		httpTimeout: httpTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scraper) Name() string {
	return "Indeed"
}

func (s *Scraper) Source() models.Source {
	return models.SourceIndeed
}

func (s *Scraper) SearchURL(q models.Query) string {
	return fmt.Sprintf("%s/jobs?q=%s&l=%s", s.baseURL, url.QueryEscape(q.Designation), url.QueryEscape(q.City))
}

// Extract tries a plain HTTP fetch first and only drives the browser when
// that fetch fails or lands on a challenge page.
func (s *Scraper) Extract(ctx context.Context, sess browser.Session, q models.Query) ([]models.Record, error) {
	q = q.Normalize()
	logger := log.With().Str("source", s.Name()).Logger()

	searchURL := s.SearchURL(q)
	logger.Info().Str("url", searchURL).Msg("🔍 Searching Indeed...")

	doc, err := s.fetch(ctx, searchURL)
	if err != nil {
		logger.Info().Err(err).Msg("🛡️ Static fetch failed, falling back to browser")
		doc, err = s.browse(ctx, sess, searchURL, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("⚠️ Indeed blocked or unavailable")
			return nil, nil
		}
	}

	records := s.ParseJobs(doc)
	logger.Info().Int("count", len(records)).Msg("✅ Finished Indeed")
	return records, nil
}

// fetch downloads the search page with colly. A challenge page counts as a
// failed fetch.
func (s *Scraper) fetch(ctx context.Context, searchURL string) (*goquery.Document, error) {
	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(s.userAgent),
		colly.IgnoreRobotsTxt(),
	)
	if s.httpTimeout > 0 {
		c.SetRequestTimeout(s.httpTimeout)
	}

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	if err := c.Visit(searchURL); err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, errors.New("empty response body")
	}

	doc, err := scraper.ParseHTML(string(body))
	if err != nil {
		return nil, err
	}
	if title := scraper.CleanText(doc.Find("title").First().Text()); scraper.IsChallengeTitle(title) {
		return nil, fmt.Errorf("%w: %q", errChallenge, title)
	}
	return doc, nil
}

func (s *Scraper) browse(ctx context.Context, sess browser.Session, searchURL string, logger zerolog.Logger) (*goquery.Document, error) {
	if err := sess.Navigate(ctx, searchURL, resultsSelector); err != nil {
		if title, _ := sess.Title(); scraper.IsChallengeTitle(title) {
			sess.Screenshot("indeed-blocked")
			return nil, fmt.Errorf("%w: %q", errChallenge, title)
		}
		return nil, err
	}

	if sess.Exists(popoverSelector) {
		if err := sess.Click(popoverSelector); err != nil {
			logger.Debug().Err(err).Msg("could not close popover")
		} else {
			logger.Debug().Msg("closed a popover")
		}
	}

	if title, _ := sess.Title(); scraper.IsChallengeTitle(title) {
		sess.Screenshot("indeed-blocked")
		return nil, fmt.Errorf("%w after browser load: %q", errChallenge, title)
	}

	html, err := sess.Content()
	if err != nil {
		return nil, err
	}
	return scraper.ParseHTML(html)
}

// ParseJobs reads result cards, trying the current layout first and older
// layouts after.
func (s *Scraper) ParseJobs(doc *goquery.Document) []models.Record {
	cards := doc.Find("div.job_seen_beacon")
	if cards.Length() == 0 {
		cards = doc.Find("td.resultContent")
	}
	if cards.Length() == 0 {
		cards = doc.Find("div[class*='jobsearch-SerpJobCard'], div[class*='tapItem']")
	}

	var records []models.Record
	cards.Each(func(_ int, card *goquery.Selection) {
		title := scraper.FirstText(card, "h2[class*='jobTitle'] a", "h2[class*='jobTitle'] span[aria-hidden='true']", "h2[class*='jobTitle']")
		if title == "" {
			return
		}
		href := scraper.FirstAttr(card, "href", "h2[class*='jobTitle'] a", "h2.jobTitle > a[data-jk]", "a.jcs-JobTitle")
		records = append(records, models.Record{
			Source:   models.SourceIndeed,
			Title:    title,
			Company:  scraper.FirstText(card, "span[data-testid='company-name']", "span.companyName"),
			Location: scraper.FirstText(card, "div[data-testid='text-location']", "div.companyLocation"),
			URL:      scraper.AbsoluteURL(s.baseURL, href),
			Snippet:  scraper.Snippet(card.Text()),
		})
	})
	return records
}
