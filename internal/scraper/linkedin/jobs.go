package linkedin

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"go-job-scraper/internal/browser"
	"go-job-scraper/internal/models"
	"go-job-scraper/internal/scraper"
)

const (
	baseURL = "https://www.linkedin.com"

	jobsReadySelector = ".jobs-search__results-list"
	jobsCardSelector  = "div.base-card, div.job-card-container--clickable"
	jobsScrolls       = 3
)

// JobsScraper reads the public (logged out) LinkedIn job search.
type JobsScraper struct{}

func NewJobsScraper() *JobsScraper {
	return &JobsScraper{}
}

func (s *JobsScraper) Name() string {
	return "LinkedIn Jobs"
}

func (s *JobsScraper) Source() models.Source {
	return models.SourceLinkedInJobs
}

// JobsSearchURL limits results to the past 24 hours (f_TPR=r86400).
func JobsSearchURL(q models.Query) string {
	return fmt.Sprintf("%s/jobs/search/?keywords=%s&location=%s&f_TPR=r86400",
		baseURL, url.QueryEscape(q.Designation), url.QueryEscape(q.City))
}

func (s *JobsScraper) Extract(ctx context.Context, sess browser.Session, q models.Query) ([]models.Record, error) {
	q = q.Normalize()
	logger := log.With().Str("source", s.Name()).Logger()

	searchURL := JobsSearchURL(q)
	logger.Info().Str("url", searchURL).Msg("💼 Searching LinkedIn Jobs...")

	doc, err := scraper.LoadDocument(ctx, sess, scraper.Page{
		URL:           searchURL,
		ReadySelector: jobsReadySelector,
		Scrolls:       jobsScrolls,
		BlockedShot:   "linkedin-jobs-blocked",
	})
	if err != nil {
		logger.Warn().Err(err).Msg("⚠️ Job results list not found")
		return nil, nil
	}

	records := ParseJobs(doc)
	logger.Info().Int("count", len(records)).Msg("✅ Finished LinkedIn Jobs")
	return records, nil
}

// ParseJobs reads every job card of a rendered search page.
func ParseJobs(doc *goquery.Document) []models.Record {
	var records []models.Record
	doc.Find(jobsCardSelector).Each(func(_ int, card *goquery.Selection) {
		title := scraper.FirstText(card, "h3.base-search-card__title")
		if title == "" {
			return
		}
		records = append(records, models.Record{
			Source:   models.SourceLinkedInJobs,
			Title:    title,
			Company:  scraper.FirstText(card, "h4.base-search-card__subtitle", "a.hidden-nested-link"),
			Location: scraper.FirstText(card, "span.job-search-card__location"),
			URL:      scraper.AbsoluteURL(baseURL, scraper.FirstAttr(card, "href", "a.base-card__full-link")),
			Snippet:  scraper.Snippet(card.Text()),
		})
	})
	return records
}
