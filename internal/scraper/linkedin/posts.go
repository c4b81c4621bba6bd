package linkedin

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"go-job-scraper/internal/ai"
	"go-job-scraper/internal/browser"
	"go-job-scraper/internal/models"
	"go-job-scraper/internal/scraper"
)

const (
	postsReadySelector = ".reusable-search__entity-result-list"
	postsScrolls       = 2
	postsLimit         = 10
)

// PostsScraper searches LinkedIn content for "hiring" posts. The content
// search needs a logged-in session (cookies-linkedin.json).
type PostsScraper struct {
	interp ai.Interpreter
}

// NewPostsScraper takes an optional interpreter; nil keeps posts as-is.
func NewPostsScraper(interp ai.Interpreter) *PostsScraper {
	return &PostsScraper{interp: interp}
}

func (s *PostsScraper) Name() string {
	return "LinkedIn Posts"
}

func (s *PostsScraper) Source() models.Source {
	return models.SourceLinkedInPosts
}

func PostsSearchURL(q models.Query) string {
	keywords := strings.TrimSpace(fmt.Sprintf("hiring %s %s", q.Designation, q.City))
	return fmt.Sprintf("%s/search/results/content/?keywords=%s&origin=GLOBAL_SEARCH_HEADER",
		baseURL, url.QueryEscape(keywords))
}

func (s *PostsScraper) Extract(ctx context.Context, sess browser.Session, q models.Query) ([]models.Record, error) {
	q = q.Normalize()
	logger := log.With().Str("source", s.Name()).Logger()

	searchURL := PostsSearchURL(q)
	logger.Info().Str("url", searchURL).Msg("📰 Searching LinkedIn Posts (may require login)...")

	doc, err := scraper.LoadDocument(ctx, sess, scraper.Page{
		URL:           searchURL,
		ReadySelector: postsReadySelector,
		Scrolls:       postsScrolls,
		BlockedShot:   "linkedin-posts-blocked",
	})
	if err != nil {
		logger.Warn().Err(err).Msg("⚠️ Posts results not found, login may be required")
		return nil, nil
	}

	records := ParsePosts(doc, q)
	if s.interp != nil {
		s.enrich(ctx, records)
	}

	logger.Info().Int("count", len(records)).Msg("✅ Finished LinkedIn Posts")
	return records, nil
}

// ParsePosts reads at most ten posts. A post has no structured title, so
// the searched designation and city stand in for title and location.
func ParsePosts(doc *goquery.Document, q models.Query) []models.Record {
	posts := doc.Find("li.reusable-search__result-container")
	if posts.Length() == 0 {
		posts = doc.Find("div.feed-shared-update-v2")
	}

	var records []models.Record
	posts.EachWithBreak(func(i int, post *goquery.Selection) bool {
		if i >= postsLimit {
			return false
		}

		text := scraper.FirstText(post,
			"div.feed-shared-update-v2__description-wrapper span[dir=ltr]",
			"div.update-components-text span[dir=ltr]",
		)
		if text == "" {
			text = scraper.CleanText(post.Text())
		}

		var link string
		post.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			if strings.Contains(href, "urn:li:activity:") || strings.Contains(href, "feed_highlight") {
				link = scraper.AbsoluteURL(baseURL, href)
				return false
			}
			return true
		})

		records = append(records, models.Record{
			Source:   models.SourceLinkedInPosts,
			Title:    q.Designation,
			Location: q.City,
			URL:      link,
			Snippet:  scraper.Snippet(text),
		})
		return true
	})
	return records
}

// enrich asks the interpreter for company and location. Failures keep the
// record unchanged.
func (s *PostsScraper) enrich(ctx context.Context, records []models.Record) {
	for i := range records {
		if ctx.Err() != nil {
			return
		}
		if records[i].Snippet == "" {
			continue
		}
		fields, err := s.interp.ExtractFields(ctx, records[i].Snippet)
		if err != nil {
			log.Debug().Err(err).Str("source", s.Name()).Msg("AI field extraction failed")
			continue
		}
		if fields.Company != "" {
			records[i].Company = fields.Company
		}
		if fields.Location != "" {
			records[i].Location = fields.Location
		}
	}
}
