package internshala

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"go-job-scraper/internal/browser"
	"go-job-scraper/internal/models"
	"go-job-scraper/internal/scraper"
)

const (
	baseURL = "https://internshala.com"

	listSelector     = "#internship_list_container"
	noResultSelector = "#no_result_found_header"
)

type Scraper struct{}

func NewScraper() *Scraper {
	return &Scraper{}
}

func (s *Scraper) Name() string {
	return "Internshala"
}

func (s *Scraper) Source() models.Source {
	return models.SourceInternshala
}

// SearchURL puts designation and city into a single keywords path segment.
func SearchURL(q models.Query) string {
	keywords := strings.TrimSpace(q.Designation + " " + q.City)
	return fmt.Sprintf("%s/internships/keywords-%s", baseURL, url.QueryEscape(keywords))
}

func (s *Scraper) Extract(ctx context.Context, sess browser.Session, q models.Query) ([]models.Record, error) {
	q = q.Normalize()
	logger := log.With().Str("source", s.Name()).Logger()

	searchURL := SearchURL(q)
	logger.Info().Str("url", searchURL).Msg("🎓 Searching Internshala...")

	if err := sess.Navigate(ctx, searchURL, listSelector); err != nil {
		logger.Warn().Err(err).Msg("⚠️ Internship list not found")
		return nil, nil
	}
	if sess.Exists(noResultSelector) {
		logger.Info().Msg("📭 No internships match the keywords")
		return nil, nil
	}

	html, err := sess.Content()
	if err != nil {
		logger.Warn().Err(err).Msg("⚠️ Could not read page content")
		return nil, nil
	}
	doc, err := scraper.ParseHTML(html)
	if err != nil {
		return nil, err
	}

	records := ParseInternships(doc)
	logger.Info().Int("count", len(records)).Msg("✅ Finished Internshala")
	return records, nil
}

func ParseInternships(doc *goquery.Document) []models.Record {
	cards := doc.Find("div.individual_internship")
	if cards.Length() == 0 {
		cards = doc.Find(".internship_meta")
	}

	var records []models.Record
	cards.Each(func(_ int, card *goquery.Selection) {
		titleSel := card.Find(".profile, .heading_4_5, .job-internship-name").First()
		title := scraper.CleanText(titleSel.Text())
		if title == "" {
			return
		}

		company := scraper.FirstText(card, ".company_name", ".heading_6", ".link_display_like_text")
		if i := strings.Index(company, "|"); i >= 0 {
			company = strings.TrimSpace(company[:i])
		}

		records = append(records, models.Record{
			Source:   models.SourceInternshala,
			Title:    title,
			Company:  company,
			Location: location(card),
			URL:      scraper.AbsoluteURL(baseURL, link(card, titleSel)),
			Snippet:  scraper.Snippet(card.Text()),
		})
	})
	return records
}

func location(card *goquery.Selection) string {
	container := card.Find("[id^='location_names']").First()
	if container.Length() > 0 {
		var names []string
		container.Find("a.location_link").Each(func(_ int, a *goquery.Selection) {
			if n := scraper.CleanText(a.Text()); n != "" {
				names = append(names, n)
			}
		})
		if len(names) > 0 {
			return strings.Join(names, ", ")
		}
		return scraper.CleanText(container.Text())
	}
	return scraper.FirstText(card, "a.location_link")
}

func link(card, title *goquery.Selection) string {
	if href := scraper.FirstAttr(card, "href", "a.view_detail_button"); href != "" {
		return href
	}
	if href := scraper.FirstAttr(title, "href", "a"); href != "" {
		return href
	}
	if href, ok := card.Attr("data-href"); ok && strings.TrimSpace(href) != "" {
		return strings.TrimSpace(href)
	}
	return scraper.FirstAttr(card, "href", "a[href]")
}
