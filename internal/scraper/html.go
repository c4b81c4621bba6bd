package scraper

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const maxSnippetRunes = 500

// challengeMarkers are page titles served instead of results by anti-bot walls.
var challengeMarkers = []string{"just a moment", "attention required", "cloudflare", "security check", "access denied"}

func IsChallengeTitle(title string) bool {
	t := strings.ToLower(title)
	for _, m := range challengeMarkers {
		if strings.Contains(t, m) {
			return true
		}
	}
	return false
}

func ParseHTML(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Snippet collapses whitespace and caps the text length.
func Snippet(s string) string {
	s = CleanText(s)
	if utf8.RuneCountInString(s) <= maxSnippetRunes {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:maxSnippetRunes])) + "…"
}

// FirstText returns the cleaned text of the first selector that yields
// non-empty text inside sel.
func FirstText(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		if txt := CleanText(sel.Find(s).First().Text()); txt != "" {
			return txt
		}
	}
	return ""
}

// FirstAttr is FirstText for attributes.
func FirstAttr(sel *goquery.Selection, attr string, selectors ...string) string {
	for _, s := range selectors {
		if v, ok := sel.Find(s).First().Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// AbsoluteURL resolves href against base. Empty href stays empty.
func AbsoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}
