// Package browsertest provides an in-memory browser.Session backed by canned
// HTML, for testing extractors and run orchestration without Chromium.
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"go-job-scraper/internal/browser"
)

// Page is the canned response for every URL that starts with its key.
type Page struct {
	HTML   string
	NavErr error
}

type Session struct {
	mu sync.Mutex

	Pages map[string]Page

	// ClickPages replaces the current page after a successful Click on the
	// given selector.
	ClickPages map[string]Page

	current Page
	visited []string
	clicks  []string
	scrolls int
	closed  int
}

var _ browser.Session = (*Session)(nil)

func New(pages map[string]Page) *Session {
	return &Session{Pages: pages}
}

func (s *Session) Navigate(ctx context.Context, url, readySelector string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed > 0 {
		return browser.ErrSessionClosed
	}
	s.visited = append(s.visited, url)

	page, ok := s.lookup(url)
	if !ok {
		s.current = Page{}
		return fmt.Errorf("navigate to %s: no canned page", url)
	}
	if page.NavErr != nil {
		s.current = Page{}
		return page.NavErr
	}
	s.current = page

	if readySelector != "" && !s.exists(readySelector) {
		return fmt.Errorf("wait for %q: timeout", readySelector)
	}
	return nil
}

// lookup picks the longest key that prefixes url.
func (s *Session) lookup(url string) (Page, bool) {
	best := -1
	var page Page
	for prefix, p := range s.Pages {
		if strings.HasPrefix(url, prefix) && len(prefix) > best {
			best = len(prefix)
			page = p
		}
	}
	return page, best >= 0
}

func (s *Session) doc() *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.current.HTML))
	if err != nil {
		return nil
	}
	return doc
}

func (s *Session) exists(selector string) bool {
	doc := s.doc()
	return doc != nil && doc.Find(selector).Length() > 0
}

func (s *Session) Title() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.doc()
	if doc == nil {
		return "", errors.New("no document")
	}
	return strings.TrimSpace(doc.Find("title").First().Text()), nil
}

func (s *Session) Content() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed > 0 {
		return "", browser.ErrSessionClosed
	}
	return s.current.HTML, nil
}

func (s *Session) Exists(selector string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exists(selector)
}

func (s *Session) Click(selector string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists(selector) {
		return fmt.Errorf("click %q: not found", selector)
	}
	s.clicks = append(s.clicks, selector)
	if next, ok := s.ClickPages[selector]; ok {
		s.current = next
	}
	return nil
}

func (s *Session) ScrollToBottom(ctx context.Context, times int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrolls += times
	return ctx.Err()
}

func (s *Session) Screenshot(string) {}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *Session) Visited() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.visited...)
}

func (s *Session) Clicks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.clicks...)
}

func (s *Session) Scrolls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrolls
}

func (s *Session) CloseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Launcher hands out Session, or fails with Err.
type Launcher struct {
	mu       sync.Mutex
	Session  *Session
	Err      error
	launches int
}

var _ browser.Launcher = (*Launcher)(nil)

func (l *Launcher) Launch(ctx context.Context) (browser.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launches++
	if l.Err != nil {
		return nil, l.Err
	}
	if l.Session == nil {
		l.Session = New(nil)
	}
	return l.Session, nil
}

func (l *Launcher) Launches() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launches
}
