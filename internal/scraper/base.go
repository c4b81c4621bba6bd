// Define an interface for all site extractors
// Ensure consistency

package scraper

import (
	"context"

	"go-job-scraper/internal/browser"
	"go-job-scraper/internal/models"
)

// Extractor defines the interface that all site extractors must implement.
//
// Extract is best-effort: navigation failures, timeouts, block pages and
// layout changes all yield an empty result with a nil error. A returned
// error means something unexpected happened; callers treat it as empty too.
type Extractor interface {
	Extract(ctx context.Context, sess browser.Session, q models.Query) ([]models.Record, error)

	//Name is the human readable site name (LinkedIn Jobs, Indeed, ...)
	Name() string

	Source() models.Source
}
