package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"go-job-scraper/internal/browser"
	"go-job-scraper/internal/models"
	"go-job-scraper/internal/scraper"
)

var (
	ErrSessionUnavailable = errors.New("browser session unavailable")
	ErrExport             = errors.New("export failed")
)

const defaultExtractorTimeout = 2 * time.Minute

// Exporter persists the records of a finished run and returns the file path.
type Exporter interface {
	Export(records []models.Record, q models.Query) (string, error)
}

// Progress is emitted when a site starts (Done false) and when it finishes.
type Progress struct {
	RunID  string
	Index  int // 1-based position in the run order
	Total  int
	Source models.Source
	Name   string
	Done   bool
	Count  int
	Failed bool
}

func (p Progress) String() string {
	if !p.Done {
		return fmt.Sprintf("Scraping %s (%d/%d)...", p.Name, p.Index, p.Total)
	}
	return fmt.Sprintf("Finished %s: %d found (%d/%d)", p.Name, p.Count, p.Index, p.Total)
}

type ProgressFunc func(Progress)

type Orchestrator struct {
	launcher   browser.Launcher
	exporter   Exporter
	extractors []scraper.Extractor
	timeout    time.Duration
	now        func() time.Time
}

// New wires a run pipeline. Extractors run in the given order; timeout bounds
// each one (zero means two minutes).
func New(launcher browser.Launcher, exporter Exporter, extractors []scraper.Extractor, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = defaultExtractorTimeout
	}
	return &Orchestrator{
		launcher:   launcher,
		exporter:   exporter,
		extractors: extractors,
		timeout:    timeout,
		now:        time.Now,
	}
}

// Sources lists the configured extractors in run order.
func (o *Orchestrator) Sources() []models.Source {
	return lo.Map(o.extractors, func(e scraper.Extractor, _ int) models.Source {
		return e.Source()
	})
}

// Run executes one search: validate, acquire a session, run every extractor,
// release the session, export. Site failures only shrink the result; a
// session or export failure fails the run and no RunResult is returned.
func (o *Orchestrator) Run(ctx context.Context, q models.Query, onProgress ProgressFunc) (*models.RunResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q = q.Normalize()
	if onProgress == nil {
		onProgress = func(Progress) {}
	}

	res := &models.RunResult{
		ID:        uuid.NewString(),
		Query:     q,
		StartedAt: o.now(),
	}
	logger := log.With().Str("run_id", res.ID).Logger()
	logger.Info().Str("designation", q.Designation).Str("city", q.City).Msg("🚀 Starting run")

	perSite, err := o.collect(ctx, q, res, onProgress, logger)
	if err != nil {
		logger.Error().Err(err).Msg("❌ Run aborted")
		return nil, err
	}

	res.Records = lo.Flatten(perSite)
	if res.Records == nil {
		res.Records = []models.Record{}
	}

	path, err := o.exporter.Export(res.Records, q)
	if err != nil {
		logger.Error().Err(err).Msg("❌ Export failed")
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}
	res.Path = path
	res.FinishedAt = o.now()

	logger.Info().
		Int("records", len(res.Records)).
		Str("path", path).
		Dur("took", res.FinishedAt.Sub(res.StartedAt)).
		Msg("🎉 Run finished")
	return res, nil
}

// collect owns the session: it is closed exactly once before collect
// returns, whatever the extractors did.
func (o *Orchestrator) collect(ctx context.Context, q models.Query, res *models.RunResult, onProgress ProgressFunc, logger zerolog.Logger) ([][]models.Record, error) {
	sess, err := o.launcher.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionUnavailable, err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Warn().Err(err).Msg("⚠️ Failed to close browser session")
		}
	}()

	total := len(o.extractors)
	perSite := make([][]models.Record, 0, total)
	for i, ex := range o.extractors {
		p := Progress{RunID: res.ID, Index: i + 1, Total: total, Source: ex.Source(), Name: ex.Name()}
		onProgress(p)

		records, err := o.runOne(ctx, sess, ex, q)
		if err != nil {
			logger.Warn().Err(err).Str("source", ex.Name()).Msg("⚠️ Extractor failed, continuing with other sites")
		}

		p.Done, p.Count, p.Failed = true, len(records), err != nil
		onProgress(p)

		res.Counts = append(res.Counts, models.SourceCount{Source: ex.Source(), Count: len(records), Failed: err != nil})
		perSite = append(perSite, records)
	}

	// a cancelled parent context means the process is shutting down
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return perSite, nil
}

// runOne runs a single extractor under its own deadline. Errors and panics
// become an empty contribution.
func (o *Orchestrator) runOne(ctx context.Context, sess browser.Session, ex scraper.Extractor, q models.Query) (records []models.Record, err error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("source", ex.Name()).Bytes("stack", debug.Stack()).Msgf("🔥 Extractor panicked: %v", r)
			records, err = nil, fmt.Errorf("%s panicked: %v", ex.Name(), r)
		}
	}()

	records, err = ex.Extract(ctx, sess, q)
	if err != nil {
		return nil, err
	}

	source := ex.Source()
	return lo.FilterMap(records, func(r models.Record, _ int) (models.Record, bool) {
		r.Source = source
		r.Title = strings.TrimSpace(r.Title)
		return r, r.Title != ""
	}), nil
}
