package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"go-job-scraper/internal/models"
	"go-job-scraper/internal/orchestrator"
)

var (
	ErrInvalidQuery = errors.New("invalid query")
	ErrBusy         = errors.New("a search is already running")
	ErrStopped      = errors.New("controller stopped")
)

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

const notifyTimeout = 30 * time.Second

// Runner executes one search run.
type Runner interface {
	Run(ctx context.Context, q models.Query, onProgress orchestrator.ProgressFunc) (*models.RunResult, error)
}

// Notifier is told about finished runs. Errors are logged and ignored.
type Notifier interface {
	NotifyDone(ctx context.Context, res *models.RunResult) error
	NotifyFailed(ctx context.Context, q models.Query, runErr error) error
}

// Status is a point-in-time copy of what the form shows.
type Status struct {
	State        State                `json:"state"`
	Message      string               `json:"message"`
	InputEnabled bool                 `json:"input_enabled"`
	Query        models.Query         `json:"query"`
	RunID        string               `json:"run_id,omitempty"`
	Path         string               `json:"path,omitempty"`
	Records      int                  `json:"records"`
	Counts       []models.SourceCount `json:"counts,omitempty"`
	Error        string               `json:"error,omitempty"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

type submitReq struct {
	q     models.Query
	reply chan error
}

type outcome struct {
	res *models.RunResult
	err error
}

// Controller drives the Idle -> Running -> Done/Failed cycle. All state is
// owned by the loop goroutine started with Start; the exported methods only
// exchange messages with it.
type Controller struct {
	runner   Runner
	notifier Notifier

	submitCh   chan submitReq
	statusCh   chan chan Status
	progressCh chan orchestrator.Progress
	doneCh     chan outcome
	stopped    chan struct{}
}

// New takes an optional notifier (nil disables notifications).
func New(runner Runner, notifier Notifier) *Controller {
	return &Controller{
		runner:     runner,
		notifier:   notifier,
		submitCh:   make(chan submitReq),
		statusCh:   make(chan chan Status),
		progressCh: make(chan orchestrator.Progress),
		doneCh:     make(chan outcome),
		stopped:    make(chan struct{}),
	}
}

// Start runs the loop until ctx is done. A run in flight is cancelled with it.
func (c *Controller) Start(ctx context.Context) {
	go c.loop(ctx)
}

// Submit starts a run for q. It returns ErrInvalidQuery for a blank field
// and ErrBusy while another run is in flight.
func (c *Controller) Submit(q models.Query) error {
	req := submitReq{q: q, reply: make(chan error, 1)}
	select {
	case c.submitCh <- req:
		return <-req.reply
	case <-c.stopped:
		return ErrStopped
	}
}

func (c *Controller) Status() Status {
	reply := make(chan Status, 1)
	select {
	case c.statusCh <- reply:
		return <-reply
	case <-c.stopped:
		return Status{State: StateIdle, Message: "Stopped"}
	}
}

func (c *Controller) loop(ctx context.Context) {
	defer close(c.stopped)

	st := Status{State: StateIdle, Message: "Enter a designation and a city, then search.", InputEnabled: true, UpdatedAt: time.Now()}

	for {
		select {
		case <-ctx.Done():
			return

		case reply := <-c.statusCh:
			snapshot := st
			snapshot.Counts = append([]models.SourceCount(nil), st.Counts...)
			reply <- snapshot

		case req := <-c.submitCh:
			if err := req.q.Validate(); err != nil {
				req.reply <- fmt.Errorf("%w: %w", ErrInvalidQuery, err)
				continue
			}
			if st.State == StateRunning {
				req.reply <- ErrBusy
				continue
			}

			q := req.q.Normalize()
			st = Status{
				State:     StateRunning,
				Message:   fmt.Sprintf("Searching for %q in %q...", q.Designation, q.City),
				Query:     q,
				UpdatedAt: time.Now(),
			}
			go c.work(ctx, q)
			req.reply <- nil

		case p := <-c.progressCh:
			if st.State != StateRunning {
				continue
			}
			st.RunID = p.RunID
			st.Message = p.String()
			st.UpdatedAt = time.Now()

		case out := <-c.doneCh:
			st = finish(st, out)
			c.notify(ctx, st.Query, out)
		}
	}
}

// work runs on its own goroutine; everything it learns goes back to the loop.
func (c *Controller) work(ctx context.Context, q models.Query) {
	onProgress := func(p orchestrator.Progress) {
		select {
		case c.progressCh <- p:
		case <-ctx.Done():
		}
	}

	res, err := c.runner.Run(ctx, q, onProgress)

	select {
	case c.doneCh <- outcome{res: res, err: err}:
	case <-ctx.Done():
	}
}

func finish(st Status, out outcome) Status {
	st.InputEnabled = true
	st.UpdatedAt = time.Now()

	if out.err != nil || out.res == nil {
		err := out.err
		if err == nil {
			err = errors.New("run returned no result")
		}
		st.State = StateFailed
		st.Error = err.Error()
		st.Message = "Search failed: " + err.Error()
		st.Path = ""
		st.Records = 0
		return st
	}

	st.State = StateDone
	st.RunID = out.res.ID
	st.Path = out.res.Path
	st.Records = len(out.res.Records)
	st.Counts = out.res.Counts
	st.Error = ""
	if st.Records == 0 {
		st.Message = fmt.Sprintf("No listings found. Empty spreadsheet saved to %s", st.Path)
	} else {
		st.Message = fmt.Sprintf("Found %d listings. Saved to %s", st.Records, st.Path)
	}
	return st
}

// notify runs in the background so a slow notifier never blocks the loop.
func (c *Controller) notify(ctx context.Context, q models.Query, out outcome) {
	if c.notifier == nil {
		return
	}
	go func() {
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()

		var err error
		if out.err != nil || out.res == nil {
			err = c.notifier.NotifyFailed(nctx, q, out.err)
		} else {
			err = c.notifier.NotifyDone(nctx, out.res)
		}
		if err != nil {
			log.Warn().Err(err).Msg("⚠️ Failed to send run notification")
		}
	}()
}
