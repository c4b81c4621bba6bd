package browser

import (
	"context"
	"errors"
)

var ErrSessionClosed = errors.New("browser session closed")

// Session is a live browser tab owned by exactly one run. It is handed to
// every extractor of that run and closed by the run owner.
type Session interface {
	// Navigate loads url and, when readySelector is not empty, waits until an
	// element matching it is attached to the DOM.
	Navigate(ctx context.Context, url, readySelector string) error

	Title() (string, error)

	// Content returns the current serialized DOM.
	Content() (string, error)

	Exists(selector string) bool

	Click(selector string) error

	// ScrollToBottom scrolls to the end of the page times times, pausing
	// between scrolls so lazy lists can render.
	ScrollToBottom(ctx context.Context, times int) error

	// Screenshot saves a debug capture when screenshots are enabled.
	Screenshot(name string)

	Close() error
}

// Launcher starts a fresh Session.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}
