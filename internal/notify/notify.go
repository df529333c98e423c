// Package notify turns wall events into transient, auto-dismissing status
// messages delivered as desktop notifications.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/example/spraywall/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSubmit fires when an artwork was stored for a frame.
	EventSubmit Event = "submit"
	// EventFailure fires when a submission could not be stored.
	EventFailure Event = "failure"
	// EventExport fires when an artwork was written to disk.
	EventExport Event = "export"
	// EventCopy fires when an artwork was copied to the clipboard.
	EventCopy Event = "copy"
)

// Events lists every event in a stable order.
var Events = []Event{EventSubmit, EventFailure, EventExport, EventCopy}

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title   string
	Timeout time.Duration
	Events  map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title:   platform.AppName,
		Timeout: platform.DefaultTimeout,
		Events: map[Event]EventPreference{
			EventSubmit:  {Template: "Submitted to %s"},
			EventFailure: {Template: "Submission failed: %s"},
			EventExport:  {Template: "Saved %s"},
			EventCopy:    {Template: "Copied %s to clipboard"},
		},
	}
}

// Message is the most recent status line and when it stops being shown.
type Message struct {
	Event   Event
	Text    string
	Expires time.Time
}

// SendFunc delivers one notification.
type SendFunc func(title, body string, opts platform.Options) error

// Notifier sends notifications for enabled events and remembers the last
// status line until it expires.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    SendFunc
	now     func() time.Time
	logger  zerolog.Logger

	mu   sync.Mutex
	last Message
}

// Option customises a Notifier.
type Option func(*Notifier)

// WithSender replaces platform.Notify.
func WithSender(send SendFunc) Option {
	return func(n *Notifier) { n.send = send }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) { n.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(n *Notifier) { n.logger = logger }
}

// New creates a Notifier using prefs. All events start disabled.
func New(prefs Preferences, opts ...Option) *Notifier {
	cloned := Preferences{Title: prefs.Title, Timeout: prefs.Timeout, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	if cloned.Timeout <= 0 {
		cloned.Timeout = platform.DefaultTimeout
	}
	n := &Notifier{
		prefs:   cloned,
		enabled: make(map[Event]bool),
		send:    platform.Notify,
		now:     time.Now,
		logger:  log.Logger,
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Submitted reports a stored artwork for the named frame.
func (n *Notifier) Submitted(frame string) {
	n.dispatch(EventSubmit, frame, platform.Options{})
}

// Failed reports a failed submission.
func (n *Notifier) Failed(reason string) {
	n.dispatch(EventFailure, reason, platform.Options{})
}

// Exported reports a written file, showing it as the icon when possible.
func (n *Notifier) Exported(path string) {
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventExport, detail, opts)
}

// Copied reports a clipboard copy, previewing img when given.
func (n *Notifier) Copied(detail string, img image.Image) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "artwork"
	}
	opts := platform.Options{}
	if img != nil {
		if path, cleanup, err := createPreview(img); err != nil {
			n.logger.Warn().Err(err).Msg("notification preview")
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCopy, detail, opts)
}

// Current returns the last status line while it has not expired.
func (n *Notifier) Current() (Message, bool) {
	if n == nil {
		return Message{}, false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.last.Text == "" || !n.now().Before(n.last.Expires) {
		return Message{}, false
	}
	return n.last, true
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	n.mu.Lock()
	n.last = Message{Event: event, Text: body, Expires: n.now().Add(n.prefs.Timeout)}
	n.mu.Unlock()

	opts.Timeout = n.prefs.Timeout
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		n.logger.Debug().Err(err).Str("event", string(event)).Msg("desktop notification unavailable")
	}
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "spraywall-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	return path, func() { _ = os.Remove(path) }, nil
}
