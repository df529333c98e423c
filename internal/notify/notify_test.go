package notify

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/example/spraywall/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
}

func newTestNotifier(now *time.Time, out *[]sent, err error) *Notifier {
	return New(DefaultPreferences(),
		WithLogger(zerolog.Nop()),
		WithClock(func() time.Time { return *now }),
		WithSender(func(title, body string, opts platform.Options) error {
			*out = append(*out, sent{title, body, opts})
			return err
		}))
}

func TestDisabledEventsAreSilent(t *testing.T) {
	now := time.Now()
	var out []sent
	n := newTestNotifier(&now, &out, nil)
	n.Submitted("Frame 1")
	require.Empty(t, out)
	_, ok := n.Current()
	require.False(t, ok)
}

func TestSubmittedMessageExpires(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var out []sent
	n := newTestNotifier(&now, &out, nil)
	n.Enable(EventSubmit, true)
	n.Submitted("Frame 3")

	require.Len(t, out, 1)
	require.Equal(t, "Spraywall", out[0].title)
	require.Equal(t, "Submitted to Frame 3", out[0].body)
	require.Equal(t, platform.DefaultTimeout, out[0].opts.Timeout)

	msg, ok := n.Current()
	require.True(t, ok)
	require.Equal(t, EventSubmit, msg.Event)

	now = now.Add(platform.DefaultTimeout)
	_, ok = n.Current()
	require.False(t, ok)
}

func TestSendFailureStillRecordsStatus(t *testing.T) {
	now := time.Now()
	var out []sent
	n := newTestNotifier(&now, &out, errors.New("no session bus"))
	n.Enable(EventFailure, true)
	n.Failed("store unreachable")
	msg, ok := n.Current()
	require.True(t, ok)
	require.Equal(t, "Submission failed: store unreachable", msg.Text)
}

func TestCopiedUsesPreviewIcon(t *testing.T) {
	now := time.Now()
	var out []sent
	n := newTestNotifier(&now, &out, nil)
	n.Enable(EventCopy, true)
	n.Copied("", image.NewRGBA(image.Rect(0, 0, 2, 2)))
	require.Len(t, out, 1)
	require.Equal(t, "Copied artwork to clipboard", out[0].body)
	require.NotEmpty(t, out[0].opts.IconPath)
}

func TestNilNotifier(t *testing.T) {
	var n *Notifier
	n.Submitted("x")
	n.Failed("y")
	n.Enable(EventSubmit, true)
	_, ok := n.Current()
	require.False(t, ok)
}
