// Package platform delivers transient desktop notifications on each host OS.
package platform

import "time"

// AppName identifies the sender to the host notification service.
const AppName = "Spraywall"

// DefaultTimeout is how long a notification stays visible.
const DefaultTimeout = 4 * time.Second

// Options configures how a notification is displayed.
type Options struct {
	// IconPath points to an image the notification may show.
	IconPath string
	// Timeout is the expiry; zero means DefaultTimeout.
	Timeout time.Duration
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}
