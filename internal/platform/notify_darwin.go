//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
)

// Notify displays a banner through Notification Center, which dismisses it
// on its own schedule.
func Notify(title, body string, opts Options) error {
	script := fmt.Sprintf("display notification %q with title %q", body, title)
	return exec.Command("osascript", "-e", script).Run()
}
