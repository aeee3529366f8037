//go:build darwin

package notify

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// OSAScriptNotifier sends macOS system notifications via osascript.
type OSAScriptNotifier struct {
	enabled bool
}

// NewOSAScriptNotifier creates a new macOS notification sender.
// If enabled is false, notifications are silently dropped.
func NewOSAScriptNotifier(enabled bool) *OSAScriptNotifier {
	return &OSAScriptNotifier{enabled: enabled}
}

// NewPlatformNotifier creates the platform-appropriate notifier for macOS.
func NewPlatformNotifier(enabled bool) Notifier {
	return NewOSAScriptNotifier(enabled)
}

// Notify sends a macOS notification for the given notice. The osascript
// command runs in a background goroutine.
func (n *OSAScriptNotifier) Notify(notice Notice) {
	if !n.enabled {
		return
	}

	t := title(notice)
	message := truncateMessage(notice.Message, 200)

	go func() {
		if err := sendOSANotification(t, message); err != nil {
			slog.Warn("failed to send macOS notification", "error", err)
		}
	}()
}

func sendOSANotification(title, message string) error {
	script := fmt.Sprintf(
		`display notification "%s" with title "%s"`,
		escapeAppleScript(message), escapeAppleScript(title),
	)
	cmd := exec.Command("osascript", "-e", script)
	return cmd.Run()
}

// escapeAppleScript escapes characters that could break AppleScript strings.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
