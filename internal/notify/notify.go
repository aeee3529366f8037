// Package notify carries the transient notices shown by the dashboard
// (toasts) and mirrors them to the desktop when enabled.
package notify

import "time"

// Level classifies a notice.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "success"
}

// Notice is a single transient message raised by the dashboard.
type Notice struct {
	ID      uint64
	Level   Level
	Message string
	At      time.Time
}

// Notifier delivers notices outside the terminal UI.
type Notifier interface {
	// Notify sends a notice. Implementations must be non-blocking.
	Notify(n Notice)
}

// NopNotifier drops every notice.
type NopNotifier struct{}

// Notify is a no-op.
func (NopNotifier) Notify(Notice) {}

const appName = "alert-top"

// title builds the desktop notification title for a notice.
func title(n Notice) string {
	if n.Level == LevelError {
		return appName + ": error"
	}
	return appName
}

// truncateMessage shortens a message for desktop notification bodies.
func truncateMessage(msg string, maxLen int) string {
	r := []rune(msg)
	if len(r) <= maxLen {
		return msg
	}
	return string(r[:maxLen]) + "..."
}
