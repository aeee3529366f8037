//go:build linux

package notify

import (
	"log/slog"
	"os/exec"
)

// NotifySendNotifier sends Linux desktop notifications via notify-send.
// Notifications are sent in a background goroutine so the UI loop never
// waits on notification delivery.
type NotifySendNotifier struct {
	// enabled controls whether notifications are actually sent.
	enabled bool
}

// NewNotifySendNotifier creates a new Linux notification sender.
// If enabled is false, notifications are silently dropped.
func NewNotifySendNotifier(enabled bool) *NotifySendNotifier {
	return &NotifySendNotifier{enabled: enabled}
}

// NewPlatformNotifier creates the platform-appropriate notifier for Linux.
func NewPlatformNotifier(enabled bool) Notifier {
	return NewNotifySendNotifier(enabled)
}

// Notify sends a desktop notification for the given notice.
func (n *NotifySendNotifier) Notify(notice Notice) {
	if !n.enabled {
		return
	}

	urgency := "normal"
	if notice.Level == LevelError {
		urgency = "critical"
	}
	t := title(notice)
	body := truncateMessage(notice.Message, 200)

	go func() {
		if err := sendNotifySend(t, body, urgency); err != nil {
			slog.Warn("failed to send desktop notification", "error", err)
		}
	}()
}

func sendNotifySend(title, body, urgency string) error {
	cmd := exec.Command("notify-send", "--urgency", urgency, "--app-name", appName, title, body)
	return cmd.Run()
}
