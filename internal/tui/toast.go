package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nixlim/alert-top/internal/notify"
)

const maxVisibleToasts = 3

type toastExpiredMsg struct {
	id uint64
}

// pushNotice shows n as a toast, appends it to the notification log and
// mirrors it to the desktop notifier. The returned command expires it.
func (m *Model) pushNotice(level notify.Level, message string) tea.Cmd {
	m.nextNoticeID++
	n := notify.Notice{
		ID:      m.nextNoticeID,
		Level:   level,
		Message: message,
		At:      m.now(),
	}

	m.toasts = append(m.toasts, n)
	if m.notices != nil {
		m.notices.Add(n)
	}
	if m.notifier != nil {
		m.notifier.Notify(n)
	}

	id := n.ID
	return m.tick(m.toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m *Model) expireToast(id uint64) {
	for i := range m.toasts {
		if m.toasts[i].ID == id {
			m.toasts = append(m.toasts[:i:i], m.toasts[i+1:]...)
			return
		}
	}
}

func (m Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}

	visible := m.toasts
	if len(visible) > maxVisibleToasts {
		visible = visible[len(visible)-maxVisibleToasts:]
	}

	lines := make([]string, 0, len(visible))
	for _, n := range visible {
		lines = append(lines, renderToast(n))
	}
	return lipgloss.JoinVertical(lipgloss.Right, lines...)
}

func renderToast(n notify.Notice) string {
	msg := strings.TrimSpace(n.Message)
	if n.Level == notify.LevelError {
		return toastErrorStyle.Render("✗ " + msg)
	}
	return toastSuccessStyle.Render("✓ " + msg)
}
