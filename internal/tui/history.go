package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nixlim/alert-top/internal/notify"
)

const noticeLogLimit = 20

func (m Model) overlayRecentViews(base string) string {
	var sb strings.Builder
	sb.WriteString(panelTitleStyle.Render("Recent Views"))
	sb.WriteString("\n\n")

	switch {
	case m.history == nil:
		sb.WriteString(dimStyle.Render("History is unavailable"))
	case m.recentErr != nil:
		sb.WriteString(healthBadStyle.Render("Error: " + m.recentErr.Error()))
	case !m.recentLoaded:
		sb.WriteString(dimStyle.Render("Loading..."))
	case len(m.recent) == 0:
		sb.WriteString(dimStyle.Render("No views recorded yet"))
	default:
		current := m.nav.Current()
		for i, v := range m.recent {
			marker := "  "
			if v.Location == current {
				marker = "• "
			}
			line := fmt.Sprintf("%s%-19s  ?%s", marker, v.VisitedAt.Local().Format("2006-01-02 15:04:05"), v.Location)
			if i == m.recentCursor {
				line = selectedStyle.Render(line)
			}
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}

	if !m.persistent {
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render("persistence is disabled; views are kept for this session only"))
	}

	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Enter: Open  Esc: Close"))

	dialog := overlayStyle.Render(sb.String())
	return placeOverlay(m.width, m.height, dialog, base)
}

func (m Model) overlayNoticeLog(base string) string {
	var sb strings.Builder
	sb.WriteString(panelTitleStyle.Render("Notifications"))
	sb.WriteString("\n\n")

	recent := m.notices.Recent(noticeLogLimit)
	if len(recent) == 0 {
		sb.WriteString(dimStyle.Render("No notifications yet"))
	}
	for _, n := range recent {
		level := healthOKStyle.Render("ok ")
		if n.Level == notify.LevelError {
			level = healthBadStyle.Render("err")
		}
		sb.WriteString(fmt.Sprintf("%s  %s  %s\n", n.At.Local().Format("15:04:05"), level, n.Message))
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("%d of %d kept  Esc: Close", m.notices.Len(), m.notices.Cap())))

	dialog := overlayStyle.Width(lipgloss.Width(base) * 70 / 100).Render(sb.String())
	return placeOverlay(m.width, m.height, dialog, base)
}
