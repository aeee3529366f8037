package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nixlim/alert-top/internal/alerts"
)

const (
	minWidth = 60

	skeletonRows = 6
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	locationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("69"))

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("69"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	updatingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75"))

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("250"))

	severityHighStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("160"))

	severityMediumStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("172"))

	severityLowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("245"))

	statusOpenStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("28"))

	statusDismissedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("240"))

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75"))

	actionDisabledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	healthOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	healthBadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	toastSuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("28")).
				Padding(0, 1)

	toastErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("160")).
			Padding(0, 1)

	skeletonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("236"))

	filterPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1)

	emptyStateStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(1, 2).
			Align(lipgloss.Center)

	focusBorderColor = lipgloss.Color("63")

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62"))

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("69")).
			Padding(1, 2)

	crashStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(1, 3)
)

// Column widths of the alert table.
const (
	colEmployee = 22
	colCategory = 16
	colSeverity = 10
	colStatus   = 13
	colCreated  = 14
	colAction   = 11
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripAnsi(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

func (m Model) pageWidth() int {
	if m.width < minWidth {
		return minWidth
	}
	return m.width
}

func (m Model) renderPage() string {
	w := m.pageWidth()

	var sections []string
	sections = append(sections, m.renderHeader(w))

	if m.showFilters {
		sections = append(sections, m.form.view(w))
	}

	list := m.list.Value()
	if len(list) == 0 {
		sections = append(sections, renderEmptyState(w))
	} else {
		sections = append(sections, m.renderCountLine(len(list)))
		sections = append(sections, m.renderTable(list))
	}

	if toasts := m.renderToasts(); toasts != "" {
		sections = append(sections, lipgloss.PlaceHorizontal(w, lipgloss.Right, toasts))
	}

	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(w int) string {
	title := " Manager Alerts"
	indicators := m.headerIndicators()
	padding := w - lipgloss.Width(title) - lipgloss.Width(indicators) - 1
	if padding < 0 {
		padding = 0
	}
	top := headerStyle.Width(w).Render(title + strings.Repeat(" ", padding) + indicators)

	subtitle := subtitleStyle.Render(fmt.Sprintf(" Viewing alerts for manager %s (%s)",
		m.filters.ManagerID, m.filters.ScopeLabel()))

	filtersLabel := "Show Filters"
	if m.showFilters {
		filtersLabel = "Hide Filters"
	}

	loc := " " + locationStyle.Render("?"+m.nav.Current())
	navHints := dimStyle.Render(fmt.Sprintf("  [f] %s", filtersLabel))
	if m.nav.CanBack() {
		navHints += dimStyle.Render("  [[] back")
	}
	if m.nav.CanForward() {
		navHints += dimStyle.Render("  []] forward")
	}

	return lipgloss.JoinVertical(lipgloss.Left, top, subtitle, loc+navHints)
}

func (m Model) renderCountLine(n int) string {
	noun := "alerts"
	if n == 1 {
		noun = "alert"
	}
	line := dimStyle.Render(fmt.Sprintf("Showing %d %s", n, noun))
	if m.refetching {
		line += " " + updatingStyle.Render("(updating...)")
	}
	return line
}

func (m Model) renderTable(list []alerts.Alert) string {
	var sb strings.Builder

	header := padCell("EMPLOYEE", colEmployee) +
		padCell("CATEGORY", colCategory) +
		padCell("SEVERITY", colSeverity) +
		padCell("STATUS", colStatus) +
		padCell("CREATED", colCreated) +
		padCell("ACTIONS", colAction)
	sb.WriteString(tableHeaderStyle.Render(header))

	for i, a := range list {
		sb.WriteByte('\n')
		_, busy := m.inflight[a.ID]
		row := padCell(a.Employee.Name, colEmployee) +
			padCell(a.Category, colCategory) +
			padCell(severityBadge(a.Severity), colSeverity) +
			padCell(statusBadge(a.Status), colStatus) +
			padCell(formatCreated(a), colCreated) +
			actionLabel(a, busy)
		if i == m.cursor {
			row = cursorStyle.Render("›") + row
		} else {
			row = " " + row
		}
		sb.WriteString(row)
	}

	return sb.String()
}

// padCell truncates or pads s to exactly w visible columns.
func padCell(s string, w int) string {
	visible := lipgloss.Width(s)
	if visible >= w {
		plain := []rune(stripAnsi(s))
		if len(plain) > w-2 {
			plain = plain[:w-2]
		}
		return string(plain) + "… "
	}
	return s + strings.Repeat(" ", w-visible)
}

func severityBadge(s alerts.Severity) string {
	switch s {
	case alerts.SeverityHigh:
		return severityHighStyle.Render(" high ")
	case alerts.SeverityMedium:
		return severityMediumStyle.Render(" medium ")
	case alerts.SeverityLow:
		return severityLowStyle.Render(" low ")
	}
	return string(s)
}

func statusBadge(s alerts.Status) string {
	switch s {
	case alerts.StatusOpen:
		return statusOpenStyle.Render(" open ")
	case alerts.StatusDismissed:
		return statusDismissedStyle.Render(" dismissed ")
	}
	return string(s)
}

func formatCreated(a alerts.Alert) string {
	t, err := a.CreatedTime()
	if err != nil {
		return a.CreatedAt
	}
	return t.Format("Jan 2, 2006")
}

// actionLabel renders the per-row action. The action is disabled for
// dismissed alerts and for alerts whose dismissal is in flight.
func actionLabel(a alerts.Alert, busy bool) string {
	if a.Dismissed() || busy {
		return actionDisabledStyle.Render("Dismissed")
	}
	return actionStyle.Render("Dismiss")
}

func renderEmptyState(w int) string {
	body := panelTitleStyle.Render("No alerts found") + "\n" +
		dimStyle.Render("Try adjusting your filters to see more results")
	return emptyStateStyle.Width(w - 2).Render(body)
}

func (m Model) renderSkeleton() string {
	w := m.pageWidth()
	bar := func(n int) string {
		if n > w {
			n = w
		}
		return skeletonStyle.Render(strings.Repeat("█", n))
	}

	lines := []string{
		bar(w / 4),
		bar(w / 3),
		"",
		bar(10) + "  " + bar(10) + "  " + bar(10) + "  " + bar(10) + "  " + bar(10),
	}
	for range skeletonRows {
		lines = append(lines, bar(14)+"  "+bar(10)+"  "+bar(6)+"  "+bar(6)+"  "+bar(10)+"  "+bar(6))
	}
	lines = append(lines, "", dimStyle.Render("Loading alerts..."))
	return strings.Join(lines, "\n")
}

func placeOverlay(width, height int, fg, bg string) string {
	w := lipgloss.Width(bg)
	if width > w {
		w = width
	}
	h := lipgloss.Height(bg)
	if height > h {
		h = height
	}
	return lipgloss.Place(
		w,
		h,
		lipgloss.Center,
		lipgloss.Center,
		fg,
		lipgloss.WithWhitespaceChars(" "),
	)
}
