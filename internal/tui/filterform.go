package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nixlim/alert-top/internal/alerts"
	"github.com/nixlim/alert-top/internal/filters"
)

type formField int

const (
	fieldManager formField = iota
	fieldScope
	fieldSeverity
	fieldStatus
	fieldSearch
	fieldCount
)

var scopeOptions = []filters.Scope{filters.ScopeDirect, filters.ScopeSubtree}

// filterForm edits a copy of the active filters. Every field except the
// search box emits a new filter set as soon as it changes; the search box
// keeps a local buffer and emits once typing has settled.
type filterForm struct {
	keys     KeyMap
	manager  textinput.Model
	search   textinput.Model
	field    formField
	option   int
	focused  bool
	debounce Debouncer

	// current is the last filter set received from the location.
	current  filters.Filters
	fallback string
}

func newFilterForm(keys KeyMap, f filters.Filters, fallbackManager string, delay time.Duration, tick tickFunc) filterForm {
	manager := textinput.New()
	manager.Prompt = ""
	manager.Placeholder = fallbackManager
	manager.CharLimit = 32
	manager.Width = 12
	manager.Cursor.SetMode(cursor.CursorStatic)

	search := textinput.New()
	search.Prompt = ""
	search.Placeholder = "Search by employee name"
	search.CharLimit = 128
	search.Width = 32
	search.Cursor.SetMode(cursor.CursorStatic)

	ff := filterForm{
		keys:     keys,
		manager:  manager,
		search:   search,
		debounce: NewDebouncer(delay, tick),
		fallback: fallbackManager,
	}
	ff.current = f.Clone()
	ff.manager.SetValue(f.ManagerID)
	ff.search.SetValue(f.Q)
	return ff
}

// setExternal resyncs the form after the location changed. The search
// buffer is only overwritten when q itself changed and differs from what
// the buffer would emit, so text still waiting on the debounce survives
// edits to other fields and a trailing space being typed is kept.
func (ff *filterForm) setExternal(f filters.Filters) {
	prevQ := ff.current.Q
	ff.current = f.Clone()

	if ff.effectiveManager() != f.ManagerID {
		ff.manager.SetValue(f.ManagerID)
	}
	if f.Q != prevQ && strings.TrimSpace(ff.search.Value()) != f.Q {
		ff.search.SetValue(f.Q)
		ff.debounce.Cancel()
	}
}

func (ff filterForm) effectiveManager() string {
	v := strings.TrimSpace(ff.manager.Value())
	if v == "" {
		return ff.fallback
	}
	return v
}

func (ff *filterForm) focus() {
	ff.focused = true
	ff.focusField()
}

func (ff *filterForm) blur() {
	ff.focused = false
	ff.manager.Blur()
	ff.search.Blur()
}

func (ff *filterForm) focusField() {
	ff.manager.Blur()
	ff.search.Blur()
	switch ff.field {
	case fieldManager:
		ff.manager.Focus()
	case fieldSearch:
		ff.search.Focus()
	}
}

func (ff *filterForm) moveField(delta int) {
	ff.field = formField((int(ff.field) + delta + int(fieldCount)) % int(fieldCount))
	ff.option = 0
	ff.focusField()
}

func (ff filterForm) optionCount() int {
	switch ff.field {
	case fieldScope:
		return len(scopeOptions)
	case fieldSeverity:
		return len(alerts.Severities())
	case fieldStatus:
		return len(alerts.Statuses())
	}
	return 0
}

// update handles a key while the form has focus. When the key changes an
// immediately-applied field it returns the new filters and emit=true.
func (ff *filterForm) update(msg tea.KeyMsg) (next filters.Filters, emit bool, cmd tea.Cmd) {
	switch {
	case key.Matches(msg, ff.keys.NextItem):
		ff.moveField(1)
		return next, false, nil
	case key.Matches(msg, ff.keys.PrevItem):
		ff.moveField(-1)
		return next, false, nil
	}

	switch ff.field {
	case fieldManager:
		before := ff.manager.Value()
		ff.manager, cmd = ff.manager.Update(msg)
		if ff.manager.Value() == before {
			return next, false, cmd
		}
		next = ff.current.Clone()
		next.ManagerID = strings.TrimSpace(ff.manager.Value())
		return next, true, cmd

	case fieldSearch:
		before := ff.search.Value()
		ff.search, cmd = ff.search.Update(msg)
		if ff.search.Value() == before {
			return next, false, cmd
		}
		return next, false, tea.Batch(cmd, ff.debounce.Trigger())
	}

	switch {
	case key.Matches(msg, ff.keys.Left), key.Matches(msg, ff.keys.Up):
		if ff.option > 0 {
			ff.option--
		}
		return next, false, nil
	case key.Matches(msg, ff.keys.Right), key.Matches(msg, ff.keys.Down):
		if ff.option < ff.optionCount()-1 {
			ff.option++
		}
		return next, false, nil
	case key.Matches(msg, ff.keys.Toggle):
		return ff.toggle()
	}
	return next, false, nil
}

func (ff *filterForm) toggle() (filters.Filters, bool, tea.Cmd) {
	next := ff.current.Clone()
	switch ff.field {
	case fieldScope:
		s := scopeOptions[ff.option]
		if next.Scope == s {
			return next, false, nil
		}
		next.Scope = s
	case fieldSeverity:
		next = next.ToggleSeverity(alerts.Severities()[ff.option])
	case fieldStatus:
		next = next.ToggleStatus(alerts.Statuses()[ff.option])
	default:
		return next, false, nil
	}
	return next, true, nil
}

// settle is called when the debounce timer fires. It emits the search
// buffer if it differs from the location's q.
func (ff *filterForm) settle(msg searchSettledMsg) (filters.Filters, bool) {
	if !ff.debounce.Settled(msg) {
		return filters.Filters{}, false
	}
	if ff.search.Value() == ff.current.Q {
		return filters.Filters{}, false
	}
	next := ff.current.Clone()
	next.Q = ff.search.Value()
	return next, true
}

func (ff filterForm) view(width int) string {
	var sb strings.Builder

	sb.WriteString(panelTitleStyle.Render("Filters"))
	sb.WriteByte('\n')

	sb.WriteString(ff.label(fieldManager, "Manager ID") + " " + ff.manager.View())
	sb.WriteByte('\n')

	var scopes []string
	for i, s := range scopeOptions {
		mark := "( )"
		if ff.current.Scope == s {
			mark = "(•)"
		}
		scopes = append(scopes, ff.optionText(fieldScope, i, mark+" "+titleCase(s.Label())))
	}
	sb.WriteString(ff.label(fieldScope, "Scope") + " " + strings.Join(scopes, "  "))
	sb.WriteByte('\n')

	var sevs []string
	for i, s := range alerts.Severities() {
		sevs = append(sevs, ff.optionText(fieldSeverity, i, checkbox(ff.current.HasSeverity(s))+" "+titleCase(string(s))))
	}
	sb.WriteString(ff.label(fieldSeverity, "Severity") + " " + strings.Join(sevs, "  "))
	sb.WriteByte('\n')

	var stats []string
	for i, s := range alerts.Statuses() {
		stats = append(stats, ff.optionText(fieldStatus, i, checkbox(ff.current.HasStatus(s))+" "+titleCase(string(s))))
	}
	sb.WriteString(ff.label(fieldStatus, "Status") + " " + strings.Join(stats, "  "))
	sb.WriteByte('\n')

	sb.WriteString(ff.label(fieldSearch, "Search") + " " + ff.search.View())

	style := filterPanelStyle
	if ff.focused {
		style = style.BorderForeground(focusBorderColor)
	}
	w := width - 2
	if w < 20 {
		w = 20
	}
	return style.Width(w).Render(sb.String())
}

func (ff filterForm) label(f formField, text string) string {
	l := lipgloss.NewStyle().Width(12).Render(text)
	if ff.focused && ff.field == f {
		return selectedStyle.Render(l)
	}
	return dimStyle.Render(l)
}

func (ff filterForm) optionText(f formField, i int, text string) string {
	if ff.focused && ff.field == f && ff.option == i {
		return cursorStyle.Render(text)
	}
	return text
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
