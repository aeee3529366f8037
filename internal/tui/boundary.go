package tui

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// maxStackLines bounds the stack trace shown on the crash screen.
const maxStackLines = 24

type crashReport struct {
	err   error
	stack string
}

// crashState is shared between copies of a Boundary so a panic caught
// while rendering (View has a value receiver) is still recorded.
type crashState struct {
	report *crashReport
}

// Boundary wraps the page and catches panics raised while it updates or
// renders. A crash replaces the page with a report offering retry and
// go-home actions. The boundary outlives any page it hosts.
type Boundary struct {
	child  tea.Model
	build  func() tea.Model
	goHome func()
	state  *crashState
	keys   boundaryKeys
	width  int
	height int
}

type boundaryKeys struct {
	Retry key.Binding
	Home  key.Binding
	Quit  key.Binding
}

func defaultBoundaryKeys() boundaryKeys {
	return boundaryKeys{
		Retry: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "try again")),
		Home:  key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "go home")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// NewBoundary hosts the page returned by build. goHome is called before
// the page is rebuilt by the go-home action; it typically resets the
// location store to the default location.
func NewBoundary(build func() tea.Model, goHome func()) Boundary {
	return Boundary{
		child:  build(),
		build:  build,
		goHome: goHome,
		state:  &crashState{},
		keys:   defaultBoundaryKeys(),
	}
}

// Crashed reports whether the boundary is showing a crash report.
func (b Boundary) Crashed() bool {
	return b.state.report != nil
}

// Child returns the hosted page.
func (b Boundary) Child() tea.Model {
	return b.child
}

func (b Boundary) Init() tea.Cmd {
	var cmd tea.Cmd
	b.guard(func() { cmd = b.child.Init() })
	return cmd
}

func (b Boundary) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		b.width = size.Width
		b.height = size.Height
	}

	if b.state.report != nil {
		return b.updateCrashed(msg)
	}

	var (
		next tea.Model
		cmd  tea.Cmd
	)
	b.guard(func() { next, cmd = b.child.Update(msg) })
	if b.state.report != nil {
		return b, nil
	}
	b.child = next
	return b, cmd
}

func (b Boundary) updateCrashed(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	switch {
	case key.Matches(keyMsg, b.keys.Quit):
		return b, tea.Quit

	case key.Matches(keyMsg, b.keys.Retry):
		slog.Info("retrying after crash")
		b.state.report = nil
		return b, nil

	case key.Matches(keyMsg, b.keys.Home):
		slog.Info("going home after crash")
		b.state.report = nil
		if b.goHome != nil {
			b.goHome()
		}
		b.guard(func() { b.child = b.build() })
		if b.state.report != nil {
			return b, nil
		}
		var cmd tea.Cmd
		b.guard(func() { cmd = b.child.Init() })
		if b.width > 0 || b.height > 0 {
			size := tea.WindowSizeMsg{Width: b.width, Height: b.height}
			cmd = tea.Batch(cmd, func() tea.Msg { return size })
		}
		return b, cmd
	}

	return b, nil
}

func (b Boundary) View() string {
	if b.state.report == nil {
		var out string
		b.guard(func() { out = b.child.View() })
		if b.state.report == nil {
			return out
		}
	}
	return b.renderCrash()
}

// guard runs fn and records any panic it raises.
func (b Boundary) guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("%v", r)
			}
			stack := string(debug.Stack())
			slog.Error("recovered from panic", "error", err, "stack", stack)
			b.state.report = &crashReport{err: err, stack: stack}
		}
	}()
	fn()
}

func (b Boundary) renderCrash() string {
	r := b.state.report

	var sb strings.Builder
	sb.WriteString(healthBadStyle.Bold(true).Render("Something went wrong"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("The application encountered an unexpected error"))
	sb.WriteString("\n\n")
	sb.WriteString(panelTitleStyle.Render("Error Details:"))
	sb.WriteString("\n")
	sb.WriteString(r.err.Error())
	sb.WriteString("\n\n")
	sb.WriteString(panelTitleStyle.Render("Stack Trace"))
	sb.WriteString("\n")

	lines := strings.Split(strings.TrimSpace(r.stack), "\n")
	if len(lines) > maxStackLines {
		lines = append(lines[:maxStackLines], "...")
	}
	sb.WriteString(dimStyle.Render(strings.Join(lines, "\n")))
	sb.WriteString("\n\n")
	sb.WriteString("[r] Try Again  [h] Go Home  [q] Quit")

	dialog := crashStyle.Render(sb.String())
	if b.width == 0 || b.height == 0 {
		return dialog
	}
	return placeOverlay(b.width, b.height, dialog, "")
}
