package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickFunc schedules a message after d. tea.Tick in production; tests
// substitute a recorder so time never has to pass.
type tickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// searchSettledMsg fires when the search box has been idle for the
// debounce delay. Only the message carrying the latest seq is acted on.
type searchSettledMsg struct {
	seq uint64
}

// Debouncer collapses bursts of keystrokes into a single emission. Every
// Trigger supersedes the previous one.
type Debouncer struct {
	delay time.Duration
	seq   uint64
	tick  tickFunc
}

func NewDebouncer(delay time.Duration, tick tickFunc) Debouncer {
	if tick == nil {
		tick = tea.Tick
	}
	return Debouncer{delay: delay, tick: tick}
}

// Trigger restarts the timer.
func (d *Debouncer) Trigger() tea.Cmd {
	d.seq++
	seq := d.seq
	return d.tick(d.delay, func(time.Time) tea.Msg {
		return searchSettledMsg{seq: seq}
	})
}

// Settled reports whether msg belongs to the most recent Trigger.
func (d Debouncer) Settled(msg searchSettledMsg) bool {
	return msg.seq == d.seq
}

// Cancel invalidates any pending timer.
func (d *Debouncer) Cancel() {
	d.seq++
}
