package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nixlim/alert-top/internal/alerts"
	"github.com/nixlim/alert-top/internal/apiclient"
	"github.com/nixlim/alert-top/internal/config"
	"github.com/nixlim/alert-top/internal/filters"
	"github.com/nixlim/alert-top/internal/notify"
	"github.com/nixlim/alert-top/internal/storage"
)

var testAlerts = []alerts.Alert{
	{
		ID:        "A1",
		Employee:  alerts.Employee{ID: "E3", Name: "Jordan Lee"},
		Severity:  alerts.SeverityHigh,
		Category:  "retention",
		CreatedAt: "2025-09-01T09:00:00Z",
		Status:    alerts.StatusOpen,
	},
	{
		ID:        "A2",
		Employee:  alerts.Employee{ID: "E4", Name: "Casey Kim"},
		Severity:  alerts.SeverityMedium,
		Category:  "engagement",
		CreatedAt: "2025-09-02T09:00:00Z",
		Status:    alerts.StatusOpen,
	},
	{
		ID:        "A11",
		Employee:  alerts.Employee{ID: "E4", Name: "Casey Kim"},
		Severity:  alerts.SeverityHigh,
		Category:  "retention",
		CreatedAt: "2025-09-11T09:00:00Z",
		Status:    alerts.StatusOpen,
	},
}

// mockAPI serves testAlerts filtered by severity and status unless listFn
// or dismissFn override it.
type mockAPI struct {
	mu           sync.Mutex
	listCalls    []filters.Filters
	dismissCalls []string
	listFn       func(f filters.Filters) ([]alerts.Alert, error)
	dismissFn    func(id string) (alerts.Alert, error)
	health       apiclient.Health
	healthErr    error
}

func (m *mockAPI) ListAlerts(_ context.Context, f filters.Filters) ([]alerts.Alert, error) {
	m.mu.Lock()
	m.listCalls = append(m.listCalls, f.Clone())
	fn := m.listFn
	m.mu.Unlock()

	if fn != nil {
		return fn(f)
	}
	var out []alerts.Alert
	for _, a := range testAlerts {
		if len(f.Severity) > 0 && !f.HasSeverity(a.Severity) {
			continue
		}
		if len(f.Status) > 0 && !f.HasStatus(a.Status) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAPI) DismissAlert(_ context.Context, id string) (alerts.Alert, error) {
	m.mu.Lock()
	m.dismissCalls = append(m.dismissCalls, id)
	fn := m.dismissFn
	m.mu.Unlock()

	if fn != nil {
		return fn(id)
	}
	for _, a := range testAlerts {
		if a.ID == id {
			return a.WithStatus(alerts.StatusDismissed), nil
		}
	}
	return alerts.Alert{}, &apiclient.RequestFailedError{Op: "dismiss alert", StatusCode: 404, Message: "Alert not found"}
}

func (m *mockAPI) Health(_ context.Context) (apiclient.Health, error) {
	return m.health, m.healthErr
}

func (m *mockAPI) lastListCall(t *testing.T) filters.Filters {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.listCalls) == 0 {
		t.Fatal("expected at least one ListAlerts call")
	}
	return m.listCalls[len(m.listCalls)-1]
}

func (m *mockAPI) listCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listCalls)
}

type mockHistory struct {
	visits []storage.Visit
	err    error
}

func (h *mockHistory) Recent(_ context.Context, limit int) ([]storage.Visit, error) {
	if h.err != nil {
		return nil, h.err
	}
	if limit < len(h.visits) {
		return h.visits[:limit], nil
	}
	return h.visits, nil
}

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(n notify.Notice) {
	r.messages = append(r.messages, n.Message)
}

type fakeTick struct {
	d  time.Duration
	fn func(time.Time) tea.Msg
}

// fakeTicker records scheduled ticks instead of waiting for them.
type fakeTicker struct {
	ticks []fakeTick
}

func (f *fakeTicker) tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	f.ticks = append(f.ticks, fakeTick{d: d, fn: fn})
	return nil
}

func (f *fakeTicker) searchTicks() []fakeTick {
	var out []fakeTick
	for _, tk := range f.ticks {
		if _, ok := tk.fn(time.Time{}).(searchSettledMsg); ok {
			out = append(out, tk)
		}
	}
	return out
}

func (f *fakeTicker) toastTicks() []fakeTick {
	var out []fakeTick
	for _, tk := range f.ticks {
		if _, ok := tk.fn(time.Time{}).(toastExpiredMsg); ok {
			out = append(out, tk)
		}
	}
	return out
}

func defaultTestConfig() config.Config {
	return config.DefaultConfig()
}

var testNow = time.Date(2025, 9, 15, 10, 30, 0, 0, time.UTC)

func newTestModel(t *testing.T, api *mockAPI, opts ...ModelOption) (Model, *fakeTicker) {
	t.Helper()
	ft := &fakeTicker{}
	base := []ModelOption{
		WithAlertsAPI(api),
		withTick(ft.tick),
		withClock(func() time.Time { return testNow }),
	}
	m := NewModel(defaultTestConfig(), append(base, opts...)...)
	m.width = 120
	m.height = 60
	return m, ft
}

// loadedModel returns a model whose initial fetch has completed.
func loadedModel(t *testing.T, api *mockAPI, opts ...ModelOption) (Model, *fakeTicker) {
	t.Helper()
	m, ft := newTestModel(t, api, opts...)
	m = drain(t, m, m.Init())
	if m.initialLoading {
		t.Fatal("initial load did not complete")
	}
	return m, ft
}

// drain runs cmd and every command it produces, feeding each message to
// the model, until nothing is left.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatal("command queue did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, nc := m.Update(msg)
			m = next.(Model)
			queue = append(queue, nc)
		}
	}
	return m
}

// collectMsgs runs cmd and returns the messages it produces, unpacking
// batches.
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectMsgs(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// send delivers msg to the model and drains the resulting commands.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	return drain(t, next.(Model), cmd)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends a key without running the returned command.
func press(m Model, k string) (Model, tea.Cmd) {
	next, cmd := m.Update(keyMsg(k))
	return next.(Model), cmd
}

// pressAll sends each key and drains its commands.
func pressAll(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = send(t, m, keyMsg(k))
	}
	return m
}

// typeText types s into the focused input, one key per rune.
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func lineContaining(view, substr string) string {
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}

func alertByID(t *testing.T, list []alerts.Alert, id string) alerts.Alert {
	t.Helper()
	i := alerts.IndexOf(list, id)
	if i < 0 {
		t.Fatalf("alert %s not in list", id)
	}
	return list[i]
}
