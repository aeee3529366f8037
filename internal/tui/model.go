package tui

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nixlim/alert-top/internal/alerts"
	"github.com/nixlim/alert-top/internal/apiclient"
	"github.com/nixlim/alert-top/internal/config"
	"github.com/nixlim/alert-top/internal/filters"
	"github.com/nixlim/alert-top/internal/nav"
	"github.com/nixlim/alert-top/internal/notify"
	"github.com/nixlim/alert-top/internal/speculative"
	"github.com/nixlim/alert-top/internal/storage"
)

type overlayKind int

const (
	overlayNone overlayKind = iota
	overlayRecent
	overlayNotices
)

// Model is the alerts page. The location store is the source of truth
// for the active filters; the model re-derives them after every change.
type Model struct {
	width    int
	height   int
	keys     KeyMap
	help     help.Model
	quitting bool

	cfg config.Config

	api      AlertsAPI
	history  HistoryProvider
	nav      *nav.Store
	codec    filters.Codec
	notifier notify.Notifier
	notices  *notify.Log
	tick     tickFunc
	now      func() time.Time

	filters        filters.Filters
	list           *speculative.Ledger[[]alerts.Alert]
	inflight       map[string]speculative.Token
	initialLoading bool
	refetching     bool
	fetchGen       uint64
	cursor         int

	form        filterForm
	showFilters bool

	toasts        []notify.Notice
	nextNoticeID  uint64
	toastDuration time.Duration

	health     *apiclient.Health
	healthErr  error
	persistent bool

	overlay      overlayKind
	recent       []storage.Visit
	recentErr    error
	recentLoaded bool
	recentCursor int

	requestTimeout time.Duration
	onShutdown     func()
}

type ModelOption func(*Model)

// NewModel builds the page for the location currently held by the store
// passed with WithLocationStore. Without one the page starts at the
// default filters.
func NewModel(cfg config.Config, opts ...ModelOption) Model {
	m := Model{
		keys:           DefaultKeyMap(),
		help:           help.New(),
		cfg:            cfg,
		codec:          filters.NewCodec(cfg.Filters.DefaultManagerID),
		tick:           tea.Tick,
		now:            time.Now,
		inflight:       make(map[string]speculative.Token),
		initialLoading: true,
		toastDuration:  time.Duration(cfg.Display.ToastDurationMS) * time.Millisecond,
		requestTimeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		persistent:     true,
	}

	for _, opt := range opts {
		opt(&m)
	}

	if m.nav == nil {
		m.nav = nav.NewStore(m.codec.Encode(m.codec.Default()))
	}
	if m.notices == nil {
		m.notices = notify.NewLog(cfg.Display.NotificationLogSize)
	}

	m.filters = m.codec.Decode(m.nav.Current())
	m.list = speculative.NewLedger([]alerts.Alert{})
	m.form = newFilterForm(m.keys, m.filters, m.codec.FallbackManagerID,
		time.Duration(cfg.Filters.SearchDebounceMS)*time.Millisecond, m.tick)
	if m.api != nil {
		m.fetchGen = 1
	} else {
		m.initialLoading = false
	}

	return m
}

func WithAlertsAPI(api AlertsAPI) ModelOption {
	return func(m *Model) { m.api = api }
}

func WithHistoryProvider(h HistoryProvider) ModelOption {
	return func(m *Model) { m.history = h }
}

func WithLocationStore(s *nav.Store) ModelOption {
	return func(m *Model) { m.nav = s }
}

func WithNotifier(n notify.Notifier) ModelOption {
	return func(m *Model) { m.notifier = n }
}

func WithNotificationLog(l *notify.Log) ModelOption {
	return func(m *Model) { m.notices = l }
}

func WithPersistenceFlag(isPersistent bool) ModelOption {
	return func(m *Model) { m.persistent = isPersistent }
}

func WithShowFilters(show bool) ModelOption {
	return func(m *Model) { m.showFilters = show }
}

func WithOnShutdown(fn func()) ModelOption {
	return func(m *Model) { m.onShutdown = fn }
}

func withTick(fn tickFunc) ModelOption {
	return func(m *Model) { m.tick = fn }
}

func withClock(fn func() time.Time) ModelOption {
	return func(m *Model) { m.now = fn }
}

func (m Model) Init() tea.Cmd {
	if m.api == nil {
		return nil
	}
	return tea.Batch(
		fetchCmd(m.api, m.requestTimeout, m.fetchGen, m.filters),
		healthCmd(m.api, m.requestTimeout),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case alertsLoadedMsg:
		cmd := m.handleAlertsLoaded(msg)
		return m, cmd

	case dismissResultMsg:
		cmd := m.handleDismissResult(msg)
		return m, cmd

	case healthMsg:
		if msg.err != nil {
			m.health = nil
			m.healthErr = msg.err
			slog.Warn("backend health check failed", "error", msg.err)
		} else {
			h := msg.health
			m.health = &h
			m.healthErr = nil
		}
		return m, nil

	case recentViewsMsg:
		m.recent = msg.visits
		m.recentErr = msg.err
		m.recentLoaded = true
		m.recentCursor = 0
		return m, nil

	case searchSettledMsg:
		next, emit := m.form.settle(msg)
		if !emit {
			return m, nil
		}
		cmd := m.navigate(next)
		return m, cmd

	case toastExpiredMsg:
		m.expireToast(msg.id)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	if m.overlay != overlayNone {
		return m.handleOverlayKey(msg)
	}

	if m.form.focused {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.list.Value())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		cmd := m.dismiss()
		return m, cmd

	case key.Matches(msg, m.keys.Filters):
		m.showFilters = !m.showFilters
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		m.showFilters = true
		m.form.focus()
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.nav.Back() {
			slog.Debug("navigated back", "location", m.nav.Current())
		}
		cmd := m.syncLocation()
		return m, cmd

	case key.Matches(msg, m.keys.Forward):
		if m.nav.Forward() {
			slog.Debug("navigated forward", "location", m.nav.Current())
		}
		cmd := m.syncLocation()
		return m, cmd

	case key.Matches(msg, m.keys.Reload):
		cmds := []tea.Cmd{m.startFetch()}
		if m.api != nil {
			cmds = append(cmds, healthCmd(m.api, m.requestTimeout))
		}
		return m, tea.Batch(cmds...)

	case key.Matches(msg, m.keys.Recent):
		m.overlay = overlayRecent
		m.recent = nil
		m.recentErr = nil
		m.recentLoaded = false
		m.recentCursor = 0
		if m.history == nil {
			return m, nil
		}
		return m, recentViewsCmd(m.history, m.requestTimeout)

	case key.Matches(msg, m.keys.Notices):
		m.overlay = overlayNotices
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) {
		m.form.blur()
		return m, nil
	}

	next, emit, cmd := m.form.update(msg)
	if !emit {
		return m, cmd
	}
	navCmd := m.navigate(next)
	return m, tea.Batch(cmd, navCmd)
}

func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		m.overlay = overlayNone
		return m, nil
	}

	if m.overlay != overlayRecent {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.recentCursor > 0 {
			m.recentCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.recentCursor < len(m.recent)-1 {
			m.recentCursor++
		}
	case key.Matches(msg, m.keys.Enter):
		if m.recentCursor >= 0 && m.recentCursor < len(m.recent) {
			loc := m.recent[m.recentCursor].Location
			m.overlay = overlayNone
			m.nav.Navigate(loc)
			slog.Debug("opened recent view", "location", loc)
			cmd := m.syncLocation()
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.onShutdown != nil {
		m.onShutdown()
	}
	return m, tea.Quit
}

func (m *Model) clampCursor() {
	n := len(m.list.Value())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Alerts returns the list as currently displayed.
func (m Model) Alerts() []alerts.Alert {
	return m.list.Value()
}

// Filters returns the active filters.
func (m Model) Filters() filters.Filters {
	return m.filters.Clone()
}

func (m Model) headerIndicators() string {
	var parts []string
	switch {
	case m.health != nil && m.health.Healthy():
		parts = append(parts, healthOKStyle.Render("● API ok"))
	case m.health != nil:
		parts = append(parts, healthBadStyle.Render("● API "+m.health.Status))
	case m.healthErr != nil:
		parts = append(parts, healthBadStyle.Render("● API unreachable"))
	}
	if !m.persistent {
		parts = append(parts, dimStyle.Render("[No persistence]"))
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var output string
	if m.initialLoading {
		output = m.renderSkeleton()
	} else {
		output = m.renderPage()
	}

	switch m.overlay {
	case overlayRecent:
		output = m.overlayRecentViews(output)
	case overlayNotices:
		output = m.overlayNoticeLog(output)
	}

	if m.height > 0 {
		lines := strings.Split(output, "\n")
		if len(lines) > m.height {
			lines = lines[:m.height]
			output = strings.Join(lines, "\n")
		}
	}

	return output
}
