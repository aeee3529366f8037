package tui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nixlim/alert-top/internal/alerts"
	"github.com/nixlim/alert-top/internal/apiclient"
	"github.com/nixlim/alert-top/internal/filters"
	"github.com/nixlim/alert-top/internal/notify"
	"github.com/nixlim/alert-top/internal/speculative"
	"github.com/nixlim/alert-top/internal/storage"
)

// AlertsAPI is the backend the page talks to.
type AlertsAPI interface {
	ListAlerts(ctx context.Context, f filters.Filters) ([]alerts.Alert, error)
	DismissAlert(ctx context.Context, alertID string) (alerts.Alert, error)
	Health(ctx context.Context) (apiclient.Health, error)
}

// HistoryProvider lists previously visited locations.
type HistoryProvider interface {
	Recent(ctx context.Context, limit int) ([]storage.Visit, error)
}

type alertsLoadedMsg struct {
	gen    uint64
	alerts []alerts.Alert
	err    error
}

type dismissResultMsg struct {
	token speculative.Token
	id    string
	alert alerts.Alert
	err   error
}

type healthMsg struct {
	health apiclient.Health
	err    error
}

type recentViewsMsg struct {
	visits []storage.Visit
	err    error
}

const (
	fetchFailedMessage   = "Failed to fetch alerts"
	dismissFailedMessage = "Failed to dismiss alert"
	recentViewsLimit     = 10
)

func fetchCmd(api AlertsAPI, timeout time.Duration, gen uint64, f filters.Filters) tea.Cmd {
	f = f.Clone()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		list, err := api.ListAlerts(ctx, f)
		return alertsLoadedMsg{gen: gen, alerts: list, err: err}
	}
}

func dismissCmd(api AlertsAPI, timeout time.Duration, tok speculative.Token, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		a, err := api.DismissAlert(ctx, id)
		return dismissResultMsg{token: tok, id: id, alert: a, err: err}
	}
}

func healthCmd(api AlertsAPI, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		h, err := api.Health(ctx)
		return healthMsg{health: h, err: err}
	}
}

func recentViewsCmd(h HistoryProvider, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		visits, err := h.Recent(ctx, recentViewsLimit)
		return recentViewsMsg{visits: visits, err: err}
	}
}

// syncLocation re-derives the filters from the location store and starts
// a fetch when they changed. It is idempotent.
func (m *Model) syncLocation() tea.Cmd {
	f := m.codec.Decode(m.nav.Current())
	if f.Equal(m.filters) {
		return nil
	}
	m.filters = f
	m.form.setExternal(f)
	return m.startFetch()
}

// navigate writes f to the location store. It is the only path by which
// the filter form changes the active filters.
func (m *Model) navigate(f filters.Filters) tea.Cmd {
	loc := m.codec.Encode(f)
	if m.nav.Navigate(loc) {
		slog.Debug("navigated", "location", loc)
	}
	return m.syncLocation()
}

// startFetch issues a list request for the current filters. Responses to
// earlier requests are discarded when they arrive.
func (m *Model) startFetch() tea.Cmd {
	if m.api == nil {
		return nil
	}
	m.fetchGen++
	if !m.initialLoading {
		m.refetching = true
	}
	slog.Debug("fetching alerts", "gen", m.fetchGen, "location", m.codec.Encode(m.filters))
	return fetchCmd(m.api, m.requestTimeout, m.fetchGen, m.filters)
}

func (m *Model) handleAlertsLoaded(msg alertsLoadedMsg) tea.Cmd {
	if msg.gen != m.fetchGen {
		slog.Debug("dropping stale alerts response", "gen", msg.gen, "current", m.fetchGen)
		return nil
	}

	m.initialLoading = false
	m.refetching = false

	if msg.err != nil {
		slog.Warn("fetching alerts failed", "status", apiclient.StatusCode(msg.err), "error", msg.err)
		return m.pushNotice(notify.LevelError, errorMessage(msg.err, fetchFailedMessage))
	}

	list := msg.alerts
	if list == nil {
		list = []alerts.Alert{}
	}
	m.list.Reset(list)
	m.clampCursor()
	slog.Debug("alerts loaded", "gen", msg.gen, "count", len(list), "pending_dismissals", m.list.Pending())
	return nil
}

// dismiss marks the selected alert dismissed ahead of the server and
// issues the request. The row's action is disabled while in flight.
func (m *Model) dismiss() tea.Cmd {
	list := m.list.Value()
	if m.api == nil || m.cursor < 0 || m.cursor >= len(list) {
		return nil
	}
	a := list[m.cursor]
	if a.Dismissed() {
		return nil
	}
	if _, busy := m.inflight[a.ID]; busy {
		return nil
	}

	tok := m.list.Apply(setStatus(a.ID, alerts.StatusDismissed))
	m.inflight[a.ID] = tok
	slog.Debug("dismissing alert", "id", a.ID, "pending", m.list.Pending())
	return dismissCmd(m.api, m.requestTimeout, tok, a.ID)
}

func (m *Model) handleDismissResult(msg dismissResultMsg) tea.Cmd {
	delete(m.inflight, msg.id)

	if msg.err != nil {
		m.list.Rollback(msg.token)
		slog.Warn("dismissing alert failed, rolled back", "id", msg.id, "status", apiclient.StatusCode(msg.err), "error", msg.err)
		return m.pushNotice(notify.LevelError, errorMessage(msg.err, dismissFailedMessage))
	}

	confirmed := setStatus(msg.id, alerts.StatusDismissed)
	if msg.alert.ID == msg.id {
		confirmed = replaceAlert(msg.alert)
	}
	m.list.Commit(msg.token, confirmed)
	slog.Info("alert dismissed", "id", msg.id)
	return m.pushNotice(notify.LevelSuccess, "Alert dismissed")
}

func setStatus(id string, s alerts.Status) speculative.Mutation[[]alerts.Alert] {
	return func(list []alerts.Alert) []alerts.Alert {
		i := alerts.IndexOf(list, id)
		if i < 0 {
			return list
		}
		out := alerts.CloneList(list)
		out[i] = out[i].WithStatus(s)
		return out
	}
}

func replaceAlert(a alerts.Alert) speculative.Mutation[[]alerts.Alert] {
	return func(list []alerts.Alert) []alerts.Alert {
		i := alerts.IndexOf(list, a.ID)
		if i < 0 {
			return list
		}
		out := alerts.CloneList(list)
		out[i] = a
		return out
	}
}

func errorMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
