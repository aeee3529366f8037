package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nixlim/alert-top/internal/alerts"
)

func TestToggleSeverity(t *testing.T) {
	f := Filters{ManagerID: "E2", Scope: ScopeDirect}

	on := f.ToggleSeverity(alerts.SeverityHigh)
	assert.Equal(t, []alerts.Severity{alerts.SeverityHigh}, on.Severity)
	assert.Empty(t, f.Severity, "toggle must not mutate the receiver")

	both := on.ToggleSeverity(alerts.SeverityLow)
	assert.Equal(t, []alerts.Severity{alerts.SeverityHigh, alerts.SeverityLow}, both.Severity)

	off := both.ToggleSeverity(alerts.SeverityHigh)
	assert.Equal(t, []alerts.Severity{alerts.SeverityLow}, off.Severity)
	assert.Equal(t, []alerts.Severity{alerts.SeverityHigh, alerts.SeverityLow}, both.Severity)
}

func TestToggleStatus(t *testing.T) {
	f := Filters{}.ToggleStatus(alerts.StatusOpen).ToggleStatus(alerts.StatusDismissed)
	assert.True(t, f.HasStatus(alerts.StatusOpen))
	assert.True(t, f.HasStatus(alerts.StatusDismissed))

	f = f.ToggleStatus(alerts.StatusOpen)
	assert.False(t, f.HasStatus(alerts.StatusOpen))
	assert.Equal(t, []alerts.Status{alerts.StatusDismissed}, f.Status)
}

func TestEqual(t *testing.T) {
	a := Filters{ManagerID: "E2", Scope: ScopeDirect, Severity: []alerts.Severity{alerts.SeverityHigh}}
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.Q = "x"
	assert.False(t, a.Equal(b))

	c := a.ToggleSeverity(alerts.SeverityLow)
	assert.False(t, a.Equal(c))
}

func TestScopeLabel(t *testing.T) {
	assert.Equal(t, "direct reports", ScopeDirect.Label())
	assert.Equal(t, "full subtree", ScopeSubtree.Label())
	assert.Equal(t, "full subtree", Filters{Scope: ScopeSubtree}.ScopeLabel())
	assert.False(t, Scope("all").Valid())
}
