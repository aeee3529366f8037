// Package filters defines the alert list filter state and its
// query-string representation.
package filters

import (
	"slices"

	"github.com/nixlim/alert-top/internal/alerts"
)

// Scope selects which part of the reporting chain alerts are drawn from.
type Scope string

const (
	ScopeDirect  Scope = "direct"
	ScopeSubtree Scope = "subtree"
)

// Valid reports whether s is a known scope.
func (s Scope) Valid() bool {
	return s == ScopeDirect || s == ScopeSubtree
}

// Label is the human-readable description of the scope.
func (s Scope) Label() string {
	if s == ScopeSubtree {
		return "full subtree"
	}
	return "direct reports"
}

// Filters is the complete filter state of the alert list. Empty Severity
// or Status means "all".
type Filters struct {
	ManagerID string
	Scope     Scope
	Severity  []alerts.Severity
	Status    []alerts.Status
	Q         string
}

// Clone returns a deep copy of f.
func (f Filters) Clone() Filters {
	f.Severity = slices.Clone(f.Severity)
	f.Status = slices.Clone(f.Status)
	return f
}

// Equal reports whether f and o describe the same filter state, including
// the order of the severity and status sets.
func (f Filters) Equal(o Filters) bool {
	return f.ManagerID == o.ManagerID &&
		f.Scope == o.Scope &&
		f.Q == o.Q &&
		slices.Equal(f.Severity, o.Severity) &&
		slices.Equal(f.Status, o.Status)
}

// ScopeLabel describes the scope for the page subtitle.
func (f Filters) ScopeLabel() string {
	return f.Scope.Label()
}

// HasSeverity reports whether s is in the severity set.
func (f Filters) HasSeverity(s alerts.Severity) bool {
	return slices.Contains(f.Severity, s)
}

// HasStatus reports whether s is in the status set.
func (f Filters) HasStatus(s alerts.Status) bool {
	return slices.Contains(f.Status, s)
}

// ToggleSeverity returns a copy of f with s added to the severity set if
// absent, or removed if present.
func (f Filters) ToggleSeverity(s alerts.Severity) Filters {
	out := f.Clone()
	out.Severity = toggle(out.Severity, s)
	return out
}

// ToggleStatus returns a copy of f with s added to the status set if
// absent, or removed if present.
func (f Filters) ToggleStatus(s alerts.Status) Filters {
	out := f.Clone()
	out.Status = toggle(out.Status, s)
	return out
}

func toggle[T comparable](set []T, v T) []T {
	if i := slices.Index(set, v); i >= 0 {
		return slices.Delete(set, i, i+1)
	}
	return append(set, v)
}
