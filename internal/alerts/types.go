package alerts

import (
	"fmt"
	"strings"
	"time"
)

// Severity of an alert as reported by the backend.
type Severity string

// Alert severity constants.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Severities lists every severity in display order (most severe first).
func Severities() []Severity {
	return []Severity{SeverityHigh, SeverityMedium, SeverityLow}
}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// ParseSeverity parses a severity name, ignoring case and surrounding space.
func ParseSeverity(v string) (Severity, error) {
	s := Severity(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("invalid severity %q", v)
	}
	return s, nil
}

// Status is the lifecycle state of an alert.
type Status string

// Alert status constants.
const (
	StatusOpen      Status = "open"
	StatusDismissed Status = "dismissed"
)

// Statuses lists every status in display order.
func Statuses() []Status {
	return []Status{StatusOpen, StatusDismissed}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusOpen || s == StatusDismissed
}

// ParseStatus parses a status name, ignoring case and surrounding space.
func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("invalid status %q", v)
	}
	return s, nil
}

// Employee is the person an alert is about.
type Employee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Alert is a flagged condition about an employee that needs a manager's
// attention. Alerts are created server-side; the client only ever changes
// Status.
type Alert struct {
	ID        string   `json:"id"`
	Employee  Employee `json:"employee"`
	Severity  Severity `json:"severity"`
	Category  string   `json:"category"`
	CreatedAt string   `json:"created_at"`
	Status    Status   `json:"status"`
}

// Dismissed reports whether the alert has been dismissed.
func (a Alert) Dismissed() bool {
	return a.Status == StatusDismissed
}

// CreatedTime parses CreatedAt as an RFC 3339 timestamp.
func (a Alert) CreatedTime() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, a.CreatedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing created_at of alert %s: %w", a.ID, err)
	}
	return t, nil
}

// WithStatus returns a copy of the alert with its status replaced.
func (a Alert) WithStatus(s Status) Alert {
	a.Status = s
	return a
}

// CloneList returns a shallow copy of list. Alert holds no reference
// types, so the copy shares nothing with the original.
func CloneList(list []Alert) []Alert {
	if list == nil {
		return nil
	}
	out := make([]Alert, len(list))
	copy(out, list)
	return out
}

// IndexOf returns the index of the alert with the given ID, or -1.
func IndexOf(list []Alert, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
