package filters

import (
	"net/url"
	"slices"
	"strings"

	"github.com/google/go-querystring/query"

	"github.com/nixlim/alert-top/internal/alerts"
)

// DefaultManagerID is the manager shown when a location names none.
const DefaultManagerID = "E2"

// Query parameter names shared by the location and the backend API.
const (
	ParamManagerID = "manager_id"
	ParamScope     = "scope"
	ParamSeverity  = "severity"
	ParamStatus    = "status"
	ParamQuery     = "q"
)

// Codec maps Filters to and from query strings. It holds no state beyond
// its configuration, so Decode and Encode are pure.
type Codec struct {
	// FallbackManagerID is used when the manager_id parameter is absent.
	FallbackManagerID string
}

// NewCodec returns a codec with the given fallback manager. An empty
// fallback selects DefaultManagerID.
func NewCodec(fallbackManagerID string) Codec {
	if fallbackManagerID == "" {
		fallbackManagerID = DefaultManagerID
	}
	return Codec{FallbackManagerID: fallbackManagerID}
}

var defaultCodec = NewCodec(DefaultManagerID)

// Decode parses a query string using the default fallback manager.
func Decode(rawQuery string) Filters { return defaultCodec.Decode(rawQuery) }

// Encode renders filters as a query string.
func Encode(f Filters) string { return defaultCodec.Encode(f) }

// Default returns the filters an empty location decodes to.
func (c Codec) Default() Filters {
	return c.Decode("")
}

// Decode parses rawQuery (with or without a leading '?'). Malformed
// escapes are tolerated; whatever parsed cleanly is used. Severity and
// status values are case-insensitive; unknown and repeated values are
// dropped.
func (c Codec) Decode(rawQuery string) Filters {
	values, _ := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))

	f := Filters{
		ManagerID: values.Get(ParamManagerID),
		Scope:     Scope(values.Get(ParamScope)),
		Q:         values.Get(ParamQuery),
	}
	if f.ManagerID == "" {
		f.ManagerID = c.fallback()
	}
	if !f.Scope.Valid() {
		f.Scope = ScopeDirect
	}
	f.Severity = parseSet(values.Get(ParamSeverity), alerts.ParseSeverity)
	f.Status = parseSet(values.Get(ParamStatus), alerts.ParseStatus)
	return f
}

// parseSet splits a comma-joined list, drops values parse rejects and
// keeps the first occurrence of each, preserving order.
func parseSet[T comparable](raw string, parse func(string) (T, error)) []T {
	var out []T
	for _, part := range splitList(raw) {
		v, err := parse(part)
		if err != nil || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// wireParams is the go-querystring shape of Filters. Empty sets and a
// blank search are omitted.
type wireParams struct {
	ManagerID string   `url:"manager_id"`
	Scope     string   `url:"scope"`
	Severity  []string `url:"severity,comma,omitempty"`
	Status    []string `url:"status,comma,omitempty"`
	Q         string   `url:"q,omitempty"`
}

// Encode renders f as a query string. manager_id and scope are always
// present; severity, status and q only when non-empty. q is trimmed.
func (c Codec) Encode(f Filters) string {
	w := wireParams{
		ManagerID: f.ManagerID,
		Scope:     string(f.Scope),
		Q:         strings.TrimSpace(f.Q),
	}
	for _, s := range f.Severity {
		w.Severity = append(w.Severity, string(s))
	}
	for _, s := range f.Status {
		w.Status = append(w.Status, string(s))
	}

	// query.Values only fails for non-struct input.
	v, _ := query.Values(w)
	return v.Encode()
}

func (c Codec) fallback() string {
	if c.FallbackManagerID == "" {
		return DefaultManagerID
	}
	return c.FallbackManagerID
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
