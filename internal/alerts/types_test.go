package alerts

import (
	"testing"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Severity
		wantErr bool
	}{
		{name: "lowercase", input: "high", want: SeverityHigh},
		{name: "mixed case with space", input: " Medium ", want: SeverityMedium},
		{name: "low", input: "low", want: SeverityLow},
		{name: "unknown", input: "critical", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSeverity(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseSeverity(%q) expected error, got %q", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSeverity(%q) unexpected error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseSeverity(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	if got, err := ParseStatus("DISMISSED"); err != nil || got != StatusDismissed {
		t.Errorf("ParseStatus(DISMISSED) = %q, %v; want dismissed", got, err)
	}
	if _, err := ParseStatus("closed"); err == nil {
		t.Error("ParseStatus(closed) should fail")
	}
}

func TestAlertCreatedTime(t *testing.T) {
	a := Alert{ID: "A1", CreatedAt: "2025-09-01T09:00:00Z"}
	got, err := a.CreatedTime()
	if err != nil {
		t.Fatalf("CreatedTime: %v", err)
	}
	if got.Year() != 2025 || got.Month() != 9 || got.Day() != 1 {
		t.Errorf("CreatedTime = %v, want 2025-09-01", got)
	}

	bad := Alert{ID: "A2", CreatedAt: "yesterday"}
	if _, err := bad.CreatedTime(); err == nil {
		t.Error("CreatedTime should fail for a non-RFC3339 value")
	}
}

func TestCloneListIsIndependent(t *testing.T) {
	orig := []Alert{{ID: "A1", Status: StatusOpen}, {ID: "A2", Status: StatusOpen}}
	cp := CloneList(orig)
	cp[0].Status = StatusDismissed

	if orig[0].Status != StatusOpen {
		t.Error("mutating the clone changed the original")
	}
	if CloneList(nil) != nil {
		t.Error("CloneList(nil) should be nil")
	}
}

func TestIndexOf(t *testing.T) {
	list := []Alert{{ID: "A1"}, {ID: "A2"}, {ID: "A11"}}
	if got := IndexOf(list, "A11"); got != 2 {
		t.Errorf("IndexOf(A11) = %d, want 2", got)
	}
	if got := IndexOf(list, "A3"); got != -1 {
		t.Errorf("IndexOf(A3) = %d, want -1", got)
	}
}

func TestDismissedAndWithStatus(t *testing.T) {
	a := Alert{ID: "A1", Status: StatusOpen}
	if a.Dismissed() {
		t.Error("open alert reported as dismissed")
	}
	d := a.WithStatus(StatusDismissed)
	if !d.Dismissed() {
		t.Error("WithStatus(dismissed) not dismissed")
	}
	if a.Dismissed() {
		t.Error("WithStatus mutated the receiver")
	}
}
