//go:build darwin

package notify

import "testing"

func TestEscapeAppleScript(t *testing.T) {
	escaped := escapeAppleScript(`He said "hello" and \n stuff`)
	expected := `He said \"hello\" and \\n stuff`
	if escaped != expected {
		t.Errorf("escapeAppleScript: expected %q, got %q", expected, escaped)
	}

	if !NewOSAScriptNotifier(true).enabled {
		t.Error("expected notifier to be enabled")
	}
	if NewOSAScriptNotifier(false).enabled {
		t.Error("expected notifier to be disabled")
	}
}
