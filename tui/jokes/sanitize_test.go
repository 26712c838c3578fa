package jokes

import (
	"strings"
	"testing"
)

func TestSanitizeForTerminal_RemovesEscapesAndControls(t *testing.T) {
	in := "ok\x1b[31mred\x1b[0m\x1b]8;;http://x\x07bad\x01\x02"
	got := sanitizeForTerminal(in)
	if strings.Contains(got, "\x1b") {
		t.Fatalf("expected ansi removed: %q", got)
	}
	if strings.ContainsRune(got, '\x01') || strings.ContainsRune(got, '\x02') {
		t.Fatalf("expected controls removed: %q", got)
	}
	if !strings.Contains(got, "ok") || !strings.Contains(got, "red") {
		t.Fatalf("expected plain text preserved: %q", got)
	}
}

func TestSanitizeForTerminal_KeepsLineBreaks(t *testing.T) {
	got := sanitizeForTerminal("  first line\nsecond\tline\r  ")
	if got != "first line\nsecond\tline" {
		t.Fatalf("unexpected sanitized content: %q", got)
	}
}
