package ai

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "last three days", "last three days"},
		{"quotes", `say "yesterday"`, "say yesterday"},
		{"backslash", `mon\day`, "monday"},
		{"control chars", "today\x00\x07", "today"},
		{"newline and tab", "last\nweek\t", "lastweek"},
		{"c1 control", "mon\u0085day", "monday"},
		{"non-ascii dropped", "café today", "caf today"},
		{"unicode space kept", "next\u2003week", "next\u2003week"},
		{"trimmed", "   tomorrow  ", "tomorrow"},
		{"only junk", "\"\\\x01", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
