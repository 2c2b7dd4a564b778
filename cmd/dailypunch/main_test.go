package main

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestNeedsStore(t *testing.T) {
	tests := []struct {
		command string
		want    bool
	}{
		{"init", false},
		{"doctor", false},
		{"keyring set <name> <secret>", false},
		{"push keys", false},
		{"push notify", true},
		{"habit mark <habit>", true},
		{"tui", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			if got := needsStore(tt.command); got != tt.want {
				t.Errorf("needsStore(%q) = %v, want %v", tt.command, got, tt.want)
			}
		})
	}
}

func TestParseValidatesConfig(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "defaults", args: []string{"migrate"}},
		{name: "validate command", args: []string{"validate", "--json"}},
		{name: "zero threshold", args: []string{"--due-threshold-days=0", "migrate"}, wantErr: "due-threshold-days"},
		{name: "zero poll interval", args: []string{"--call-poll-interval=0s", "serve"}, wantErr: "call-poll-interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			var root CLI
			parser, err := kong.New(&root, append(options(), kong.Exit(func(int) { t.Fatal("unexpected exit") }))...)
			if err != nil {
				t.Fatalf("kong.New() error = %v", err)
			}
			_, err = parser.Parse(tt.args)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Parse() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
