package models

import (
	"testing"
	"time"
)

func TestParseTheme(t *testing.T) {
	tests := []struct {
		in     string
		want   Theme
		wantOK bool
	}{
		{"ORANGE", ThemeOrange, true},
		{"blue", ThemeBlue, true},
		{" Green ", ThemeGreen, true},
		{"YELLOW", ThemeYellow, true},
		{"PURPLE", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseTheme(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseTheme(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestThemeOrDefault(t *testing.T) {
	if got := ThemeOrDefault("PURPLE"); got != ThemeOrange {
		t.Errorf("ThemeOrDefault(PURPLE) = %q, want ORANGE", got)
	}
	if got := ThemeOrDefault("green"); got != ThemeGreen {
		t.Errorf("ThemeOrDefault(green) = %q, want GREEN", got)
	}
}

func TestHabitIsActive(t *testing.T) {
	now := time.Now()
	if !(Habit{}).IsActive() {
		t.Error("fresh habit should be active")
	}
	if (Habit{ArchivedAt: &now}).IsActive() {
		t.Error("archived habit should not be active")
	}
	if (Habit{DeletedAt: &now}).IsActive() {
		t.Error("deleted habit should not be active")
	}
}

func TestUserCanReceiveCalls(t *testing.T) {
	if (User{CallEnabled: true}).CanReceiveCalls() {
		t.Error("user without phone cannot receive calls")
	}
	if !(User{CallEnabled: true, Phone: "+15555550100"}).CanReceiveCalls() {
		t.Error("enabled user with phone should receive calls")
	}
}
