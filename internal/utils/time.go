package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/dailypunch/internal/constants"
)

// LoadLocation loads an IANA timezone. Empty and "Local" mean the system zone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// InTimezone converts t into the named timezone.
func InTimezone(t time.Time, timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return t.In(loc), nil
}

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}

// ClockInTimezone returns the HH:MM wall clock reading of t in timezone.
func ClockInTimezone(t time.Time, timezone string) (string, error) {
	local, err := InTimezone(t, timezone)
	if err != nil {
		return "", err
	}
	return local.Format(constants.TimeFormat), nil
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := ParseTime(timeStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
