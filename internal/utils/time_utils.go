package utils

import (
	"fmt"
	"time"
)

// ClockLayout is how activity log timestamps are displayed
const ClockLayout = "15:04:05"

var displayLoc = time.UTC

// SetLocation sets the timezone used for displayed timestamps.
// Call it once at startup, before serving requests.
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// In production docker, ensure tzdata is installed
		return fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	displayLoc = loc
	return nil
}

// GetLocation returns the display *time.Location
func GetLocation() *time.Location {
	return displayLoc
}

// FormatClock renders t as a wall clock time in the display timezone
func FormatClock(t time.Time) string {
	return t.In(displayLoc).Format(ClockLayout)
}
