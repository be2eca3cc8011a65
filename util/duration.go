// Package util provides a collection of domain-agnostic utility functions and cross-platform helpers.
package util

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration for human consumption as "m:ss".
// Hours fold into the minute count, matching track-length conventions.
func FormatDuration(d time.Duration) string {
	minutes := int(d.Seconds()) / 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
