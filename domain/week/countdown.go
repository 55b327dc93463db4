package week

import (
	"fmt"
	"time"
)

// Remaining is the time left until the next boundary
func Remaining(now time.Time) time.Duration {
	return NextBoundary(now).Sub(now)
}

// FormatRemaining renders d as DD:HH:MM:SS, all zeros once d is not positive
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "00:00:00:00"
	}
	secs := int64(d / time.Second)
	days := secs / 86400
	hours := secs % 86400 / 3600
	minutes := secs % 3600 / 60
	seconds := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", days, hours, minutes, seconds)
}

// FormatBoundary renders an instant as YYYY.MM.DD HH:MM in Zone
func FormatBoundary(t time.Time) string {
	return t.In(Zone).Format("2006.01.02 15:04")
}
