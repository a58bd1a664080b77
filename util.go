package main

import (
	"fmt"
	"time"

	"lexical/internal/logging"
)

// formatUptime returns a human-readable string for a duration.
func formatUptime(d time.Duration) string {
	seconds := int(d.Seconds()) % 60
	minutes := int(d.Minutes()) % 60
	hours := int(d.Hours())
	switch {
	case hours > 0:
		return fmt.Sprintf("%d hour%s, %d minute%s, %d second%s",
			hours, plural(hours),
			minutes, plural(minutes),
			seconds, plural(seconds))
	case minutes > 0:
		return fmt.Sprintf("%d minute%s, %d second%s",
			minutes, plural(minutes),
			seconds, plural(seconds))
	default:
		return fmt.Sprintf("%d second%s", seconds, plural(seconds))
	}
}

// plural returns "s" if n != 1, otherwise "".
func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// wholeSeconds truncates d to whole seconds, as the game timer shows it.
func wholeSeconds(d time.Duration) int {
	return int(d / time.Second)
}

func logInfo(format string, v ...any) {
	logging.Info(format, v...)
}

func logWarn(format string, v ...any) {
	logging.Warn(format, v...)
}

func logFatal(format string, v ...any) {
	logging.Fatal(format, v...)
}
