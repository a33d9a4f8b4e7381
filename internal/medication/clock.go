package medication

import (
	"fmt"
	"time"
)

// ParseClock validates a 24h "HH:MM" time-of-day string and returns it
// normalized to two-digit fields.
func ParseClock(s string) (string, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Format("15:04"), nil
}

// Format12h renders a stored "HH:MM" clock as the 12-hour display form the
// checklist shows, e.g. "08:00" -> "8:00 AM".
func Format12h(clock string) string {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return clock
	}
	return t.Format("3:04 PM")
}
