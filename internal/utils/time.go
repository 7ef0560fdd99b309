package utils

import (
	"strings"
	"time"
)

const (
	layoutClock        = "15:04"
	layoutClockSeconds = "15:04:05"
)

// ParseClock accepts "HH:MM" or "HH:MM:SS" and returns the 24-hour "HH:MM"
// form. Blank input returns "" with no error.
func ParseClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	t, err := time.Parse(layoutClock, s)
	if err != nil {
		var errSec error
		t, errSec = time.Parse(layoutClockSeconds, s)
		if errSec != nil {
			return "", err
		}
	}
	return t.Format(layoutClock), nil
}

// ClockHM trims a stored time value ("08:30:00") to "08:30".
func ClockHM(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 5 {
		return v[:5]
	}
	return v
}
