package models

import (
	"fmt"
	"strings"
	"time"
)

const dateOnly = "2006-01-02"

// ParseCalendarDate accepts "2006-01-02" or an RFC 3339 timestamp and returns midnight UTC of
// the calendar date as written, so the stored value never shifts across a day boundary.
func ParseCalendarDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateOnly, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return CalendarDate(t), nil
}

// ParseInstant accepts an RFC 3339 timestamp or a bare date (midnight UTC).
func ParseInstant(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", raw, err)
	}
	return t, nil
}
