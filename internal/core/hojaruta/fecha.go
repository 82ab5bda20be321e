package hojaruta

import (
	"strings"
	"time"
)

// DisplayLayout is the day/month/year layout used on printed slips.
const DisplayLayout = "02/01/2006"

var fallbackLayouts = []string{
	time.RFC3339,
	time.RFC1123,
	time.RFC1123Z,
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// FormatDate renders a date string as DD/MM/YYYY.
//
// Anything after a 'T' is dropped and a YYYY-MM-DD value is reordered as plain
// text, so no time zone can shift the day. Other shapes go through a parse
// fallback; values that still cannot be read are returned unchanged.
func FormatDate(raw string) string {
	if raw == "" {
		return ""
	}

	datePart := raw
	if i := strings.Index(datePart, "T"); i >= 0 {
		datePart = datePart[:i]
	}

	parts := strings.Split(datePart, "-")
	if len(parts) == 3 && parts[0] != "" && parts[1] != "" && parts[2] != "" {
		return parts[2] + "/" + parts[1] + "/" + parts[0]
	}

	if t, ok := parseFallback(raw); ok {
		return t.Format(DisplayLayout)
	}
	return raw
}

func parseFallback(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDay reads the calendar day of a date string, ignoring any time
// component. The result is midnight UTC of that day.
func ParseDay(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	datePart := raw
	if i := strings.Index(datePart, "T"); i >= 0 {
		datePart = datePart[:i]
	}
	if t, err := time.Parse(time.DateOnly, datePart); err == nil {
		return t, true
	}
	t, ok := parseFallback(raw)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}
