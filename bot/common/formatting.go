package common

import (
	"fmt"
	"time"
)

// FormatCooldown renders a wait as "4m 05s", or "12s" under a minute.
// Partial seconds round up so a user is never told to wait 0s.
func FormatCooldown(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	total := int((d + time.Second - 1) / time.Second)
	minutes := total / 60
	seconds := total % 60
	if minutes > 0 {
		return fmt.Sprintf("%dm %02ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// FormatMinutes renders a whole-minute duration like "5 minutes"
func FormatMinutes(d time.Duration) string {
	minutes := int(d / time.Minute)
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

// FormatCardID wraps a card ID in inline code
func FormatCardID(cardID string) string {
	return "`" + cardID + "`"
}

// FormatDate renders a collection date
func FormatDate(t time.Time) string {
	return t.UTC().Format("Jan 2, 2006")
}

// FormatRelativeTimestamp renders a Discord relative timestamp tag
func FormatRelativeTimestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

// Pluralize returns "1 card" or "n cards"
func Pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// ValueOr returns fallback when value is empty
func ValueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
