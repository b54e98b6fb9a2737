// Package timeutil parses and renders the short durations used when listing
// history records, such as "90s", "1h30m" or "2d".
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

var (
	segment = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	units   = map[string]time.Duration{
		"s":     time.Second,
		"sec":   time.Second,
		"secs":  time.Second,
		"m":     time.Minute,
		"min":   time.Minute,
		"mins":  time.Minute,
		"h":     time.Hour,
		"hr":    time.Hour,
		"hrs":   time.Hour,
		"hour":  time.Hour,
		"hours": time.Hour,
		"d":     day,
		"day":   day,
		"days":  day,
		"w":     7 * day,
		"week":  7 * day,
		"weeks": 7 * day,
	}
)

// ParseWindow parses a compact duration such as "10m" or "1d12h".
func ParseWindow(input string) (time.Duration, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	if remaining == "" {
		return 0, fmt.Errorf("empty duration")
	}
	var total time.Duration
	for len(strings.TrimSpace(remaining)) > 0 {
		m := segment.FindStringSubmatch(remaining)
		if len(m) != 3 {
			return 0, fmt.Errorf("invalid duration segment %q", strings.TrimSpace(remaining))
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration value %q: %w", m[1], err)
		}
		unit, ok := units[m[2]]
		if !ok {
			return 0, fmt.Errorf("unsupported duration unit %q", m[2])
		}
		total += time.Duration(n) * unit
		remaining = remaining[len(m[0]):]
	}
	if total <= 0 {
		return 0, fmt.Errorf("duration must be greater than zero")
	}
	return total, nil
}

// Format renders d with the two most significant of the w/d/h/m/s units.
func Format(d time.Duration) string {
	steps := []struct {
		label string
		value time.Duration
	}{
		{"w", 7 * day},
		{"d", day},
		{"h", time.Hour},
		{"m", time.Minute},
		{"s", time.Second},
	}
	var parts []string
	for _, u := range steps {
		if d < u.value {
			if len(parts) > 0 {
				break
			}
			continue
		}
		n := d / u.value
		d -= n * u.value
		parts = append(parts, fmt.Sprintf("%d%s", n, u.label))
		if len(parts) == 2 {
			break
		}
	}
	if len(parts) == 0 {
		return "0s"
	}
	return strings.Join(parts, "")
}

// Age renders how long before now a unix-millisecond timestamp lies. Zero or
// future timestamps render as "now".
func Age(ms int64, now time.Time) string {
	if ms <= 0 {
		return "now"
	}
	d := now.Sub(time.UnixMilli(ms))
	if d < time.Second {
		return "now"
	}
	return Format(d) + " ago"
}

// Within reports whether a unix-millisecond timestamp lies inside the window
// ending at now.
func Within(ms int64, window time.Duration, now time.Time) bool {
	return !time.UnixMilli(ms).Before(now.Add(-window))
}
