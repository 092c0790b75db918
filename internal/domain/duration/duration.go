// Package duration converts between ISO 8601 style duration tokens, seconds
// and the human readable forms shown to users.
package duration

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// pattern is matched anywhere in the input, so "xPT5Sx" still decodes.
var pattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

const (
	secondsPerHour   = 3600
	secondsPerMinute = 60
)

// Decode converts a token such as "PT1H2M3S" into seconds.
// Missing components count as zero and input that does not match decodes to 0.
// The result is never negative: a total that does not fit in int64 decodes to 0.
func Decode(encoding string) int64 {
	match := pattern.FindStringSubmatch(encoding)
	if match == nil {
		return 0
	}
	hours := component(match[1], secondsPerHour)
	minutes := component(match[2], secondsPerMinute)
	seconds := component(match[3], 1)

	total, ok := Add(hours, minutes)
	if !ok {
		return 0
	}
	total, ok = Add(total, seconds)
	if !ok {
		return 0
	}
	return total
}

// component parses one captured group into seconds, treating absent values and
// values whose seconds overflow int64 as 0.
func component(s string, unit int64) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v > math.MaxInt64/unit {
		return 0
	}
	return v * unit
}

// Add sums two non-negative second counts and reports false on overflow.
func Add(a, b int64) (int64, bool) {
	if a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

// split breaks seconds into hours, minutes and seconds.
func split(seconds int64) (int64, int64, int64) {
	if seconds < 0 {
		seconds = 0
	}
	return seconds / secondsPerHour, (seconds % secondsPerHour) / secondsPerMinute, seconds % secondsPerMinute
}

// Encode renders seconds in the long form, e.g. "1 hours 2 minutes 3 seconds".
// Zero components are kept.
func Encode(seconds int64) string {
	h, m, s := split(seconds)
	return fmt.Sprintf("%d hours %d minutes %d seconds", h, m, s)
}

// Compact renders seconds in the short form, e.g. "1h 3s".
// Zero components are omitted; zero itself renders as "0s".
func Compact(seconds int64) string {
	h, m, s := split(seconds)
	parts := make([]string, 0, 3)
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	if s > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", s))
	}
	return strings.Join(parts, " ")
}

// ISO renders seconds as a duration token that Decode accepts.
func ISO(seconds int64) string {
	h, m, s := split(seconds)
	var b strings.Builder
	b.WriteString("PT")
	if h > 0 {
		fmt.Fprintf(&b, "%dH", h)
	}
	if m > 0 {
		fmt.Fprintf(&b, "%dM", m)
	}
	if s > 0 || (h == 0 && m == 0) {
		fmt.Fprintf(&b, "%dS", s)
	}
	return b.String()
}
