// Package normalize holds the field coercion rules shared by every
// platform normalizer. All of these are total functions: whatever the
// upstream payload contains, they return a usable default instead of
// failing, so schema drift on a single field never aborts a run.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"creatortrack/lib/timezone"
)

// display format for publish times, platform local time
const TimeLayout = "2006-01-02 15:04"

// counters large enough to be in milliseconds instead of seconds;
// anything past this is assumed to be a millisecond timestamp
// (year ~2128 in seconds, year ~1973 in milliseconds)
const millisecondThreshold = 5_000_000_000

// Int coerces an arbitrary JSON value into a non-negative int64.
// Strings with digits parse, floats truncate, everything else
// (null, objects, garbage) becomes 0.
func Int(v any) int64 {
	var n int64
	switch val := v.(type) {
	case nil:
		return 0
	case int64:
		n = val
	case int:
		n = int64(val)
	case float64:
		n = int64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0
		}
		n = int64(f)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		n = int64(parsed)
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}

// UnixTime renders a unix timestamp (seconds or milliseconds, the
// platforms disagree) as a local display string. Zero or negative
// input yields "".
func UnixTime(ts int64) string {
	if ts <= 0 {
		return ""
	}
	if ts >= millisecondThreshold {
		ts = ts / 1000
	}
	return time.Unix(ts, 0).In(timezone.Location).Format(TimeLayout)
}

// Truncate shortens a title to at most max runes. Byte-based slicing
// would split multibyte characters, which these titles are full of.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// FirstNonEmpty returns the first non-empty candidate, used for the
// ordered fallback lists the platforms require (e.g. several possible
// avatar keys).
func FirstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
