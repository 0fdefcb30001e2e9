package repository

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Epoch values at or above this magnitude are milliseconds, below it
// seconds. 1e11 seconds is far past year 5000, 1e11 ms is 1973.
const epochMillisThreshold = 1e11

var timeLayouts = []string{ //nolint:gochecknoglobals // read-only layout table
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type timer interface {
	Time() time.Time
}

// parseTime converts the timestamp representations found in the document
// stores into UTC. A nil result with a nil error means the value is absent.
func parseTime(v any) (*time.Time, error) {
	var t time.Time
	switch x := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return nil, nil
		}
		t = *x
	case timer:
		t = x.Time()
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil, nil
		}
		parsed, err := parseTimeString(s)
		if err != nil {
			return nil, err
		}
		t = parsed
	case map[string]any:
		parsed, err := parseTimestampMap(x)
		if err != nil {
			return nil, err
		}
		t = parsed
	default:
		n, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("%w: unsupported type %T", ErrMalformedTimestamp, v)
		}
		t = fromEpoch(n)
	}
	if t.IsZero() {
		return nil, nil
	}
	t = t.UTC()
	return &t, nil
}

func parseTimeString(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return fromEpoch(n), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
}

// parseTimestampMap accepts serialized Firestore timestamps, with or
// without the leading underscore.
func parseTimestampMap(m map[string]any) (time.Time, error) {
	secRaw, ok := m["_seconds"]
	if !ok {
		secRaw, ok = m["seconds"]
	}
	if !ok {
		return time.Time{}, fmt.Errorf("%w: map without seconds", ErrMalformedTimestamp)
	}
	sec, ok := toFloat(secRaw)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: seconds is %T", ErrMalformedTimestamp, secRaw)
	}
	nanoRaw, ok := m["_nanoseconds"]
	if !ok {
		nanoRaw = m["nanoseconds"]
	}
	nanos, _ := toFloat(nanoRaw)
	return time.Unix(int64(sec), int64(nanos)), nil
}

func fromEpoch(n float64) time.Time {
	if math.Abs(n) >= epochMillisThreshold {
		return time.UnixMilli(int64(n))
	}
	return time.Unix(int64(n), 0)
}

// toFloat converts a numeric field value. NaN and infinities are rejected.
func toFloat(v any) (float64, bool) {
	f, ok := rawFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func rawFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}
