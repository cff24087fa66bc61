package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is a raw JSON object as decoded from a remote payload.
type Record = map[string]any

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// lookup resolves key in rec. A key containing dots is first tried
// literally, then as a path through nested objects.
func lookup(rec Record, key string) (any, bool) {
	if rec == nil {
		return nil, false
	}
	if v, ok := rec[key]; ok {
		return v, true
	}
	if !strings.Contains(key, ".") {
		return nil, false
	}
	var cur any = rec
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// String returns the first non-empty trimmed string found under keys. JSON
// numbers are accepted and rendered without exponent.
func String(rec Record, keys []string) (string, bool) {
	for _, k := range keys {
		v, ok := lookup(rec, k)
		if !ok {
			continue
		}
		if s, ok := stringValue(v); ok {
			return s, true
		}
	}
	return "", false
}

// StringOr is String with a fallback for the absent case.
func StringOr(rec Record, keys []string, fallback string) string {
	if s, ok := String(rec, keys); ok {
		return s
	}
	return fallback
}

// OptString is String returning nil for the absent case.
func OptString(rec Record, keys []string) *string {
	if s, ok := String(rec, keys); ok {
		return &s
	}
	return nil
}

func stringValue(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		return s, s != ""
	case json.Number:
		return x.String(), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", false
		}
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	}
	return "", false
}

// Float coerces v to a finite number. Numeric strings are parsed; NaN,
// infinities and anything else are absent.
func Float(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		p, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FirstFloat returns the first number found under keys.
func FirstFloat(rec Record, keys []string) (float64, bool) {
	for _, k := range keys {
		if v, ok := lookup(rec, k); ok {
			if f, ok := Float(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// FirstInt returns the first number found under keys, truncated.
func FirstInt(rec Record, keys []string) (int, bool) {
	f, ok := FirstFloat(rec, keys)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Bool coerces native booleans and the case-insensitive strings "true" and
// "false". Anything else is absent.
func Bool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// FirstBool returns the first boolean found under keys.
func FirstBool(rec Record, keys []string) (bool, bool) {
	for _, k := range keys {
		if v, ok := lookup(rec, k); ok {
			if b, ok := Bool(v); ok {
				return b, true
			}
		}
	}
	return false, false
}

// Time parses a timestamp string or a unix epoch in seconds or milliseconds.
func Time(v any) (time.Time, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	f, ok := Float(v)
	if !ok || f <= 0 {
		return time.Time{}, false
	}
	if f > 1e12 {
		return time.UnixMilli(int64(f)).UTC(), true
	}
	return time.Unix(int64(f), 0).UTC(), true
}

// FirstTime returns the first parsable timestamp under keys, or nil.
func FirstTime(rec Record, keys []string) *time.Time {
	for _, k := range keys {
		if v, ok := lookup(rec, k); ok {
			if t, ok := Time(v); ok {
				return &t
			}
		}
	}
	return nil
}

// Object returns v as a record when it is a JSON object.
func Object(v any) (Record, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// FirstArray returns the first JSON array found under keys.
func FirstArray(rec Record, keys []string) ([]any, bool) {
	for _, k := range keys {
		if v, ok := lookup(rec, k); ok {
			if a, ok := v.([]any); ok {
				return a, true
			}
		}
	}
	return nil, false
}

// FirstObject returns the first JSON object found under keys.
func FirstObject(rec Record, keys []string) (Record, bool) {
	for _, k := range keys {
		if v, ok := lookup(rec, k); ok {
			if m, ok := Object(v); ok {
				return m, true
			}
		}
	}
	return nil, false
}
