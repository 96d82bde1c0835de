package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp representation kinds. Orders written before the storage format
// change carry timestamps in one of three shapes: a native timestamp, an
// epoch-seconds object, or a raw date value (string or number).
const (
	timeKindZero = iota
	timeKindNative
	timeKindEpochSeconds
	timeKindRaw
)

// FlexTime is a timestamp that tolerates all historical storage shapes and
// always serializes as an ISO-8601 string.
type FlexTime struct {
	kind    int
	native  time.Time
	seconds int64
	nanos   int64
	raw     json.RawMessage
}

// NewFlexTime wraps a native time value.
func NewFlexTime(t time.Time) FlexTime {
	return FlexTime{kind: timeKindNative, native: t}
}

// IsZero reports whether no timestamp value is present.
func (t FlexTime) IsZero() bool {
	return t.kind == timeKindZero
}

// Time resolves the stored representation to a time.Time. The second return
// value is false when no value is present or the raw value cannot be parsed.
func (t FlexTime) Time() (time.Time, bool) {
	switch t.kind {
	case timeKindNative:
		return t.native, true
	case timeKindEpochSeconds:
		return time.Unix(t.seconds, t.nanos).UTC(), true
	case timeKindRaw:
		return parseRawTime(t.raw)
	default:
		return time.Time{}, false
	}
}

// ISOString returns the timestamp formatted as ISO-8601 in UTC, or "" when
// no value is present.
func (t FlexTime) ISOString() string {
	resolved, ok := t.Time()
	if !ok {
		return ""
	}
	return resolved.UTC().Format(time.RFC3339Nano)
}

// parseRawTime handles raw date values: RFC3339 strings, date-only strings,
// and bare numbers. Numbers below 1e12 are taken as epoch seconds, larger
// values as epoch milliseconds.
func parseRawTime(raw json.RawMessage) (time.Time, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n >= 1e12 {
			return time.UnixMilli(int64(n)).UTC(), true
		}
		return time.Unix(int64(n), 0).UTC(), true
	}
	return time.Time{}, false
}

type epochObject struct {
	Seconds     *int64 `json:"seconds"`
	USeconds    *int64 `json:"_seconds"`
	Nanoseconds int64  `json:"nanoseconds"`
}

// UnmarshalJSON accepts the three historical shapes plus null.
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	trimmed := string(data)
	if trimmed == "null" {
		*t = FlexTime{}
		return nil
	}
	var obj epochObject
	if err := json.Unmarshal(data, &obj); err == nil && (obj.Seconds != nil || obj.USeconds != nil) {
		secs := obj.Seconds
		if secs == nil {
			secs = obj.USeconds
		}
		*t = FlexTime{kind: timeKindEpochSeconds, seconds: *secs, nanos: obj.Nanoseconds}
		return nil
	}
	raw := make(json.RawMessage, len(data))
	copy(raw, data)
	*t = FlexTime{kind: timeKindRaw, raw: raw}
	return nil
}

// MarshalJSON always emits an ISO-8601 string, or null when unset.
func (t FlexTime) MarshalJSON() ([]byte, error) {
	iso := t.ISOString()
	if iso == "" {
		return []byte("null"), nil
	}
	return json.Marshal(iso)
}

// Scan implements sql.Scanner for JSONB columns.
func (t *FlexTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = FlexTime{}
		return nil
	case time.Time:
		*t = NewFlexTime(v)
		return nil
	case []byte:
		return t.UnmarshalJSON(v)
	case string:
		return t.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into FlexTime", value)
	}
}

// Value implements driver.Valuer for JSONB columns.
func (t FlexTime) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	data, err := t.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
