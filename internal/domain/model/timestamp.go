package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// TimestampLayout renders ISO-8601 with microseconds and an explicit offset.
// Times are always converted to UTC first, so the offset is +00:00.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// Timestamp is a UTC instant that serialises as an ISO-8601 string,
// or null when zero.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t, normalised to UTC.
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{Time: t.UTC()}
}

// Now returns the current UTC time.
func Now() Timestamp { return NewTimestamp(time.Now()) }

// String implements fmt.Stringer.
func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler. Any RFC 3339 offset is accepted.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*t = NewTimestamp(parsed)
	return nil
}
