package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date wire format.
const DateLayout = "2006-01-02"

// Date accepts either a calendar date or an RFC 3339 timestamp on the wire.
// Calendar dates resolve to midnight in the server's local zone.
type Date struct {
	time.Time
	// DateOnly is set when the input carried no time-of-day.
	DateOnly bool
}

// ParseDate parses a calendar date or RFC 3339 timestamp.
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Date{}, fmt.Errorf("date required")
	}
	if t, err := time.ParseInLocation(DateLayout, value, time.Local); err == nil {
		return Date{Time: t, DateOnly: true}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", value)
	}
	return Date{Time: t}, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	if d.DateOnly {
		return json.Marshal(d.Format(DateLayout))
	}
	return json.Marshal(d.Format(time.RFC3339))
}

// EndOfRange returns the exclusive upper bound for an inclusive range ending at d.
// A calendar date covers its whole day.
func (d Date) EndOfRange() time.Time {
	if d.DateOnly {
		return d.AddDate(0, 0, 1)
	}
	return d.Add(time.Nanosecond)
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	local := t.In(time.Local)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
}
