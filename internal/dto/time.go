package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const (
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
	DateLayout      = "2006-01-02"
)

// Timestamp is an instant with offset, serialized with millisecond precision.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(TimestampLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	parsed, err := time.Parse(TimestampLayout, s)
	if err != nil {
		// Accept RFC 3339 without fractional seconds as well.
		parsed, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("timestamp must match %s", TimestampLayout)
		}
	}

	t.Time = parsed
	return nil
}

// Date is a calendar date without time of day.
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	parsed, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("date must match %s", DateLayout)
	}

	d.Time = parsed
	return nil
}

func timestampPtr(t *time.Time) *Timestamp {
	if t == nil {
		return nil
	}
	return &Timestamp{Time: *t}
}

func (t *Timestamp) timePtr() *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}

func (d *Date) timePtr() *time.Time {
	if d == nil {
		return nil
	}
	v := d.Time
	return &v
}
