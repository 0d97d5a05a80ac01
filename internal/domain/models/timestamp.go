package models

import (
	"fmt"
	"strings"
	"time"
)

// Wire formats expected by XTDB for temporal columns.
//
// Instants carry microsecond precision and a literal "Z" suffix so XTDB
// recognizes them as TIMESTAMP WITH TIME ZONE. Calendar dates (settlement)
// use the plain ISO date form.
const (
	TimestampLayout = "2006-01-02T15:04:05.000000Z"
	DateLayout      = "2006-01-02"
)

// Timestamp is a UTC instant that serializes in the fixed XTDB wire format.
type Timestamp struct {
	time.Time
}

// NewTimestamp converts t to UTC and wraps it.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.UTC()}
}

func (ts Timestamp) String() string {
	return ts.UTC().Format(TimestampLayout)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ts.String() + `"`), nil
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return nil
	}
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	ts.Time = t
	return nil
}

// Date is a calendar date (no clock component) serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its UTC calendar date.
func NewDate(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.UTC().Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}
