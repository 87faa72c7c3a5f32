package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateStampLayout is day-month-year with no separators, e.g. "13102024".
const DateStampLayout = "02012006"

// DateStamp is an opaque day-granularity stamp kept as a string in storage.
type DateStamp string

func NewDateStamp(t time.Time) DateStamp {
	return DateStamp(t.Format(DateStampLayout))
}

func (d DateStamp) Time() (time.Time, error) {
	return time.Parse(DateStampLayout, string(d))
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp accepts RFC3339 and naive ISO timestamps. Naive values are read as UTC.
// The result is truncated to the millisecond precision Mongo stores.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NormalizeTime(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// ReservationWindow is the reserved period; StartFrom must be before To.
type ReservationWindow struct {
	StartFrom time.Time `json:"startFrom" bson:"startFrom"`
	To        time.Time `json:"to" bson:"to"`
}

func (w ReservationWindow) Normalize() ReservationWindow {
	return ReservationWindow{
		StartFrom: NormalizeTime(w.StartFrom),
		To:        NormalizeTime(w.To),
	}
}

func (w ReservationWindow) IsComplete() bool {
	return !w.StartFrom.IsZero() && !w.To.IsZero()
}

func (w *ReservationWindow) UnmarshalJSON(data []byte) error {
	var raw struct {
		StartFrom *string `json:"startFrom"`
		To        *string `json:"to"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var parsed ReservationWindow
	if raw.StartFrom != nil && *raw.StartFrom != "" {
		t, err := ParseTimestamp(*raw.StartFrom)
		if err != nil {
			return fmt.Errorf("reservationDate.startFrom: %w", err)
		}
		parsed.StartFrom = t
	}
	if raw.To != nil && *raw.To != "" {
		t, err := ParseTimestamp(*raw.To)
		if err != nil {
			return fmt.Errorf("reservationDate.to: %w", err)
		}
		parsed.To = t
	}

	*w = parsed
	return nil
}
