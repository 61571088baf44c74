package timeslot

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// weekdayOrder is the canonical Monday–Friday sequence of day codes
// (L, M, X, J, V in the source locale).
var weekdayOrder = []string{"L", "M", "X", "J", "V"}

type DaysColumn []string

// Value implements driver.Valuer for INSERT/UPDATE. Days are stored as a
// JSON array but treated as a set.
func (d DaysColumn) Value() (driver.Value, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for SELECT.
func (d *DaysColumn) Scan(value any) error {
	if value == nil {
		*d = nil
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("not a []byte or string: %T", value)
	}
	return json.Unmarshal(b, d)
}

type TimeSlot struct {
	ID    int64    `json:"id"`
	Start string   `json:"start"`
	End   string   `json:"end"`
	Days  []string `json:"days"`
}

// Normalize trims the times and reduces days to the canonical weekday
// order with duplicates removed.
func (t *TimeSlot) Normalize() {
	t.Start = strings.TrimSpace(t.Start)
	t.End = strings.TrimSpace(t.End)

	present := make(map[string]bool, len(t.Days))
	for _, d := range t.Days {
		present[strings.TrimSpace(d)] = true
	}
	normalized := make([]string, 0, len(weekdayOrder))
	for _, d := range weekdayOrder {
		if present[d] {
			normalized = append(normalized, d)
		}
	}
	// Unknown codes survive normalization so Validate can report them.
	if len(normalized) == len(present) {
		t.Days = normalized
	}
}

func (t *TimeSlot) Validate() error {
	start, err := time.Parse("15:04", t.Start)
	if err != nil {
		return errors.New("start time must be in HH:MM format")
	}
	end, err := time.Parse("15:04", t.End)
	if err != nil {
		return errors.New("end time must be in HH:MM format")
	}
	if !start.Before(end) {
		return errors.New("start time must be before end time")
	}
	if len(t.Days) == 0 {
		return errors.New("at least one weekday is required")
	}
	for _, d := range t.Days {
		if !validDay(d) {
			return fmt.Errorf("invalid weekday code %q", d)
		}
	}
	return nil
}

func validDay(code string) bool {
	for _, d := range weekdayOrder {
		if code == d {
			return true
		}
	}
	return false
}
