package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire and storage format for dates
const DateLayout = "2006-01-02"

// Date is a calendar-local day with no time or zone component
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date, rejecting days that don't exist (e.g. Feb 30)
func NewDate(year int, month time.Month, day int) (Date, error) {
	t := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, fmt.Errorf("invalid date %04d-%02d-%02d", year, int(month), day)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar day of t in t's own location
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Today returns the local calendar day
func Today() Date {
	return DateOf(time.Now())
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// MonthIndex returns the 0-based month (January = 0)
func (d Date) MonthIndex() int {
	return int(d.Month) - 1
}

// Compare returns -1, 0 or +1 ordering by year, then month, then day
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d Date) Before(o Date) bool {
	return d.Compare(o) < 0
}

// Time returns noon UTC of the day, which formats safely in any zone
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Exercise is one logged workout entry
type Exercise struct {
	ID     int64   `json:"id"`
	Type   string  `json:"type"`
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
	Sets   int     `json:"sets"`
	Notes  string  `json:"notes"`
	Date   Date    `json:"date"`
}

// UnmarshalJSON accepts numeric fields either as numbers or as numeric
// strings, since older data stored raw form values.
func (e *Exercise) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     flexNumber `json:"id"`
		Type   string     `json:"type"`
		Weight flexNumber `json:"weight"`
		Reps   flexNumber `json:"reps"`
		Sets   flexNumber `json:"sets"`
		Notes  string     `json:"notes"`
		Date   Date       `json:"date"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw.Type) == "" {
		return fmt.Errorf("exercise %d: missing type", int64(raw.ID))
	}
	if raw.Date.IsZero() {
		return fmt.Errorf("exercise %d: missing date", int64(raw.ID))
	}

	*e = Exercise{
		ID:     int64(raw.ID),
		Type:   raw.Type,
		Weight: float64(raw.Weight),
		Reps:   int(raw.Reps),
		Sets:   int(raw.Sets),
		Notes:  raw.Notes,
		Date:   raw.Date,
	}
	return nil
}

// Fields returns everything but the id
func (e Exercise) Fields() ExerciseFields {
	return ExerciseFields{
		Type:   e.Type,
		Weight: e.Weight,
		Reps:   e.Reps,
		Sets:   e.Sets,
		Notes:  e.Notes,
		Date:   e.Date,
	}
}

// ExerciseFields holds the caller-supplied part of an Exercise
type ExerciseFields struct {
	Type   string  `json:"type"`
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
	Sets   int     `json:"sets"`
	Notes  string  `json:"notes"`
	Date   Date    `json:"date"`
}

// Validate checks required-field presence only
func (f ExerciseFields) Validate() error {
	if strings.TrimSpace(f.Type) == "" {
		return &ValidationError{Field: "type"}
	}
	if f.Date.IsZero() {
		return &ValidationError{Field: "date"}
	}
	return nil
}

// flexNumber decodes a JSON number or a numeric string
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		*n = flexNumber(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = flexNumber(f)
	return nil
}
