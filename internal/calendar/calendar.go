// Package calendar derives month/year navigation bounds and per-day
// highlighting from logged exercises. Month indices are 0-based
// (January = 0) throughout.
package calendar

import (
	"time"

	"github.com/pbaille/liftlog/internal/domain"
)

// AvailableYears lists the years from the earliest logged year (or today's
// year when nothing is logged) through today's year.
func AvailableYears(earliest *domain.Date, today domain.Date) []int {
	start := today.Year
	if earliest != nil && earliest.Year < start {
		start = earliest.Year
	}

	years := make([]int, 0, today.Year-start+1)
	for y := start; y <= today.Year; y++ {
		years = append(years, y)
	}
	return years
}

// AvailableMonths lists the selectable month indices for year
func AvailableMonths(year int, earliest *domain.Date, today domain.Date) []int {
	lower, upper := monthBounds(year, earliest, today)

	months := make([]int, 0, upper-lower+1)
	for m := lower; m <= upper; m++ {
		months = append(months, m)
	}
	return months
}

// DefaultMonth is the month to pre-select for year: today's month in the
// current year, otherwise the first available month.
func DefaultMonth(year int, earliest *domain.Date, today domain.Date) int {
	if year == today.Year {
		return today.MonthIndex()
	}
	lower, _ := monthBounds(year, earliest, today)
	return lower
}

func monthBounds(year int, earliest *domain.Date, today domain.Date) (lower, upper int) {
	lower, upper = 0, 11
	if earliest != nil && year == earliest.Year {
		lower = earliest.MonthIndex()
	}
	if year == today.Year {
		upper = today.MonthIndex()
	}
	// future-dated records can push the lower bound past today
	if lower > upper {
		lower = upper
	}
	return lower, upper
}

// Cell is one slot of the month grid. Day is 0 for leading blanks.
type Cell struct {
	Day int `json:"day"`
}

func (c Cell) Blank() bool {
	return c.Day == 0
}

// DaysGrid lays out a month Sunday-first: one blank per weekday before the
// 1st, then every day of the month. month must be 0-11; anything else
// yields no cells.
func DaysGrid(year, month int) []Cell {
	if !ValidMonth(month) {
		return nil
	}
	first := time.Date(year, time.Month(month+1), 1, 12, 0, 0, 0, time.UTC)
	blanks := int(first.Weekday())
	n := DaysInMonth(year, month)

	cells := make([]Cell, 0, blanks+n)
	for i := 0; i < blanks; i++ {
		cells = append(cells, Cell{})
	}
	for d := 1; d <= n; d++ {
		cells = append(cells, Cell{Day: d})
	}
	return cells
}

// DaysInMonth uses day 0 of the next month, which normalizes to the last
// day of month. It returns 0 for a month outside 0-11.
func DaysInMonth(year, month int) int {
	if !ValidMonth(month) {
		return 0
	}
	return time.Date(year, time.Month(month+2), 0, 12, 0, 0, 0, time.UTC).Day()
}

// DatesWithExercises returns the days of the month with at least one
// exercise logged on exactly that date.
func DatesWithExercises(records []domain.Exercise, year, month int) map[int]bool {
	days := make(map[int]bool)
	for _, r := range records {
		if r.Date.Year == year && r.Date.MonthIndex() == month {
			days[r.Date.Day] = true
		}
	}
	return days
}

// MonthName returns the English long name for a month index
func MonthName(month int) string {
	return time.Month(month + 1).String()
}

// ValidMonth reports whether month is a 0-based month index
func ValidMonth(month int) bool {
	return month >= 0 && month <= 11
}
