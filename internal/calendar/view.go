package calendar

import (
	"time"

	"github.com/pbaille/liftlog/internal/domain"
)

// Weekdays are the grid column headers, Sunday first
var Weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DayCell is a grid cell annotated for rendering
type DayCell struct {
	Cell
	Date        string `json:"date,omitempty"`
	Highlighted bool   `json:"highlighted"`
}

// MonthView is everything a renderer needs to draw one month
type MonthView struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Name  string    `json:"name"`
	Cells []DayCell `json:"cells"`
}

// NewMonthView builds the grid for year/month and flags the days that have
// exercises.
func NewMonthView(records []domain.Exercise, year, month int) MonthView {
	highlighted := DatesWithExercises(records, year, month)
	grid := DaysGrid(year, month)

	cells := make([]DayCell, len(grid))
	for i, c := range grid {
		cells[i] = DayCell{Cell: c}
		if c.Blank() {
			continue
		}
		d := domain.Date{Year: year, Month: time.Month(month + 1), Day: c.Day}
		cells[i].Date = d.String()
		cells[i].Highlighted = highlighted[c.Day]
	}

	return MonthView{
		Year:  year,
		Month: month,
		Name:  MonthName(month),
		Cells: cells,
	}
}

// Weeks splits the cells into rows of seven
func (v MonthView) Weeks() [][]DayCell {
	var weeks [][]DayCell
	for i := 0; i < len(v.Cells); i += 7 {
		end := i + 7
		if end > len(v.Cells) {
			end = len(v.Cells)
		}
		weeks = append(weeks, v.Cells[i:end])
	}
	return weeks
}

// Navigation describes the selectable years and months around a selection
type Navigation struct {
	Years         []int `json:"years"`
	Months        []int `json:"months"`
	SelectedYear  int   `json:"selected_year"`
	SelectedMonth int   `json:"selected_month"`
}

// NewNavigation resolves a selection against the calendar bounds. A year of
// 0 selects today's year; a negative month selects the default month. A
// selection outside the available years or months is clamped to the
// nearest one.
func NewNavigation(year, month int, earliest *domain.Date, today domain.Date) Navigation {
	years := AvailableYears(earliest, today)
	if year == 0 {
		year = today.Year
	}
	year = clamp(year, years[0], years[len(years)-1])

	months := AvailableMonths(year, earliest, today)
	if month < 0 {
		month = DefaultMonth(year, earliest, today)
	}
	month = clamp(month, months[0], months[len(months)-1])

	return Navigation{
		Years:         years,
		Months:        months,
		SelectedYear:  year,
		SelectedMonth: month,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
