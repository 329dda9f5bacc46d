package calendar

import (
	"reflect"
	"testing"
	"time"

	"github.com/pbaille/liftlog/internal/domain"
)

func date(y int, m time.Month, d int) domain.Date {
	return domain.Date{Year: y, Month: m, Day: d}
}

func datePtr(y int, m time.Month, d int) *domain.Date {
	v := date(y, m, d)
	return &v
}

func TestAvailableYears(t *testing.T) {
	today := date(2025, time.June, 10)

	tests := []struct {
		name     string
		earliest *domain.Date
		want     []int
	}{
		{"no records", nil, []int{2025}},
		{"same year", datePtr(2025, time.January, 3), []int{2025}},
		{"spans years", datePtr(2022, time.November, 30), []int{2022, 2023, 2024, 2025}},
		{"future record", datePtr(2026, time.February, 1), []int{2025}},
	}
	for _, tt := range tests {
		if got := AvailableYears(tt.earliest, today); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAvailableMonths(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		earliest *domain.Date
		today    domain.Date
		want     []int
	}{
		{
			name:     "earliest and today coincide",
			year:     2024,
			earliest: datePtr(2024, time.March, 15),
			today:    date(2024, time.March, 15),
			want:     []int{2},
		},
		{
			name:  "no records, current year",
			year:  2024,
			today: date(2024, time.April, 1),
			want:  []int{0, 1, 2, 3},
		},
		{
			name:     "earliest year only",
			year:     2023,
			earliest: datePtr(2023, time.September, 9),
			today:    date(2024, time.April, 1),
			want:     []int{8, 9, 10, 11},
		},
		{
			name:     "full middle year",
			year:     2023,
			earliest: datePtr(2022, time.May, 1),
			today:    date(2024, time.April, 1),
			want:     []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
		},
		{
			name:     "current year after earliest year",
			year:     2024,
			earliest: datePtr(2023, time.September, 9),
			today:    date(2024, time.February, 1),
			want:     []int{0, 1},
		},
		{
			name:     "future-dated earliest in current year",
			year:     2024,
			earliest: datePtr(2024, time.August, 1),
			today:    date(2024, time.March, 1),
			want:     []int{2},
		},
	}
	for _, tt := range tests {
		if got := AvailableMonths(tt.year, tt.earliest, tt.today); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDefaultMonth(t *testing.T) {
	earliest := datePtr(2023, time.September, 9)
	today := date(2025, time.June, 10)

	tests := []struct {
		year int
		want int
	}{
		{2025, 5},
		{2024, 0},
		{2023, 8},
	}
	for _, tt := range tests {
		if got := DefaultMonth(tt.year, earliest, today); got != tt.want {
			t.Errorf("DefaultMonth(%d) = %d, want %d", tt.year, got, tt.want)
		}
	}

	if got := DefaultMonth(2024, nil, today); got != 0 {
		t.Errorf("DefaultMonth without records = %d, want 0", got)
	}
}

func TestDaysGridLeapFebruary(t *testing.T) {
	cells := DaysGrid(2024, 1)

	blanks := 0
	for _, c := range cells {
		if !c.Blank() {
			break
		}
		blanks++
	}
	// Feb 1 2024 is a Thursday
	if blanks != 4 {
		t.Errorf("expected 4 blanks, got %d", blanks)
	}

	days := cells[blanks:]
	if len(days) != 29 {
		t.Fatalf("expected 29 day cells, got %d", len(days))
	}
	for i, c := range days {
		if c.Day != i+1 {
			t.Errorf("cell %d: day %d, want %d", i, c.Day, i+1)
		}
	}
}

func TestDaysGrid(t *testing.T) {
	tests := []struct {
		year, month int
		blanks      int
		days        int
	}{
		{2023, 1, 3, 28},  // Feb 2023 starts Wednesday
		{2024, 8, 0, 30},  // Sep 2024 starts Sunday
		{2024, 11, 0, 31}, // Dec 2024 starts Sunday
		{2025, 5, 0, 30},  // Jun 2025 starts Sunday
		{2025, 2, 6, 31},  // Mar 2025 starts Saturday
		{1900, 1, 4, 28},  // 1900 is not a leap year
		{2000, 1, 2, 29},  // 2000 is
	}
	for _, tt := range tests {
		cells := DaysGrid(tt.year, tt.month)
		if len(cells) != tt.blanks+tt.days {
			t.Errorf("%d-%d: %d cells, want %d", tt.year, tt.month, len(cells), tt.blanks+tt.days)
			continue
		}
		for i := 0; i < tt.blanks; i++ {
			if !cells[i].Blank() {
				t.Errorf("%d-%d: cell %d should be blank", tt.year, tt.month, i)
			}
		}
		if cells[tt.blanks].Day != 1 {
			t.Errorf("%d-%d: first day cell is %d", tt.year, tt.month, cells[tt.blanks].Day)
		}
		if got := DaysInMonth(tt.year, tt.month); got != tt.days {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.days)
		}
	}
}

func TestDaysGridRejectsOutOfRangeMonth(t *testing.T) {
	for _, month := range []int{-1, 12, 13} {
		if cells := DaysGrid(2024, month); len(cells) != 0 {
			t.Errorf("DaysGrid(2024, %d) returned %d cells, want none", month, len(cells))
		}
		if n := DaysInMonth(2024, month); n != 0 {
			t.Errorf("DaysInMonth(2024, %d) = %d, want 0", month, n)
		}
	}
}

func TestDatesWithExercises(t *testing.T) {
	records := []domain.Exercise{
		{ID: 1, Type: "Squat", Date: date(2024, time.March, 15)},
		{ID: 2, Type: "Bench", Date: date(2024, time.March, 15)},
		{ID: 3, Type: "Row", Date: date(2024, time.April, 15)},
		{ID: 4, Type: "Row", Date: date(2023, time.March, 15)},
	}

	got := DatesWithExercises(records, 2024, 2)
	want := map[int]bool{15: true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if got := DatesWithExercises(records, 2024, 5); len(got) != 0 {
		t.Errorf("expected no days in June, got %v", got)
	}
}

func TestMonthName(t *testing.T) {
	if got := MonthName(0); got != "January" {
		t.Errorf("got %s", got)
	}
	if got := MonthName(11); got != "December" {
		t.Errorf("got %s", got)
	}
}
