package calendar

import (
	"testing"
	"time"
)

// TestGrid tests blank padding and day counts across representative months.
func TestGrid(t *testing.T) {
	tests := []struct {
		name       string
		month      Month
		wantBlanks int
		wantDays   int
	}{
		{"leap february starts thursday", Month{2024, time.February}, 4, 29},
		{"non-leap february starts sunday", Month{2026, time.February}, 0, 28},
		{"march 2024 starts friday", Month{2024, time.March}, 5, 31},
		{"september 2024 starts sunday", Month{2024, time.September}, 0, 30},
		{"june 2024 starts saturday", Month{2024, time.June}, 6, 30},
		{"century non-leap", Month{2100, time.February}, 1, 28},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cells := Grid(tc.month)
			blanks, days := 0, 0
			for i, c := range cells {
				if c.Blank {
					if days > 0 {
						t.Fatalf("blank cell at %d after day cells", i)
					}
					blanks++
					continue
				}
				days++
				if c.Date.Day != days {
					t.Fatalf("cell %d: expected day %d, got %d", i, days, c.Date.Day)
				}
				if c.Date.Month != tc.month.Month || c.Date.Year != tc.month.Year {
					t.Fatalf("cell %d: date %s outside %s", i, c.Date, tc.month)
				}
			}
			if blanks != tc.wantBlanks {
				t.Errorf("expected %d blanks, got %d", tc.wantBlanks, blanks)
			}
			if days != tc.wantDays {
				t.Errorf("expected %d days, got %d", tc.wantDays, days)
			}
		})
	}
}

// TestGrid_AllMonthsMatchCalendar checks the grid shape for every month of a decade.
func TestGrid_AllMonthsMatchCalendar(t *testing.T) {
	for year := 2020; year < 2030; year++ {
		for m := time.January; m <= time.December; m++ {
			month := Month{year, m}
			cells := Grid(month)
			first := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
			daysIn := first.AddDate(0, 1, -1).Day()
			if len(cells) != int(first.Weekday())+daysIn {
				t.Fatalf("%s: expected %d cells, got %d", month, int(first.Weekday())+daysIn, len(cells))
			}
		}
	}
}

// TestMonth_AddMonths tests year rollover in both directions.
func TestMonth_AddMonths(t *testing.T) {
	tests := []struct {
		from Month
		n    int
		want Month
	}{
		{Month{2024, time.December}, 1, Month{2025, time.January}},
		{Month{2024, time.January}, -1, Month{2023, time.December}},
		{Month{2024, time.November}, 3, Month{2025, time.February}},
		{Month{2024, time.May}, 0, Month{2024, time.May}},
	}
	for _, tc := range tests {
		if got := tc.from.AddMonths(tc.n); got != tc.want {
			t.Errorf("%s + %d: expected %s, got %s", tc.from, tc.n, tc.want, got)
		}
	}
}

// TestNavigate tests the forward bound and the unbounded backward move.
func TestNavigate(t *testing.T) {
	current := Month{2024, time.November}

	tests := []struct {
		name        string
		visible     Month
		direction   string
		want        Month
		wantChanged bool
	}{
		{"next within bound", current, DirectionNext, Month{2024, time.December}, true},
		{"next up to bound", Month{2025, time.January}, DirectionNext, Month{2025, time.February}, true},
		{"next at bound is refused", Month{2025, time.February}, DirectionNext, Month{2025, time.February}, false},
		{"prev is unbounded", Month{2020, time.January}, DirectionPrev, Month{2019, time.December}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, changed, err := Navigate(tc.visible, current, DefaultMaxMonthsAhead, tc.direction)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want || changed != tc.wantChanged {
				t.Fatalf("expected (%s, %v), got (%s, %v)", tc.want, tc.wantChanged, got, changed)
			}
		})
	}
}

// TestNavigate_InvalidDirection tests that unknown directions are rejected.
func TestNavigate_InvalidDirection(t *testing.T) {
	m := Month{2024, time.March}
	got, changed, err := Navigate(m, m, DefaultMaxMonthsAhead, "sideways")
	if err != ErrInvalidDirection {
		t.Fatalf("expected ErrInvalidDirection, got %v", err)
	}
	if changed || got != m {
		t.Fatal("invalid direction must not move the month")
	}
}

// TestLastBookable tests the tap ceiling across year ends and short months.
func TestLastBookable(t *testing.T) {
	tests := []struct {
		today    Date
		maxAhead int
		want     Date
	}{
		{NewDate(2024, time.February, 28), 3, NewDate(2024, time.May, 31)},
		{NewDate(2024, time.November, 30), 3, NewDate(2025, time.February, 28)},
		{NewDate(2023, time.November, 1), 3, NewDate(2024, time.February, 29)},
		{NewDate(2024, time.March, 15), 0, NewDate(2024, time.March, 31)},
	}
	for _, tc := range tests {
		if got := LastBookable(tc.today, tc.maxAhead); got != tc.want {
			t.Errorf("LastBookable(%s, %d) = %s, want %s", tc.today, tc.maxAhead, got, tc.want)
		}
	}
}
