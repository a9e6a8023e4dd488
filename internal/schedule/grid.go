package schedule

import "time"

const (
	// TermWeeks is the fixed length of the rendered term.
	TermWeeks = 23

	// DayLayout is the ISO calendar-day format used everywhere dates cross
	// package boundaries.
	DayLayout = "2006-01-02"
)

// Week is one grid row's seven consecutive days, in order.
type Week struct {
	Days [7]string
}

// Start returns the week's first day.
func (w Week) Start() string { return w.Days[0] }

// End returns the week's last day.
func (w Week) End() string { return w.Days[6] }

// BuildGrid produces `weeks` consecutive 7-day blocks aligned to week
// boundaries, starting from the Sunday-started week containing start.
//
// All arithmetic happens on UTC-normalized times so a given day string maps
// to the same weekday on every host regardless of local timezone or DST.
// An empty or unparseable start yields an empty grid.
func BuildGrid(start string, weeks int) []Week {
	t, err := ParseDay(start)
	if err != nil || weeks <= 0 {
		return nil
	}

	// Back up to the start of the containing week (Sunday = 0).
	t = t.AddDate(0, 0, -int(t.Weekday()))

	grid := make([]Week, weeks)
	for w := 0; w < weeks; w++ {
		for d := 0; d < 7; d++ {
			grid[w].Days[d] = t.AddDate(0, 0, w*7+d).Format(DayLayout)
		}
	}
	return grid
}

// ParseDay parses an ISO day string into a UTC time at midnight.
func ParseDay(day string) (time.Time, error) {
	return time.Parse(DayLayout, day)
}

// DayOfMonth returns the day-of-month number of an ISO day string, or 0 if
// the string does not parse.
func DayOfMonth(day string) int {
	t, err := ParseDay(day)
	if err != nil {
		return 0
	}
	return t.Day()
}

// MonthKey returns the "2006-01" month of an ISO day string.
func MonthKey(day string) string {
	if len(day) < 7 {
		return day
	}
	return day[:7]
}

// MonthNumber returns the 1-12 month of an ISO day string, or 0 if the
// string does not parse.
func MonthNumber(day string) int {
	t, err := ParseDay(day)
	if err != nil {
		return 0
	}
	return int(t.Month())
}

// IsWeekend reports whether an ISO day string falls on Saturday or Sunday.
func IsWeekend(day string) bool {
	t, err := ParseDay(day)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd == time.Sunday || wd == time.Saturday
}
