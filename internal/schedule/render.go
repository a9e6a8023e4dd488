package schedule

import (
	"encoding/json"
	"strconv"

	"termcal/internal/model"
)

// DayCell is one day of a rendered week row.
type DayCell struct {
	Date       string `json:"date"`
	DayOfMonth int    `json:"dayOfMonth"`
	Weekend    bool   `json:"weekend"`
	DayPlacement
}

// Row is one rendered week of the term table.
type Row struct {
	MonthKey   string `json:"monthKey"`
	MonthLabel string `json:"monthLabel"`
	// MonthSpan / NotesSpan carry the rowspan after merging; 0 means the
	// cell is absorbed by the run above it.
	MonthSpan int            `json:"monthSpan"`
	WeekLabel string         `json:"weekLabel"`
	Days      [7]DayCell     `json:"days"`
	Summary   []SummaryEntry `json:"summary"`
	Notes     []NoteEntry    `json:"notes"`
	NotesSpan int            `json:"notesSpan"`
}

// Table is the fully rendered term schedule for one view mode.
type Table struct {
	View          model.ViewMode `json:"view"`
	TitleYear     int            `json:"titleYear"`
	TitleSemester int            `json:"titleSemester"`
	Rows          []Row          `json:"rows"`
}

// Renderer assembles the full term table from the store collections.
type Renderer struct {
	classifier *Classifier
}

// NewRenderer builds a Renderer around the given classifier.
func NewRenderer(c *Classifier) *Renderer {
	return &Renderer{classifier: c}
}

// Render builds the complete table: 23 week rows with month labels, week
// numerals, day cells, week summaries and month notes, then merges the
// month and notes columns vertically. An empty or invalid start date
// produces a table with no rows.
func (r *Renderer) Render(start string, events []model.Event, notes []model.Note, view model.ViewMode) Table {
	t := Table{View: view}

	grid := BuildGrid(start, TermWeeks)
	for w, week := range grid {
		// The week's month is taken from its 4th day, so a week straddling
		// a month boundary belongs to the month holding its majority.
		monthKey := MonthKey(week.Days[3])

		row := Row{
			MonthKey:   monthKey,
			MonthLabel: strconv.Itoa(MonthNumber(week.Days[3])) + "月",
			WeekLabel:  weekLabel(w + 1),
			Summary:    r.classifier.WeekSummary(week.Start(), week.End(), events, view),
			Notes:      r.classifier.MonthNotes(monthKey, events, notes, view),
		}
		for d, day := range week.Days {
			row.Days[d] = DayCell{
				Date:         day,
				DayOfMonth:   DayOfMonth(day),
				Weekend:      IsWeekend(day),
				DayPlacement: r.classifier.PlaceDay(day, events, view),
			}
		}
		t.Rows = append(t.Rows, row)
	}

	mergeTable(&t)
	return t
}

// mergeTable applies the vertical cell merge to the month-label and notes
// columns independently.
func mergeTable(t *Table) {
	n := len(t.Rows)

	MergeRuns(n,
		func(i int) string { return t.Rows[i].MonthLabel },
		func(i, span int) { t.Rows[i].MonthSpan = span },
	)

	MergeRuns(n,
		func(i int) string { return notesSignature(t.Rows[i].Notes) },
		func(i, span int) { t.Rows[i].NotesSpan = span },
	)
}

// notesSignature serializes a notes cell into a structural signature.
// Entries that differ in anything (ids, labels, markers) must not merge
// even when their visible text happens to match.
func notesSignature(entries []NoteEntry) string {
	if len(entries) == 0 {
		return ""
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return ""
	}
	return string(b)
}

// weekLabel renders the 1-based week number as a Chinese numeral; the last
// two weeks of the 23-week term are the break and are labeled 放假.
func weekLabel(week int) string {
	if week > 21 {
		return "放假"
	}
	return chineseNumeral(week)
}

var numeralDigits = []string{"零", "一", "二", "三", "四", "五", "六", "七", "八", "九", "十"}

// chineseNumeral formats 0-99 in Chinese numerals; larger values fall back
// to decimal digits.
func chineseNumeral(n int) string {
	switch {
	case n <= 10:
		return numeralDigits[n]
	case n < 20:
		if n%10 == 0 {
			return "十"
		}
		return "十" + numeralDigits[n%10]
	case n < 100:
		s := numeralDigits[n/10] + "十"
		if n%10 != 0 {
			s += numeralDigits[n%10]
		}
		return s
	default:
		return strconv.Itoa(n)
	}
}
