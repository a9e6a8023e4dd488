package schedule

import (
	"sort"
	"strconv"

	"termcal/internal/model"
)

// SummaryEntry is one line in a week's summary column.
type SummaryEntry struct {
	EventID  int64          `json:"eventId"`
	Category model.Category `json:"category"`
	// Label is the day-of-month prefix: "23" for a single day, "23-26" for
	// a range. Ranges crossing a month boundary render as e.g. "30-2";
	// that is a known display limitation and is left as is.
	Label       string `json:"label"`
	Desc        string `json:"desc"`
	TeacherMark bool   `json:"teacherMark"`
}

// WeekSummary selects and orders the events shown in the summary column of
// the week [weekStart, weekEnd].
//
// An event belongs to the week of its start date only, holiday-category
// events are excluded (they live in the month notes column instead), and
// the parent view drops teacher-only events. The teacher-only marker is
// shown only in the teacher view.
func (c *Classifier) WeekSummary(weekStart, weekEnd string, events []model.Event, view model.ViewMode) []SummaryEntry {
	selected := make([]model.Event, 0)
	for _, e := range events {
		if view == model.ViewParent && e.TeacherOnly {
			continue
		}
		if e.Date < weekStart || e.Date > weekEnd {
			continue
		}
		if c.Classify(e.Desc) == model.CategoryHoliday {
			continue
		}
		selected = append(selected, e)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Date < selected[j].Date
	})

	out := make([]SummaryEntry, 0, len(selected))
	for _, e := range selected {
		label := strconv.Itoa(DayOfMonth(e.Date))
		if !e.SingleDay() {
			label += "-" + strconv.Itoa(DayOfMonth(e.End()))
		}
		out = append(out, SummaryEntry{
			EventID:     e.ID,
			Category:    c.Classify(e.Desc),
			Label:       label,
			Desc:        e.Desc,
			TeacherMark: e.TeacherOnly && view == model.ViewTeacher,
		})
	}
	return out
}
