package schedule

import (
	"sort"
	"strconv"
	"strings"

	"termcal/internal/model"
)

// NoteEntry is one line in a month's notes column: either a holiday event
// (EventID set) or a manually authored note (NoteID set).
type NoteEntry struct {
	EventID int64 `json:"eventId,omitempty"`
	NoteID  int64 `json:"noteId,omitempty"`
	// Label is the day-of-month prefix for holiday entries; empty for notes.
	Label       string `json:"label,omitempty"`
	Content     string `json:"content"`
	TeacherMark bool   `json:"teacherMark,omitempty"`
}

// MonthNotes builds the notes column for one month: holiday-category events
// of that month sorted by date, followed by the month's manual notes in
// collection order. The parent view drops teacher-only events here too.
func (c *Classifier) MonthNotes(month string, events []model.Event, notes []model.Note, view model.ViewMode) []NoteEntry {
	holidays := make([]model.Event, 0)
	for _, e := range events {
		if view == model.ViewParent && e.TeacherOnly {
			continue
		}
		if !strings.HasPrefix(e.Date, month) {
			continue
		}
		if c.Classify(e.Desc) == model.CategoryHoliday {
			holidays = append(holidays, e)
		}
	}

	sort.SliceStable(holidays, func(i, j int) bool {
		return holidays[i].Date < holidays[j].Date
	})

	out := make([]NoteEntry, 0, len(holidays))
	for _, e := range holidays {
		out = append(out, NoteEntry{
			EventID:     e.ID,
			Label:       strconv.Itoa(DayOfMonth(e.Date)),
			Content:     e.Desc,
			TeacherMark: e.TeacherOnly && view == model.ViewTeacher,
		})
	}

	for _, n := range notes {
		if n.Month == month {
			out = append(out, NoteEntry{NoteID: n.ID, Content: n.Content})
		}
	}
	return out
}
