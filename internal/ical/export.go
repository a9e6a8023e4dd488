// Package ical exports the event collection as an iCalendar feed so the
// schedule can be subscribed to from regular calendar clients.
package ical

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"termcal/internal/model"
	"termcal/internal/schedule"
)

// Export serializes events into an iCalendar document. Events are emitted
// as all-day VEVENTs; DTEND is exclusive per RFC 5545, so it is the day
// after the inclusive end date. The view mode is respected: the parent
// view never exports teacher-only events.
func Export(events []model.Event, view model.ViewMode) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//termcal//termcal//EN")

	for _, e := range events {
		if view == model.ViewParent && e.TeacherOnly {
			continue
		}

		start, err := schedule.ParseDay(e.Date)
		if err != nil {
			return "", fmt.Errorf("ical: event %d has invalid date %q: %w", e.ID, e.Date, err)
		}
		end, err := schedule.ParseDay(e.End())
		if err != nil {
			return "", fmt.Errorf("ical: event %d has invalid end date %q: %w", e.ID, e.End(), err)
		}

		ev := cal.AddEvent(fmt.Sprintf("event-%d@termcal", e.ID))
		ev.SetDtStampTime(time.Now().UTC())
		ev.SetAllDayStartAt(start)
		ev.SetAllDayEndAt(end.AddDate(0, 0, 1))
		ev.SetSummary(e.Desc)
		if e.TeacherOnly {
			ev.SetProperty(ics.ComponentPropertyCategories, "TEACHER-ONLY")
		}
	}

	return cal.Serialize(), nil
}
