package schedule

import (
	"sort"
	"strings"

	"termcal/internal/model"
)

// Bar is the per-day marker of a multi-day event. Start/End flag the
// event's boundary days; interior days carry neither flag.
type Bar struct {
	EventID  int64          `json:"eventId"`
	Category model.Category `json:"category"`
	Start    bool           `json:"start"`
	End      bool           `json:"end"`
}

// DayPlacement is the rendered content of one day cell: an optional
// background category plus tooltip from single-day events, and one ordered
// bar per covering multi-day event.
type DayPlacement struct {
	Background model.Category `json:"background,omitempty"`
	Tooltip    string         `json:"tooltip,omitempty"`
	Bars       []Bar          `json:"bars,omitempty"`
}

// PlaceDay computes the placement for a single calendar day.
//
// Covering events are taken in id order, which is creation order (ids are
// monotonically increasing), so stacking is stable across renders. Among
// single-day events the last-created one decides the background color; all
// of their descriptions are joined into the tooltip.
func (c *Classifier) PlaceDay(day string, events []model.Event, view model.ViewMode) DayPlacement {
	covering := make([]model.Event, 0, len(events))
	for _, e := range events {
		if view == model.ViewParent && e.TeacherOnly {
			continue
		}
		if e.Covers(day) {
			covering = append(covering, e)
		}
	}

	sort.SliceStable(covering, func(i, j int) bool {
		return covering[i].ID < covering[j].ID
	})

	var out DayPlacement
	var tooltips []string
	for _, e := range covering {
		if e.SingleDay() {
			// Later-created single-day events win the background.
			out.Background = c.Classify(e.Desc)
			tooltips = append(tooltips, e.Desc)
			continue
		}
		out.Bars = append(out.Bars, Bar{
			EventID:  e.ID,
			Category: c.Classify(e.Desc),
			Start:    day == e.Date,
			End:      day == e.End(),
		})
	}
	out.Tooltip = strings.Join(tooltips, "\n")
	return out
}
