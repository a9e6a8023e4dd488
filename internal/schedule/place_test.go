package schedule

import (
	"testing"

	"termcal/internal/model"
)

func TestPlaceDay_MultiDayBars(t *testing.T) {
	c := DefaultClassifier()
	events := []model.Event{
		{ID: 1, Date: "2025-09-23", EndDate: "2025-09-26", Desc: "校外教學"},
	}

	tests := []struct {
		day       string
		wantBars  int
		wantStart bool
		wantEnd   bool
	}{
		{day: "2025-09-22", wantBars: 0},
		{day: "2025-09-23", wantBars: 1, wantStart: true},
		{day: "2025-09-24", wantBars: 1},
		{day: "2025-09-25", wantBars: 1},
		{day: "2025-09-26", wantBars: 1, wantEnd: true},
		{day: "2025-09-27", wantBars: 0},
	}
	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			p := c.PlaceDay(tt.day, events, model.ViewTeacher)
			if len(p.Bars) != tt.wantBars {
				t.Fatalf("bars = %d, want %d", len(p.Bars), tt.wantBars)
			}
			if p.Background != model.CategoryNone {
				t.Fatalf("multi-day event must not set a background, got %q", p.Background)
			}
			if tt.wantBars == 0 {
				return
			}
			bar := p.Bars[0]
			if bar.Category != model.CategoryTrip {
				t.Fatalf("bar category = %q, want trip", bar.Category)
			}
			if bar.Start != tt.wantStart || bar.End != tt.wantEnd {
				t.Fatalf("bar flags start=%v end=%v, want start=%v end=%v", bar.Start, bar.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestPlaceDay_SingleDayBackground(t *testing.T) {
	c := DefaultClassifier()
	events := []model.Event{
		{ID: 1, Date: "2025-09-10", EndDate: "2025-09-10", Desc: "第一次段考"},
	}

	p := c.PlaceDay("2025-09-10", events, model.ViewTeacher)
	if len(p.Bars) != 0 {
		t.Fatalf("single-day event must not produce bars, got %d", len(p.Bars))
	}
	if p.Background != model.CategoryExam {
		t.Fatalf("background = %q, want exam", p.Background)
	}
	if p.Tooltip != "第一次段考" {
		t.Fatalf("tooltip = %q", p.Tooltip)
	}

	// No other day may show anything for it.
	for _, day := range []string{"2025-09-09", "2025-09-11"} {
		p := c.PlaceDay(day, events, model.ViewTeacher)
		if p.Background != model.CategoryNone || len(p.Bars) != 0 {
			t.Fatalf("day %s unexpectedly rendered the event", day)
		}
	}
}

func TestPlaceDay_LastSingleDayWins(t *testing.T) {
	c := DefaultClassifier()
	// Deliberately out of slice order; id order decides.
	events := []model.Event{
		{ID: 7, Date: "2025-09-10", EndDate: "2025-09-10", Desc: "慶生會"},
		{ID: 3, Date: "2025-09-10", EndDate: "2025-09-10", Desc: "第一次段考"},
	}

	p := c.PlaceDay("2025-09-10", events, model.ViewTeacher)
	if p.Background != model.CategoryCelebration {
		t.Fatalf("background = %q, want celebration (later id wins)", p.Background)
	}
	if p.Tooltip != "第一次段考\n慶生會" {
		t.Fatalf("tooltip = %q, want id-ordered join", p.Tooltip)
	}
}

func TestPlaceDay_EmptyEndDateIsSingleDay(t *testing.T) {
	c := DefaultClassifier()
	events := []model.Event{{ID: 1, Date: "2025-09-10", Desc: "段考"}}

	p := c.PlaceDay("2025-09-10", events, model.ViewTeacher)
	if len(p.Bars) != 0 || p.Background != model.CategoryExam {
		t.Fatalf("empty end date must behave as single-day, got %+v", p)
	}
}

func TestPlaceDay_ParentViewHidesTeacherOnly(t *testing.T) {
	c := DefaultClassifier()
	events := []model.Event{
		{ID: 1, Date: "2025-09-10", EndDate: "2025-09-10", Desc: "段考", TeacherOnly: true},
		{ID: 2, Date: "2025-09-08", EndDate: "2025-09-12", Desc: "校外教學", TeacherOnly: true},
	}

	p := c.PlaceDay("2025-09-10", events, model.ViewParent)
	if p.Background != model.CategoryNone || len(p.Bars) != 0 || p.Tooltip != "" {
		t.Fatalf("parent view leaked teacher-only events: %+v", p)
	}

	p = c.PlaceDay("2025-09-10", events, model.ViewTeacher)
	if p.Background != model.CategoryExam || len(p.Bars) != 1 {
		t.Fatalf("teacher view lost events: %+v", p)
	}
}
