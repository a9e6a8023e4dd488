package schedule

import (
	"testing"

	"termcal/internal/model"
)

func TestRender_Shape(t *testing.T) {
	r := NewRenderer(DefaultClassifier())
	table := r.Render("2025-08-31", nil, nil, model.ViewTeacher)

	if len(table.Rows) != TermWeeks {
		t.Fatalf("rows = %d, want %d", len(table.Rows), TermWeeks)
	}

	// Week labels: Chinese numerals for 1-21, 放假 for the break.
	if table.Rows[0].WeekLabel != "一" {
		t.Fatalf("week 1 label = %q", table.Rows[0].WeekLabel)
	}
	if table.Rows[9].WeekLabel != "十" {
		t.Fatalf("week 10 label = %q", table.Rows[9].WeekLabel)
	}
	if table.Rows[10].WeekLabel != "十一" {
		t.Fatalf("week 11 label = %q", table.Rows[10].WeekLabel)
	}
	if table.Rows[20].WeekLabel != "二十一" {
		t.Fatalf("week 21 label = %q", table.Rows[20].WeekLabel)
	}
	if table.Rows[21].WeekLabel != "放假" || table.Rows[22].WeekLabel != "放假" {
		t.Fatalf("final weeks = %q, %q, want 放假", table.Rows[21].WeekLabel, table.Rows[22].WeekLabel)
	}
}

func TestRender_MonthColumnMerged(t *testing.T) {
	r := NewRenderer(DefaultClassifier())
	table := r.Render("2025-08-31", nil, nil, model.ViewTeacher)

	// Starting 2025-08-31, the first four weeks' majority days fall in
	// September (09-03, 09-10, 09-17, 09-24); week five tips into October.
	for i := 0; i < 4; i++ {
		if table.Rows[i].MonthKey != "2025-09" {
			t.Fatalf("row %d month = %q, want 2025-09", i, table.Rows[i].MonthKey)
		}
	}
	if table.Rows[4].MonthKey != "2025-10" {
		t.Fatalf("row 4 month = %q, want 2025-10", table.Rows[4].MonthKey)
	}

	if table.Rows[0].MonthLabel != "9月" {
		t.Fatalf("month label = %q, want 9月", table.Rows[0].MonthLabel)
	}
	if table.Rows[0].MonthSpan != 4 {
		t.Fatalf("month span = %d, want 4", table.Rows[0].MonthSpan)
	}
	for i := 1; i < 4; i++ {
		if table.Rows[i].MonthSpan != 0 {
			t.Fatalf("row %d month span = %d, want 0 (suppressed)", i, table.Rows[i].MonthSpan)
		}
	}
}

func TestRender_NotesColumnMerged(t *testing.T) {
	r := NewRenderer(DefaultClassifier())
	notes := []model.Note{{ID: 1, Month: "2025-09", Content: "開學注意事項"}}
	table := r.Render("2025-08-31", nil, notes, model.ViewTeacher)

	// The four September rows share identical note content and merge; the
	// empty October cells never merge with each other.
	if table.Rows[0].NotesSpan != 4 {
		t.Fatalf("notes span = %d, want 4", table.Rows[0].NotesSpan)
	}
	for i := 1; i < 4; i++ {
		if table.Rows[i].NotesSpan != 0 {
			t.Fatalf("row %d notes span = %d, want 0", i, table.Rows[i].NotesSpan)
		}
	}
	if table.Rows[4].NotesSpan != 1 || table.Rows[5].NotesSpan != 1 {
		t.Fatalf("empty notes cells merged: %d, %d", table.Rows[4].NotesSpan, table.Rows[5].NotesSpan)
	}
}

func TestRender_EmptyStart(t *testing.T) {
	r := NewRenderer(DefaultClassifier())
	table := r.Render("", nil, nil, model.ViewTeacher)
	if len(table.Rows) != 0 {
		t.Fatalf("rows = %d, want 0 for empty start", len(table.Rows))
	}
}

func TestRender_HolidayOnlyInMonthNotes(t *testing.T) {
	r := NewRenderer(DefaultClassifier())
	events := []model.Event{
		{ID: 1, Date: "2025-10-10", EndDate: "2025-10-10", Desc: "國慶日放假"},
	}
	table := r.Render("2025-08-31", events, nil, model.ViewTeacher)

	foundInNotes := false
	for _, row := range table.Rows {
		for _, entry := range row.Summary {
			if entry.EventID == 1 {
				t.Fatalf("holiday leaked into week summary of row %q", row.WeekLabel)
			}
		}
		for _, entry := range row.Notes {
			if entry.EventID == 1 {
				foundInNotes = true
			}
		}
	}
	if !foundInNotes {
		t.Fatal("holiday missing from month notes column")
	}
}

func TestChineseNumeral(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "一"}, {5, "五"}, {10, "十"}, {11, "十一"}, {19, "十九"},
		{20, "二十"}, {21, "二十一"}, {99, "九十九"}, {100, "100"},
	}
	for _, tt := range tests {
		if got := chineseNumeral(tt.n); got != tt.want {
			t.Errorf("chineseNumeral(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
