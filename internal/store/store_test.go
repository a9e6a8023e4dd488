package store

import (
	"errors"
	"path/filepath"
	"testing"

	"termcal/internal/model"
)

func testDefaults() Defaults {
	return Defaults{SemesterStart: "2025-08-31", TitleYear: 114, TitleSemester: 1}
}

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "termcal.db")
	s, err := Open(path, testDefaults())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestOpen_Defaults(t *testing.T) {
	s, _ := openTestStore(t)

	got := s.Settings()
	if got.SemesterStart != "2025-08-31" || got.TitleYear != 114 || got.TitleSemester != 1 {
		t.Fatalf("settings = %+v", got)
	}
	if n := len(s.Events()); n != 0 {
		t.Fatalf("events = %d, want 0", n)
	}
	if n := len(s.Notes()); n != 0 {
		t.Fatalf("notes = %d, want 0", n)
	}
}

func TestAddEvent_Validation(t *testing.T) {
	s, _ := openTestStore(t)

	tests := []struct {
		name    string
		date    string
		end     string
		desc    string
		wantErr error
	}{
		{name: "missing date", date: "", desc: "x", wantErr: ErrMissingDate},
		{name: "missing desc", date: "2025-09-01", desc: "", wantErr: ErrMissingDesc},
		{name: "bad date", date: "09/01/2025", desc: "x", wantErr: ErrInvalidDate},
		{name: "bad end date", date: "2025-09-01", end: "tomorrow", desc: "x", wantErr: ErrInvalidDate},
		{name: "end before start", date: "2025-09-05", end: "2025-09-01", desc: "x", wantErr: ErrEndBeforeStart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.AddEvent(tt.date, tt.end, tt.desc, false); !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddEvent() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Every rejected mutation must leave the store untouched.
	if n := len(s.Events()); n != 0 {
		t.Fatalf("events = %d after rejected adds, want 0", n)
	}
}

func TestAddEvent_EndDateDefaults(t *testing.T) {
	s, _ := openTestStore(t)

	ev, err := s.AddEvent("2025-09-10", "", "段考", false)
	if err != nil {
		t.Fatalf("AddEvent: %v", err)
	}
	if ev.EndDate != "2025-09-10" || !ev.SingleDay() {
		t.Fatalf("event = %+v", ev)
	}
}

func TestAddEvent_IDsAscend(t *testing.T) {
	s, _ := openTestStore(t)

	a, err := s.AddEvent("2025-09-01", "", "first", false)
	if err != nil {
		t.Fatalf("AddEvent: %v", err)
	}
	b, err := s.AddEvent("2025-09-02", "", "second", false)
	if err != nil {
		t.Fatalf("AddEvent: %v", err)
	}
	n, err := s.AddNote("2025-09", "note")
	if err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if !(a.ID < b.ID && b.ID < n.ID) {
		t.Fatalf("ids not ascending: %d, %d, %d", a.ID, b.ID, n.ID)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "termcal.db")

	s, err := Open(path, testDefaults())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ev, err := s.AddEvent("2025-09-23", "2025-09-26", "校外教學", true)
	if err != nil {
		t.Fatalf("AddEvent: %v", err)
	}
	if _, err := s.AddNote("2025-09", "開學注意事項"); err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if err := s.SetSemesterStart("2026-02-15"); err != nil {
		t.Fatalf("SetSemesterStart: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path, testDefaults())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	events := s2.Events()
	if len(events) != 1 || events[0] != ev {
		t.Fatalf("events after reopen = %+v, want %+v", events, ev)
	}
	if notes := s2.Notes(); len(notes) != 1 || notes[0].Content != "開學注意事項" {
		t.Fatalf("notes after reopen = %+v", notes)
	}
	if got := s2.Settings().SemesterStart; got != "2026-02-15" {
		t.Fatalf("semester start after reopen = %q", got)
	}

	// The id counter must resume past persisted ids.
	ev2, err := s2.AddEvent("2025-10-01", "", "later", false)
	if err != nil {
		t.Fatalf("AddEvent after reopen: %v", err)
	}
	if ev2.ID <= ev.ID {
		t.Fatalf("new id %d not past persisted id %d", ev2.ID, ev.ID)
	}
}

func TestDeleteEvent(t *testing.T) {
	s, _ := openTestStore(t)

	ev, _ := s.AddEvent("2025-09-01", "", "x", false)

	deleted, err := s.DeleteEvent(ev.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteEvent = %v, %v", deleted, err)
	}
	if n := len(s.Events()); n != 0 {
		t.Fatalf("events = %d, want 0", n)
	}

	deleted, err = s.DeleteEvent(ev.ID)
	if err != nil || deleted {
		t.Fatalf("second DeleteEvent = %v, %v, want no-op", deleted, err)
	}
}

func TestDeleteNote(t *testing.T) {
	s, _ := openTestStore(t)

	n, _ := s.AddNote("2025-09", "x")
	deleted, err := s.DeleteNote(n.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteNote = %v, %v", deleted, err)
	}
	if deleted, _ := s.DeleteNote(n.ID); deleted {
		t.Fatal("second DeleteNote should be a no-op")
	}
}

func TestReplaceAll(t *testing.T) {
	s, _ := openTestStore(t)

	old, _ := s.AddEvent("2025-09-01", "", "old", false)

	// Incoming records carry ids that must be discarded.
	err := s.ReplaceAll(
		[]model.Event{
			{ID: 999, Date: "2025-10-10", Desc: "國慶日放假"},
			{ID: 999, Date: "2025-10-24", Desc: "補假", TeacherOnly: true},
		},
		[]model.Note{{ID: 999, Month: "2025-10", Content: "note"}},
	)
	if err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	events := s.Events()
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].ID == 999 || events[1].ID == 999 {
		t.Fatal("imported ids were preserved")
	}
	if events[0].ID <= old.ID || events[1].ID <= events[0].ID {
		t.Fatalf("fresh ids not ascending past %d: %d, %d", old.ID, events[0].ID, events[1].ID)
	}
	// Replace is not a merge.
	for _, e := range events {
		if e.Desc == "old" {
			t.Fatal("previous event survived the replace")
		}
	}
	if events[0].EndDate != "2025-10-10" {
		t.Fatalf("end date not defaulted on import: %+v", events[0])
	}

	notes := s.Notes()
	if len(notes) != 1 || notes[0].ID == 999 {
		t.Fatalf("notes = %+v", notes)
	}
}

func TestSettingsClamping(t *testing.T) {
	s, _ := openTestStore(t)

	if got, _ := s.SetTitleYear(50); got != 100 {
		t.Fatalf("SetTitleYear(50) = %d, want 100", got)
	}
	if got, _ := s.SetTitleYear(1500); got != 999 {
		t.Fatalf("SetTitleYear(1500) = %d, want 999", got)
	}
	if got, _ := s.SetTitleSemester(0); got != 1 {
		t.Fatalf("SetTitleSemester(0) = %d, want 1", got)
	}
	if got, _ := s.SetTitleSemester(3); got != 2 {
		t.Fatalf("SetTitleSemester(3) = %d, want 2", got)
	}

	if err := s.SetSemesterStart("not-a-date"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("SetSemesterStart error = %v, want ErrInvalidDate", err)
	}
}
