package store

import (
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"termcal/internal/model"
	"termcal/internal/schedule"
)

// Validation failures surfaced to the caller. Every one of them leaves the
// store exactly as it was.
var (
	ErrMissingDate    = errors.New("event date is required")
	ErrMissingDesc    = errors.New("event description is required")
	ErrInvalidDate    = errors.New("event date is not a valid calendar day")
	ErrEndBeforeStart = errors.New("end date is earlier than start date")
	ErrMissingMonth   = errors.New("note month is required")
	ErrMissingContent = errors.New("note content is required")
)

// Settings are the scalar term configuration values kept alongside the
// collections.
type Settings struct {
	SemesterStart string `json:"semesterStart"`
	TitleYear     int    `json:"titleYear"`
	TitleSemester int    `json:"titleSemester"`
}

// Store owns the event and note collections plus the term settings. All
// mutation goes through its methods; each mutation is persisted to the
// backing key-value table before it becomes visible, so a persistence
// failure leaves both memory and disk unchanged.
type Store struct {
	mu sync.Mutex
	kv keyValue

	events   []model.Event
	notes    []model.Note
	settings Settings
	nextID   int64
}

// keyValue is the persistence collaborator: string values under string
// keys, no transactional guarantees beyond its own.
type keyValue interface {
	Get(key string) (string, bool, error)
	Set(key string, value string) error
	SetMany(pairs map[string]string) error
	Close() error
}

// Persistence keys.
const (
	keyEvents        = "events"
	keyNotes         = "notes"
	keySemesterStart = "semester_start"
	keyTitleYear     = "title_year"
	keyTitleSemester = "title_semester"
)

// Defaults applied when a key is absent at startup.
type Defaults struct {
	SemesterStart string
	TitleYear     int
	TitleSemester int
}

// Open opens (creating if needed) the SQLite-backed store at path and loads
// all collections into memory, falling back to the given defaults for
// missing keys.
func Open(path string, def Defaults) (*Store, error) {
	kv, err := openSQLiteKV(path)
	if err != nil {
		return nil, err
	}
	s := &Store{kv: kv}
	if err := s.load(def); err != nil {
		kv.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) load(def Defaults) error {
	if err := loadJSON(s.kv, keyEvents, &s.events); err != nil {
		return err
	}
	if err := loadJSON(s.kv, keyNotes, &s.notes); err != nil {
		return err
	}

	start, ok, err := s.kv.Get(keySemesterStart)
	if err != nil {
		return err
	}
	if !ok || start == "" {
		start = def.SemesterStart
	}
	s.settings.SemesterStart = start

	s.settings.TitleYear, err = loadInt(s.kv, keyTitleYear, def.TitleYear)
	if err != nil {
		return err
	}
	s.settings.TitleSemester, err = loadInt(s.kv, keyTitleSemester, def.TitleSemester)
	if err != nil {
		return err
	}

	// Seed the id counter past anything already stored so creation order
	// keeps matching id order. Bulk imports draw from the same counter,
	// so rapid inserts cannot collide the way timestamp ids could.
	s.nextID = time.Now().UnixMilli()
	for _, e := range s.events {
		if e.ID >= s.nextID {
			s.nextID = e.ID + 1
		}
	}
	for _, n := range s.notes {
		if n.ID >= s.nextID {
			s.nextID = n.ID + 1
		}
	}
	return nil
}

func loadJSON(kv keyValue, key string, out any) error {
	raw, ok, err := kv.Get(key)
	if err != nil {
		return err
	}
	if !ok || raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}

func loadInt(kv keyValue, key string, def int) (int, error) {
	raw, ok, err := kv.Get(key)
	if err != nil {
		return 0, err
	}
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// A corrupt scalar falls back to the default rather than failing
		// startup; the next settings write repairs it.
		return def, nil
	}
	return n, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Close()
}

// Events returns a copy of the event collection.
func (s *Store) Events() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Notes returns a copy of the note collection.
func (s *Store) Notes() []model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Settings returns the current term settings.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// AddEvent validates and appends a new event, persisting before it becomes
// visible. An empty end date defaults to the start date.
func (s *Store) AddEvent(date, endDate, desc string, teacherOnly bool) (model.Event, error) {
	if date == "" {
		return model.Event{}, ErrMissingDate
	}
	if desc == "" {
		return model.Event{}, ErrMissingDesc
	}
	if _, err := schedule.ParseDay(date); err != nil {
		return model.Event{}, ErrInvalidDate
	}
	if endDate == "" {
		endDate = date
	}
	if _, err := schedule.ParseDay(endDate); err != nil {
		return model.Event{}, ErrInvalidDate
	}
	if endDate < date {
		return model.Event{}, ErrEndBeforeStart
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev := model.Event{
		ID:          s.nextID,
		Date:        date,
		EndDate:     endDate,
		Desc:        desc,
		TeacherOnly: teacherOnly,
	}
	next := append(append([]model.Event{}, s.events...), ev)
	if err := s.persistEvents(next); err != nil {
		return model.Event{}, err
	}
	s.events = next
	s.nextID++
	return ev, nil
}

// AddNote validates and appends a new monthly note.
func (s *Store) AddNote(month, content string) (model.Note, error) {
	if month == "" {
		return model.Note{}, ErrMissingMonth
	}
	if content == "" {
		return model.Note{}, ErrMissingContent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := model.Note{ID: s.nextID, Month: month, Content: content}
	next := append(append([]model.Note{}, s.notes...), n)
	if err := s.persistNotes(next); err != nil {
		return model.Note{}, err
	}
	s.notes = next
	s.nextID++
	return n, nil
}

// DeleteEvent removes the event with the given id. It reports whether an
// event was actually removed.
func (s *Store) DeleteEvent(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Event, 0, len(s.events))
	for _, e := range s.events {
		if e.ID != id {
			next = append(next, e)
		}
	}
	if len(next) == len(s.events) {
		return false, nil
	}
	if err := s.persistEvents(next); err != nil {
		return false, err
	}
	s.events = next
	return true, nil
}

// DeleteNote removes the note with the given id. It reports whether a note
// was actually removed.
func (s *Store) DeleteNote(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Note, 0, len(s.notes))
	for _, n := range s.notes {
		if n.ID != id {
			next = append(next, n)
		}
	}
	if len(next) == len(s.notes) {
		return false, nil
	}
	if err := s.persistNotes(next); err != nil {
		return false, err
	}
	s.notes = next
	return true, nil
}

// ReplaceAll atomically replaces both collections, assigning fresh ids in
// input order. Incoming ids are discarded. This is the import path; it is
// never a merge.
func (s *Store) ReplaceAll(events []model.Event, notes []model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	newEvents := make([]model.Event, 0, len(events))
	id := s.nextID
	for _, e := range events {
		e.ID = id
		id++
		if e.EndDate == "" {
			e.EndDate = e.Date
		}
		newEvents = append(newEvents, e)
	}
	newNotes := make([]model.Note, 0, len(notes))
	for _, n := range notes {
		n.ID = id
		id++
		newNotes = append(newNotes, n)
	}

	pairs := map[string]string{}
	eventsRaw, err := json.Marshal(newEvents)
	if err != nil {
		return err
	}
	notesRaw, err := json.Marshal(newNotes)
	if err != nil {
		return err
	}
	pairs[keyEvents] = string(eventsRaw)
	pairs[keyNotes] = string(notesRaw)
	if err := s.kv.SetMany(pairs); err != nil {
		return err
	}

	s.events = newEvents
	s.notes = newNotes
	s.nextID = id
	return nil
}

// SetSemesterStart updates the term start date.
func (s *Store) SetSemesterStart(date string) error {
	if date == "" {
		return ErrMissingDate
	}
	if _, err := schedule.ParseDay(date); err != nil {
		return ErrInvalidDate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(keySemesterStart, date); err != nil {
		return err
	}
	s.settings.SemesterStart = date
	return nil
}

// SetTitleYear updates the title year, clamped to 100-999.
func (s *Store) SetTitleYear(year int) (int, error) {
	if year < 100 {
		year = 100
	} else if year > 999 {
		year = 999
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(keyTitleYear, strconv.Itoa(year)); err != nil {
		return 0, err
	}
	s.settings.TitleYear = year
	return year, nil
}

// SetTitleSemester updates the title semester, clamped to 1-2.
func (s *Store) SetTitleSemester(sem int) (int, error) {
	if sem < 1 {
		sem = 1
	} else if sem > 2 {
		sem = 2
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(keyTitleSemester, strconv.Itoa(sem)); err != nil {
		return 0, err
	}
	s.settings.TitleSemester = sem
	return sem, nil
}

func (s *Store) persistEvents(events []model.Event) error {
	raw, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return s.kv.Set(keyEvents, string(raw))
}

func (s *Store) persistNotes(notes []model.Note) error {
	raw, err := json.Marshal(notes)
	if err != nil {
		return err
	}
	return s.kv.Set(keyNotes, string(raw))
}
