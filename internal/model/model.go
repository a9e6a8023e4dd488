package model

// ViewMode selects which audience a rendered schedule targets. The parent
// view hides events flagged teacher-only; everything else is identical.
type ViewMode string

const (
	ViewTeacher ViewMode = "teacher"
	ViewParent  ViewMode = "parent"
)

// ParseViewMode maps an externally supplied string to a ViewMode,
// defaulting to the teacher view for unknown values.
func ParseViewMode(s string) ViewMode {
	if s == string(ViewParent) {
		return ViewParent
	}
	return ViewTeacher
}

// Category is the display category derived from an event's description.
type Category string

const (
	CategoryExam        Category = "exam"
	CategoryTrip        Category = "trip"
	CategoryCelebration Category = "celebration"
	CategoryHoliday     Category = "holiday"
	CategoryNone        Category = ""
)

// Event is a single- or multi-day schedule entry. Dates are ISO calendar
// day strings ("2006-01-02") with no time component; ISO ordering makes
// lexical comparison chronological, so the code compares them directly.
type Event struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`        // inclusive start
	EndDate     string `json:"endDate"`     // inclusive end, >= Date; empty means Date
	Desc        string `json:"desc"`        // free text; drives classification
	TeacherOnly bool   `json:"teacherOnly"` // hidden in the parent view
}

// End returns the effective inclusive end date, falling back to the start
// date when EndDate was never set.
func (e Event) End() string {
	if e.EndDate == "" {
		return e.Date
	}
	return e.EndDate
}

// SingleDay reports whether the event starts and ends on the same day.
func (e Event) SingleDay() bool {
	return e.End() == e.Date
}

// Covers reports whether the event covers the given calendar day.
func (e Event) Covers(day string) bool {
	return e.Date <= day && day <= e.End()
}

// Note is a free-text remark attached to a whole month ("2006-01").
type Note struct {
	ID      int64  `json:"id"`
	Month   string `json:"month"`
	Content string `json:"content"`
}
