package domain

import "time"

// TimeOfDay labels which of the day's editions a run belongs to.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

// ClassifyTimeOfDay buckets a local clock time: 00-08 morning, 08-16
// afternoon, 16-24 evening.
func ClassifyTimeOfDay(t time.Time) TimeOfDay {
	switch h := t.Hour(); {
	case h < 8:
		return Morning
	case h < 16:
		return Afternoon
	default:
		return Evening
	}
}

// Rank orders editions within a single day.
func (t TimeOfDay) Rank() int {
	switch t {
	case Morning:
		return 0
	case Afternoon:
		return 1
	case Evening:
		return 2
	default:
		return 3
	}
}

// Title returns the capitalized label used in index documents.
func (t TimeOfDay) Title() string {
	if t == "" {
		return ""
	}
	s := string(t)
	return string(s[0]-'a'+'A') + s[1:]
}

// EditionKey identifies one edition in the document tree.
type EditionKey struct {
	LocalDate string
	TimeOfDay TimeOfDay
}

// Less orders keys chronologically: by date, then by time of day.
func (k EditionKey) Less(other EditionKey) bool {
	if k.LocalDate != other.LocalDate {
		return k.LocalDate < other.LocalDate
	}
	return k.TimeOfDay.Rank() < other.TimeOfDay.Rank()
}

// Edition is the unit of one pipeline run: all articles summarized for a
// given date and time of day. Articles grows append-only; every append is
// followed by a full flush of the feed snapshot.
type Edition struct {
	LocalDate string           `json:"local_date"`
	TimeOfDay TimeOfDay        `json:"time_of_day"`
	LocalTime string           `json:"local_time"`
	Articles  []ArticleSummary `json:"articles"`
}

// NewEdition keys a fresh edition off the run's start instant. The key is
// computed once so every artifact of the run shares it, even when the run
// straddles midnight.
func NewEdition(now time.Time) *Edition {
	return &Edition{
		LocalDate: now.Format("2006-01-02"),
		TimeOfDay: ClassifyTimeOfDay(now),
		LocalTime: now.Format("15:04:05"),
		Articles:  []ArticleSummary{},
	}
}

// Append adds a completed summary to the edition.
func (e *Edition) Append(summary ArticleSummary) {
	e.Articles = append(e.Articles, summary)
}

// Key returns the edition's document-tree key.
func (e *Edition) Key() EditionKey {
	return EditionKey{LocalDate: e.LocalDate, TimeOfDay: e.TimeOfDay}
}
