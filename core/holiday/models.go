package holiday

import (
	"time"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core"
)

// Classification is the display classification of a holiday date relative to
// "now". It is derived, never stored: it must be recomputed on every query.
type Classification string

const (
	Past     Classification = "past"
	Today    Classification = "today"
	Upcoming Classification = "upcoming"
)

// Holiday marks a non-instructional date for one academic level.
// At most one Holiday exists per (LevelID, Date) pair.
type Holiday struct {
	ID        uuid.UUID `db:"id" json:"id"`
	LevelID   int       `db:"level_id" json:"level_id"`
	Date      time.Time `db:"date" json:"date"` // UTC midnight
	Reason    string    `db:"reason" json:"reason"`
	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"` // UTC
}

// Classify compares the holiday date with now, day-granular.
func (h Holiday) Classify(now time.Time) Classification {
	today := DateOnly(now)
	switch date := DateOnly(h.Date); {
	case date.Before(today):
		return Past
	case date.Equal(today):
		return Today
	default:
		return Upcoming
	}
}

// Info is a Holiday plus its classification at query time.
type Info struct {
	Holiday
	Classification Classification `json:"classification"`
}

// NewHoliday contains information needed to register a new Holiday.
type NewHoliday struct {
	LevelID int       `json:"level_id" validate:"required"`
	Date    time.Time `json:"date" validate:"required"`
	Reason  string    `json:"reason" validate:"required"`
}

func (nh *NewHoliday) Validate() error {
	nh.Reason = core.CleanString(nh.Reason)
	return core.Validate.Struct(nh)
}

// DateOnly truncates t to a UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
