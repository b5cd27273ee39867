package attendance

import (
	"time"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/role"
)

// Status represents the review status of an attendance record.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusFinal       Status = "final"
)

// Valid returns true when the status is a supported value.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusFinal:
		return true
	default:
		return false
	}
}

// Action is a named transition of the attendance workflow.
type Action string

const (
	ActionSubmit   Action = "submit"
	ActionReview   Action = "review"
	ActionFinalize Action = "finalize"
	ActionReopen   Action = "reopen"
)

// AuditEntry records one status change. The audit trail is append-only:
// From always equals the record's status immediately before the entry
// was appended.
type AuditEntry struct {
	Actor  string    `json:"actor"`
	Role   role.Role `json:"role"`
	At     time.Time `json:"at"` // UTC
	From   Status    `json:"from"`
	To     Status    `json:"to"`
	Reason string    `json:"reason,omitempty"` // reopen only
}

// Record is one classroom's attendance for one calendar date.
// Records are never physically deleted; they are retained for audit.
type Record struct {
	ID          uuid.UUID    `json:"id"`
	ClassroomID string       `json:"classroom_id"`
	LevelID     int          `json:"level_id"`
	Date        time.Time    `json:"date"` // UTC midnight
	Status      Status       `json:"status"`
	Audit       []AuditEntry `json:"audit"`
	CreatedAt   time.Time    `json:"created_at"` // UTC
	UpdatedAt   time.Time    `json:"updated_at"` // UTC
}

// NewRecord contains information needed to open a day's attendance draft.
type NewRecord struct {
	ClassroomID string    `json:"classroom_id" validate:"required"`
	LevelID     int       `json:"level_id" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
}

func (nr *NewRecord) Validate() error {
	nr.ClassroomID = core.CleanString(nr.ClassroomID)
	return core.Validate.Struct(nr)
}
