package attendance

import (
	"context"
	"net/mail"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/holiday"
	"github.com/darasahq/darasa/core/role"
)

var (
	nowFunc = time.Now // mockable

	errReopenReasonRequired = errors.New("a reason is required to reopen attendance")
)

type (
	// Actor is the authenticated context attempting a transition.
	Actor struct {
		Username string
		Email    string
		Role     role.Role
	}

	Repository interface {
		CreateRecord(ctx context.Context, rec Record) (Record, error)
		GetRecord(ctx context.Context, id uuid.UUID) (Record, error)
		GetRecordByClassroomAndDate(ctx context.Context, classroomID string, date time.Time) (Record, error)
		// UpdateRecord persists the status change and the appended audit entry
		// as a single atomic write: both land or neither does.
		UpdateRecord(ctx context.Context, rec Record) (Record, error)
		QueryRecordsByClassroom(ctx context.Context, classroomID string) ([]Record, error)
	}

	Service struct {
		mu       sync.Mutex
		repo     Repository
		gate     holiday.Gate
		notifSvc core.NotificationService
	}
)

func NewService(repo Repository, gate holiday.Gate, notifSvc core.NotificationService) *Service {
	return &Service{repo: repo, gate: gate, notifSvc: notifSvc}
}

// Open returns the attendance record for a classroom and date, creating it in
// draft when the teacher opens the day's attendance for the first time.
func (svc *Service) Open(ctx context.Context, actor Actor, nr NewRecord) (Record, error) {
	if !role.CapabilitiesFor(actor.Role).Allows(role.CanSubmitAttendance) {
		return Record{}, &AuthorizationError{Role: string(actor.Role), Action: "open"}
	}
	if err := nr.Validate(); err != nil {
		return Record{}, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	date := holiday.DateOnly(nr.Date)
	if rec, err := svc.repo.GetRecordByClassroomAndDate(ctx, nr.ClassroomID, date); err == nil {
		return rec, nil
	} else if err != ErrNotFound {
		return Record{}, errors.Wrap(err, "finding attendance record")
	}

	now := nowFunc().UTC()
	rec := Record{
		ID:          uuid.New(),
		ClassroomID: nr.ClassroomID,
		LevelID:     nr.LevelID,
		Date:        date,
		Status:      StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateRecord(ctx, rec)
}

func (svc *Service) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	return svc.repo.GetRecord(ctx, id)
}

func (svc *Service) QueryByClassroom(ctx context.Context, classroomID string) ([]Record, error) {
	return svc.repo.QueryRecordsByClassroom(ctx, classroomID)
}

// Submit moves a draft record to submitted. The record's date must not be a
// holiday for its level.
func (svc *Service) Submit(ctx context.Context, actor Actor, id uuid.UUID) (Record, error) {
	return svc.transition(ctx, actor, id, ActionSubmit, "")
}

// Review moves a submitted record to under_review.
func (svc *Service) Review(ctx context.Context, actor Actor, id uuid.UUID) (Record, error) {
	return svc.transition(ctx, actor, id, ActionReview, "")
}

// Finalize moves an under_review record to final.
func (svc *Service) Finalize(ctx context.Context, actor Actor, id uuid.UUID) (Record, error) {
	return svc.transition(ctx, actor, id, ActionFinalize, "")
}

// Reopen moves a final record back to draft. A non-empty reason is required
// and is recorded in the audit trail.
func (svc *Service) Reopen(ctx context.Context, actor Actor, id uuid.UUID, reason string) (Record, error) {
	return svc.transition(ctx, actor, id, ActionReopen, reason)
}

// transition applies one edge of the workflow, all-or-nothing. Checks run in
// a fixed order: role authorization, then status precondition, then payload
// validation, so a caller with the wrong role always gets the authorization
// failure first. Check and write happen under one lock, which is what rejects
// the stale second call of a double-submit.
func (svc *Service) transition(ctx context.Context, actor Actor, id uuid.UUID, action Action, reason string) (Record, error) {
	t := transitions[action]

	if !role.CapabilitiesFor(actor.Role).Allows(t.capability) {
		return Record{}, &AuthorizationError{Role: string(actor.Role), Action: action}
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	rec, err := svc.repo.GetRecord(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if rec.Status != t.from {
		return Record{}, &TransitionError{Action: action, Status: rec.Status}
	}

	if action == ActionSubmit {
		isHol, err := svc.gate.IsHoliday(ctx, rec.LevelID, rec.Date)
		if err != nil {
			return Record{}, &TransportError{Op: action, Err: err}
		}
		if isHol {
			return Record{}, &TransitionError{Action: action, Status: rec.Status, Reason: "date is a holiday for this level"}
		}
	}

	if action == ActionReopen {
		reason = core.CleanString(reason)
		if reason == "" {
			return Record{}, core.NewValidationError(errReopenReasonRequired,
				core.FieldError{Field: "reason", Error: "this field is required"})
		}
	}

	now := nowFunc().UTC()
	next := rec
	next.Status = t.to
	next.UpdatedAt = now
	next.Audit = append(append([]AuditEntry(nil), rec.Audit...), AuditEntry{
		Actor:  actor.Username,
		Role:   actor.Role,
		At:     now,
		From:   rec.Status,
		To:     t.to,
		Reason: reason,
	})

	// The new status is only authoritative once the persistence layer has
	// acknowledged it; on failure the loaded copy is discarded and the record
	// keeps its pre-transition state.
	saved, err := svc.repo.UpdateRecord(ctx, next)
	if err != nil {
		return Record{}, &TransportError{Op: action, Err: err}
	}

	svc.notify(actor, action, saved)
	return saved, nil
}

var actionMessages = map[Action]string{
	ActionSubmit:   "Attendance submitted for review",
	ActionReview:   "Attendance is now under review",
	ActionFinalize: "Attendance finalized",
	ActionReopen:   "Attendance reopened for correction",
}

func (svc *Service) notify(actor Actor, action Action, rec Record) {
	if svc.notifSvc == nil {
		return
	}
	svc.notifSvc.Send(core.Notification{
		Recipient: mail.Address{Name: actor.Username, Address: actor.Email},
		Message:   actionMessages[action] + " (" + rec.ClassroomID + ", " + rec.Date.Format("2006-01-02") + ")",
		Success:   true,
	})
}
