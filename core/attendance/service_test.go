package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/role"
)

// fakeRepo is an in-memory Repository double.
type fakeRepo struct {
	records map[uuid.UUID]Record
	failing bool // every write fails with a transport-level error
	updates int
}

var errBoom = errors.New("connection reset by peer")

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[uuid.UUID]Record)}
}

func (r *fakeRepo) CreateRecord(ctx context.Context, rec Record) (Record, error) {
	if r.failing {
		return Record{}, errBoom
	}
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *fakeRepo) GetRecord(ctx context.Context, id uuid.UUID) (Record, error) {
	if rec, ok := r.records[id]; ok {
		return rec, nil
	}
	return Record{}, ErrNotFound
}

func (r *fakeRepo) GetRecordByClassroomAndDate(ctx context.Context, classroomID string, date time.Time) (Record, error) {
	for _, rec := range r.records {
		if rec.ClassroomID == classroomID && rec.Date.Equal(date) {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

func (r *fakeRepo) UpdateRecord(ctx context.Context, rec Record) (Record, error) {
	if r.failing {
		return Record{}, errBoom
	}
	if _, ok := r.records[rec.ID]; !ok {
		return Record{}, ErrNotFound
	}
	r.records[rec.ID] = rec
	r.updates++
	return rec, nil
}

func (r *fakeRepo) QueryRecordsByClassroom(ctx context.Context, classroomID string) ([]Record, error) {
	var recs []Record
	for _, rec := range r.records {
		if rec.ClassroomID == classroomID {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

// fakeGate marks a fixed set of dates as holidays.
type fakeGate struct {
	holidays map[string]bool
}

func (g *fakeGate) IsHoliday(ctx context.Context, levelID int, date time.Time) (bool, error) {
	return g.holidays[date.Format("2006-01-02")], nil
}

// fakeNotifier captures notifications.
type fakeNotifier struct {
	sent []core.Notification
}

func (n *fakeNotifier) Send(notifications ...core.Notification) {
	n.sent = append(n.sent, notifications...)
}

var (
	teacher     = Actor{Username: "mwalimu", Email: "mwalimu@test.cd", Role: role.Teacher}
	coordinator = Actor{Username: "coord", Email: "coord@test.cd", Role: role.Coordinator}
	guest       = Actor{Username: "nobody", Role: role.Guest}

	schoolDay = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC) // a Monday
)

func setup(t *testing.T) (*Service, *fakeRepo, *fakeGate, *fakeNotifier) {
	t.Helper()
	repo := newFakeRepo()
	gate := &fakeGate{holidays: make(map[string]bool)}
	notifier := &fakeNotifier{}
	return NewService(repo, gate, notifier), repo, gate, notifier
}

func openRecord(t *testing.T, svc *Service, classroomID string, date time.Time) Record {
	t.Helper()
	rec, err := svc.Open(context.Background(), teacher, NewRecord{ClassroomID: classroomID, LevelID: 1, Date: date})
	if err != nil {
		t.Fatalf("openRecord() failed: %v", err)
	}
	return rec
}

func TestService_Open(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := context.Background()

	rec := openRecord(t, svc, "8A", schoolDay)
	if rec.Status != StatusDraft {
		t.Errorf("Open() status = %v; want %v", rec.Status, StatusDraft)
	}
	if len(rec.Audit) != 0 {
		t.Errorf("Open() audit len = %d; want 0", len(rec.Audit))
	}

	// opening the same classroom/date again returns the existing record
	again, err := svc.Open(ctx, teacher, NewRecord{ClassroomID: "8A", LevelID: 1, Date: schoolDay})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if again.ID != rec.ID {
		t.Errorf("Open() created a duplicate record")
	}

	// a coordinator does not take attendance
	if _, err := svc.Open(ctx, coordinator, NewRecord{ClassroomID: "8B", LevelID: 1, Date: schoolDay}); !IsAuthorizationDenied(err) {
		t.Errorf("Open() error = %v; want AuthorizationError", err)
	}
}

func TestService_workflow(t *testing.T) {
	svc, _, _, notifier := setup(t)
	ctx := context.Background()
	rec := openRecord(t, svc, "8A", schoolDay)

	rec, err := svc.Submit(ctx, teacher, rec.ID)
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if rec.Status != StatusSubmitted {
		t.Errorf("Submit() status = %v; want %v", rec.Status, StatusSubmitted)
	}

	rec, err = svc.Review(ctx, coordinator, rec.ID)
	if err != nil {
		t.Fatalf("Review() failed: %v", err)
	}
	if rec.Status != StatusUnderReview {
		t.Errorf("Review() status = %v; want %v", rec.Status, StatusUnderReview)
	}

	rec, err = svc.Finalize(ctx, coordinator, rec.ID)
	if err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	if rec.Status != StatusFinal {
		t.Errorf("Finalize() status = %v; want %v", rec.Status, StatusFinal)
	}

	rec, err = svc.Reopen(ctx, coordinator, rec.ID, "data entry error")
	if err != nil {
		t.Fatalf("Reopen() failed: %v", err)
	}
	if rec.Status != StatusDraft {
		t.Errorf("Reopen() status = %v; want %v", rec.Status, StatusDraft)
	}

	// the audit trail has exactly four causally ordered entries
	wantAudit := []struct {
		from, to Status
		actor    string
		reason   string
	}{
		{StatusDraft, StatusSubmitted, "mwalimu", ""},
		{StatusSubmitted, StatusUnderReview, "coord", ""},
		{StatusUnderReview, StatusFinal, "coord", ""},
		{StatusFinal, StatusDraft, "coord", "data entry error"},
	}
	if len(rec.Audit) != len(wantAudit) {
		t.Fatalf("audit len = %d; want %d", len(rec.Audit), len(wantAudit))
	}
	for i, want := range wantAudit {
		entry := rec.Audit[i]
		if entry.From != want.from || entry.To != want.to || entry.Actor != want.actor || entry.Reason != want.reason {
			t.Errorf("audit[%d] = %+v; want %+v", i, entry, want)
		}
	}

	assert.Len(t, notifier.sent, 4)
}

func TestService_transitionDenied(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func(rec Record) error
	}{
		{name: "submit out of draft", call: func(rec Record) error {
			_, _ = svc.Submit(ctx, teacher, rec.ID)
			_, err := svc.Submit(ctx, teacher, rec.ID)
			return err
		}},
		{name: "review before submit", call: func(rec Record) error {
			_, err := svc.Review(ctx, coordinator, rec.ID)
			return err
		}},
		{name: "finalize before review", call: func(rec Record) error {
			_, err := svc.Finalize(ctx, coordinator, rec.ID)
			return err
		}},
		{name: "reopen before final", call: func(rec Record) error {
			_, err := svc.Reopen(ctx, coordinator, rec.ID, "oops")
			return err
		}},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := openRecord(t, svc, "9"+string(rune('A'+i)), schoolDay)
			if err := tt.call(rec); !IsTransitionDenied(err) {
				t.Errorf("error = %v; want TransitionError", err)
			}
		})
	}
}

func TestService_authorizationPrecedence(t *testing.T) {
	// a caller with the wrong role gets the authorization failure even when
	// the status precondition would fail too
	svc, _, _, _ := setup(t)
	ctx := context.Background()
	rec := openRecord(t, svc, "8A", schoolDay)

	// record is draft: review would fail on status anyway, but the teacher
	// must hear about the role first
	if _, err := svc.Review(ctx, teacher, rec.ID); !IsAuthorizationDenied(err) {
		t.Errorf("Review() error = %v; want AuthorizationError", err)
	}
	// same for a guest on submit
	if _, err := svc.Submit(ctx, guest, rec.ID); !IsAuthorizationDenied(err) {
		t.Errorf("Submit() error = %v; want AuthorizationError", err)
	}
	// and the wrong-role submit by the coordinator
	if _, err := svc.Submit(ctx, coordinator, rec.ID); !IsAuthorizationDenied(err) {
		t.Errorf("Submit() error = %v; want AuthorizationError", err)
	}
}

func TestService_reopenRequiresReason(t *testing.T) {
	svc, repo, _, _ := setup(t)
	ctx := context.Background()
	rec := openRecord(t, svc, "8A", schoolDay)
	_, _ = svc.Submit(ctx, teacher, rec.ID)
	_, _ = svc.Review(ctx, coordinator, rec.ID)
	_, _ = svc.Finalize(ctx, coordinator, rec.ID)

	for _, reason := range []string{"", "   ", "\t\n"} {
		if _, err := svc.Reopen(ctx, coordinator, rec.ID, reason); !core.IsValidationError(err) {
			t.Errorf("Reopen(%q) error = %v; want ValidationError", reason, err)
		}
	}

	// status unchanged, no audit entry appended
	got, _ := repo.GetRecord(ctx, rec.ID)
	if got.Status != StatusFinal {
		t.Errorf("status = %v; want %v", got.Status, StatusFinal)
	}
	if len(got.Audit) != 3 {
		t.Errorf("audit len = %d; want 3", len(got.Audit))
	}
}

func TestService_submitBlockedOnHoliday(t *testing.T) {
	svc, repo, gate, _ := setup(t)
	ctx := context.Background()
	rec := openRecord(t, svc, "8A", schoolDay)
	gate.holidays[schoolDay.Format("2006-01-02")] = true

	if _, err := svc.Submit(ctx, teacher, rec.ID); !IsTransitionDenied(err) {
		t.Errorf("Submit() error = %v; want TransitionError", err)
	}
	got, _ := repo.GetRecord(ctx, rec.ID)
	if got.Status != StatusDraft {
		t.Errorf("status = %v; want %v", got.Status, StatusDraft)
	}
	if len(got.Audit) != 0 {
		t.Errorf("audit len = %d; want 0", len(got.Audit))
	}

	// a record reopened into draft stays blocked until the holiday is removed
	gate.holidays[schoolDay.Format("2006-01-02")] = false
	_, _ = svc.Submit(ctx, teacher, rec.ID)
	_, _ = svc.Review(ctx, coordinator, rec.ID)
	_, _ = svc.Finalize(ctx, coordinator, rec.ID)
	_, _ = svc.Reopen(ctx, coordinator, rec.ID, "late correction")
	gate.holidays[schoolDay.Format("2006-01-02")] = true
	if _, err := svc.Submit(ctx, teacher, rec.ID); !IsTransitionDenied(err) {
		t.Errorf("Submit() after reopen error = %v; want TransitionError", err)
	}
}

func TestService_doubleSubmit(t *testing.T) {
	svc, repo, _, notifier := setup(t)
	ctx := context.Background()
	rec := openRecord(t, svc, "8A", schoolDay)

	if _, err := svc.Submit(ctx, teacher, rec.ID); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	// the second, now-stale call is rejected by the precondition check
	if _, err := svc.Submit(ctx, teacher, rec.ID); !IsTransitionDenied(err) {
		t.Errorf("second Submit() error = %v; want TransitionError", err)
	}

	got, _ := repo.GetRecord(ctx, rec.ID)
	if got.Status != StatusSubmitted {
		t.Errorf("status = %v; want %v", got.Status, StatusSubmitted)
	}
	if len(got.Audit) != 1 {
		t.Errorf("audit len = %d; want 1", len(got.Audit))
	}
	if repo.updates != 1 {
		t.Errorf("repo updates = %d; want 1", repo.updates)
	}
	assert.Len(t, notifier.sent, 1)
}

func TestService_transportRollback(t *testing.T) {
	svc, repo, _, notifier := setup(t)
	ctx := context.Background()
	rec := openRecord(t, svc, "8A", schoolDay)

	repo.failing = true
	if _, err := svc.Submit(ctx, teacher, rec.ID); !IsTransportFailure(err) {
		t.Errorf("Submit() error = %v; want TransportError", err)
	}

	// local state rolled back: still draft, no audit entry, no notification
	repo.failing = false
	got, _ := repo.GetRecord(ctx, rec.ID)
	if got.Status != StatusDraft {
		t.Errorf("status = %v; want %v", got.Status, StatusDraft)
	}
	if len(got.Audit) != 0 {
		t.Errorf("audit len = %d; want 0", len(got.Audit))
	}
	assert.Empty(t, notifier.sent)

	// retrying the same transition now succeeds
	got, err := svc.Submit(ctx, teacher, rec.ID)
	if err != nil {
		t.Fatalf("retried Submit() failed: %v", err)
	}
	if got.Status != StatusSubmitted {
		t.Errorf("status = %v; want %v", got.Status, StatusSubmitted)
	}
}

func TestService_statusSequence(t *testing.T) {
	// the observable status sequence is always a subsequence of
	// draft, submitted, under_review, final, possibly followed by draft again
	svc, _, _, _ := setup(t)
	ctx := context.Background()
	rec := openRecord(t, svc, "8A", schoolDay)

	observed := []Status{rec.Status}
	record := func(r Record, err error) {
		if err == nil {
			observed = append(observed, r.Status)
		}
	}

	// try transitions in arbitrary, partly illegal order
	record(svc.Review(ctx, coordinator, rec.ID))
	record(svc.Submit(ctx, teacher, rec.ID))
	record(svc.Finalize(ctx, coordinator, rec.ID))
	record(svc.Review(ctx, coordinator, rec.ID))
	record(svc.Reopen(ctx, coordinator, rec.ID, "nope"))
	record(svc.Finalize(ctx, coordinator, rec.ID))
	record(svc.Reopen(ctx, coordinator, rec.ID, "recount"))

	want := []Status{StatusDraft, StatusSubmitted, StatusUnderReview, StatusFinal, StatusDraft}
	assert.Equal(t, want, observed)
}
