package holiday

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeRepo is an in-memory Repository double keyed on (level, date).
type fakeRepo struct {
	holidays map[[2]string]Holiday
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{holidays: make(map[[2]string]Holiday)}
}

func key(levelID int, date time.Time) [2]string {
	return [2]string{string(rune('0' + levelID)), date.Format("2006-01-02")}
}

func (r *fakeRepo) CreateHoliday(ctx context.Context, hol Holiday) (Holiday, error) {
	k := key(hol.LevelID, hol.Date)
	if _, ok := r.holidays[k]; ok {
		return Holiday{}, ErrHolidayExists
	}
	r.holidays[k] = hol
	return hol, nil
}

func (r *fakeRepo) GetHoliday(ctx context.Context, levelID int, date time.Time) (Holiday, error) {
	if hol, ok := r.holidays[key(levelID, date)]; ok {
		return hol, nil
	}
	return Holiday{}, ErrNotFound
}

func (r *fakeRepo) QueryHolidaysByLevel(ctx context.Context, levelID int) ([]Holiday, error) {
	var hols []Holiday
	for _, hol := range r.holidays {
		if hol.LevelID == levelID {
			hols = append(hols, hol)
		}
	}
	return hols, nil
}

func mockNow(t *testing.T, now time.Time) {
	t.Helper()
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = time.Now })
}

func TestService_Register(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()
	date := time.Date(2024, time.June, 30, 14, 25, 0, 0, time.UTC)

	hol, err := svc.Register(ctx, "principal", NewHoliday{LevelID: 3, Date: date, Reason: "Independence Day"})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if want := DateOnly(date); !hol.Date.Equal(want) {
		t.Errorf("Register() date = %v; want %v", hol.Date, want)
	}
	if hol.CreatedBy != "principal" {
		t.Errorf("Register() createdBy = %q; want %q", hol.CreatedBy, "principal")
	}

	// a second holiday on the same (level, date) is rejected without overwrite,
	// even at a different time of day
	sameDay := date.Add(5 * time.Hour)
	if _, err := svc.Register(ctx, "admin", NewHoliday{LevelID: 3, Date: sameDay, Reason: "Other"}); err != ErrHolidayExists {
		t.Errorf("Register() error = %v; want ErrHolidayExists", err)
	}
	assert.Len(t, repo.holidays, 1)
	kept, _ := repo.GetHoliday(ctx, 3, DateOnly(date))
	if kept.Reason != "Independence Day" {
		t.Errorf("existing holiday was overwritten: reason = %q", kept.Reason)
	}

	// a different level on the same date is fine
	if _, err := svc.Register(ctx, "principal", NewHoliday{LevelID: 4, Date: date, Reason: "Independence Day"}); err != nil {
		t.Errorf("Register() for another level failed: %v", err)
	}
}

func TestService_Register_validation(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		nh   NewHoliday
	}{
		{"missing level", NewHoliday{Date: time.Now(), Reason: "x"}},
		{"missing date", NewHoliday{LevelID: 1, Reason: "x"}},
		{"missing reason", NewHoliday{LevelID: 1, Date: time.Now()}},
		{"blank reason", NewHoliday{LevelID: 1, Date: time.Now(), Reason: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, "admin", tt.nh); err == nil {
				t.Error("Register() succeeded; want validation error")
			}
		})
	}
}

func TestService_IsHoliday(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()
	date := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

	if _, err := svc.Register(ctx, "admin", NewHoliday{LevelID: 3, Date: date, Reason: "holiday"}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	tests := []struct {
		name    string
		levelID int
		date    time.Time
		want    bool
	}{
		{"registered date", 3, date, true},
		{"same day, different clock time", 3, date.Add(9 * time.Hour), true},
		{"other level", 4, date, false},
		{"other date", 3, date.AddDate(0, 0, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.IsHoliday(ctx, tt.levelID, tt.date)
			if err != nil {
				t.Fatalf("IsHoliday() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsHoliday() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestService_List_classification(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()
	now := time.Date(2024, time.June, 30, 10, 0, 0, 0, time.UTC)
	mockNow(t, now)

	for _, offset := range []int{-7, 0, 7} {
		nh := NewHoliday{LevelID: 1, Date: now.AddDate(0, 0, offset), Reason: "break"}
		if _, err := svc.Register(ctx, "admin", nh); err != nil {
			t.Fatalf("Register() failed: %v", err)
		}
	}

	infos, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	got := make(map[Classification]int)
	for _, info := range infos {
		got[info.Classification]++
	}
	assert.Equal(t, map[Classification]int{Past: 1, Today: 1, Upcoming: 1}, got)

	// classification is recomputed per query: a week later everything is past
	mockNow(t, now.AddDate(0, 0, 8))
	infos, err = svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	for _, info := range infos {
		if info.Classification != Past {
			t.Errorf("classification = %v; want %v", info.Classification, Past)
		}
	}
}

func TestHoliday_Classify(t *testing.T) {
	now := time.Date(2024, time.June, 30, 23, 50, 0, 0, time.UTC)
	tests := []struct {
		name string
		date time.Time
		want Classification
	}{
		{"yesterday", now.AddDate(0, 0, -1), Past},
		{"same day, earlier clock time", time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), Today},
		{"tomorrow", now.AddDate(0, 0, 1), Upcoming},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hol := Holiday{Date: tt.date}
			if got := hol.Classify(now); got != tt.want {
				t.Errorf("Classify() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestNewHoliday_Validate_cleansReason(t *testing.T) {
	nh := NewHoliday{LevelID: 1, Date: time.Now(), Reason: "  Eid al-Fitr  "}
	if err := nh.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	assert.Equal(t, "Eid al-Fitr", nh.Reason)
}
