package holiday

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	nowFunc = time.Now // mockable

	// errors
	ErrNotFound      = errors.New("holiday not found")
	ErrHolidayExists = errors.New("a holiday already exists for this date")
)

type (
	Repository interface {
		// CreateHoliday returns ErrHolidayExists when a holiday is already
		// registered for the same (LevelID, Date) pair. No overwrite.
		CreateHoliday(ctx context.Context, hol Holiday) (Holiday, error)
		GetHoliday(ctx context.Context, levelID int, date time.Time) (Holiday, error)
		QueryHolidaysByLevel(ctx context.Context, levelID int) ([]Holiday, error)
	}

	// Gate is the calendar check consulted by the attendance workflow
	// before a record may be submitted.
	Gate interface {
		IsHoliday(ctx context.Context, levelID int, date time.Time) (bool, error)
	}

	Service struct {
		repo Repository
	}
)

var _ Gate = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register registers a non-instructional date for an academic level.
func (svc *Service) Register(ctx context.Context, createdBy string, nh NewHoliday) (Holiday, error) {
	if err := nh.Validate(); err != nil {
		return Holiday{}, err
	}
	hol := Holiday{
		ID:        uuid.New(),
		LevelID:   nh.LevelID,
		Date:      DateOnly(nh.Date),
		Reason:    nh.Reason,
		CreatedBy: createdBy,
		CreatedAt: nowFunc().UTC(),
	}
	return svc.repo.CreateHoliday(ctx, hol)
}

func (svc *Service) IsHoliday(ctx context.Context, levelID int, date time.Time) (bool, error) {
	_, err := svc.repo.GetHoliday(ctx, levelID, DateOnly(date))
	if err != nil {
		if err == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List returns the level's holidays with their classification recomputed
// against the current time.
func (svc *Service) List(ctx context.Context, levelID int) ([]Info, error) {
	hols, err := svc.repo.QueryHolidaysByLevel(ctx, levelID)
	if err != nil {
		return nil, err
	}
	now := nowFunc()
	infos := make([]Info, 0, len(hols))
	for _, hol := range hols {
		infos = append(infos, Info{Holiday: hol, Classification: hol.Classify(now)})
	}
	return infos, nil
}
