package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/darasahq/darasa/core/holiday"
)

type holidayRepository struct {
	db *holidayTable
}

var _ holiday.Repository = (*holidayRepository)(nil) // interface compliance check

func NewHolidayRepository(db *DB) holiday.Repository {
	return &holidayRepository{db: db.holiday}
}

func (repo *holidayRepository) CreateHoliday(ctx context.Context, hol holiday.Holiday) (holiday.Holiday, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := holidayKey{levelID: hol.LevelID, date: hol.Date}
	if _, ok := repo.db.table[key]; ok {
		return holiday.Holiday{}, holiday.ErrHolidayExists
	}
	repo.db.table[key] = &hol
	return hol, nil
}

func (repo *holidayRepository) GetHoliday(ctx context.Context, levelID int, date time.Time) (holiday.Holiday, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if hol, ok := repo.db.table[holidayKey{levelID: levelID, date: date}]; ok {
		return *hol, nil
	}
	return holiday.Holiday{}, holiday.ErrNotFound
}

func (repo *holidayRepository) QueryHolidaysByLevel(ctx context.Context, levelID int) ([]holiday.Holiday, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	hols := make([]holiday.Holiday, 0)
	for _, hol := range repo.db.table {
		if hol.LevelID == levelID {
			hols = append(hols, *hol)
		}
	}
	sort.Slice(hols, func(i, j int) bool { return hols[i].Date.Before(hols[j].Date) })
	return hols, nil
}
