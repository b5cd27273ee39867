package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/holiday"
)

const pqUniqueViolation = "23505"

type holidayRepository struct {
	db *sqlx.DB
}

var _ holiday.Repository = (*holidayRepository)(nil) // interface compliance check

func NewHolidayRepository(db *sqlx.DB) holiday.Repository {
	return &holidayRepository{db: db}
}

func (repo *holidayRepository) CreateHoliday(ctx context.Context, hol holiday.Holiday) (holiday.Holiday, error) {
	const q = `INSERT INTO holiday (id, level_id, date, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := repo.db.ExecContext(ctx, q, hol.ID, hol.LevelID, hol.Date, hol.Reason, hol.CreatedBy, hol.CreatedAt)
	if err != nil {
		// the (level_id, date) unique constraint is what enforces
		// "at most one holiday per level per date"
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return holiday.Holiday{}, holiday.ErrHolidayExists
		}
		return holiday.Holiday{}, errors.Wrap(err, "inserting holiday")
	}
	return hol, nil
}

func (repo *holidayRepository) GetHoliday(ctx context.Context, levelID int, date time.Time) (holiday.Holiday, error) {
	const q = `SELECT * FROM holiday WHERE level_id = $1 AND date = $2`
	var hol holiday.Holiday
	if err := repo.db.GetContext(ctx, &hol, q, levelID, date); err != nil {
		if err == sql.ErrNoRows {
			return holiday.Holiday{}, holiday.ErrNotFound
		}
		return holiday.Holiday{}, errors.Wrap(err, "getting holiday")
	}
	hol.Date = hol.Date.UTC()
	return hol, nil
}

func (repo *holidayRepository) QueryHolidaysByLevel(ctx context.Context, levelID int) ([]holiday.Holiday, error) {
	const q = `SELECT * FROM holiday WHERE level_id = $1 ORDER BY date`
	var hols []holiday.Holiday
	if err := repo.db.SelectContext(ctx, &hols, q, levelID); err != nil {
		return nil, errors.Wrap(err, "querying holidays")
	}
	for i := range hols {
		hols[i].Date = hols[i].Date.UTC()
	}
	return hols, nil
}
