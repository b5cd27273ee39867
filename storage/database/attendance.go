package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/attendance"
)

// auditTrail stores the append-only audit entries as a jsonb column.
type auditTrail []attendance.AuditEntry

func (a auditTrail) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

func (a *auditTrail) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return errors.Errorf("scanning audit trail: unexpected type %T", src)
	}
	return json.Unmarshal(b, a)
}

type attendanceRow struct {
	ID          uuid.UUID  `db:"id"`
	ClassroomID string     `db:"classroom_id"`
	LevelID     int        `db:"level_id"`
	Date        time.Time  `db:"date"`
	Status      string     `db:"status"`
	Audit       auditTrail `db:"audit"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (r attendanceRow) record() attendance.Record {
	return attendance.Record{
		ID:          r.ID,
		ClassroomID: r.ClassroomID,
		LevelID:     r.LevelID,
		Date:        r.Date.UTC(),
		Status:      attendance.Status(r.Status),
		Audit:       r.Audit,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	const q = `INSERT INTO attendance_record (id, classroom_id, level_id, date, status, audit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, q,
		rec.ID, rec.ClassroomID, rec.LevelID, rec.Date, rec.Status, auditTrail(rec.Audit), rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "inserting attendance record")
	}
	return rec, nil
}

func (repo *attendanceRepository) GetRecord(ctx context.Context, id uuid.UUID) (attendance.Record, error) {
	const q = `SELECT * FROM attendance_record WHERE id = $1`
	var row attendanceRow
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if err == sql.ErrNoRows {
			return attendance.Record{}, attendance.ErrNotFound
		}
		return attendance.Record{}, errors.Wrap(err, "getting attendance record")
	}
	return row.record(), nil
}

func (repo *attendanceRepository) GetRecordByClassroomAndDate(ctx context.Context, classroomID string, date time.Time) (attendance.Record, error) {
	const q = `SELECT * FROM attendance_record WHERE classroom_id = $1 AND date = $2`
	var row attendanceRow
	if err := repo.db.GetContext(ctx, &row, q, classroomID, date); err != nil {
		if err == sql.ErrNoRows {
			return attendance.Record{}, attendance.ErrNotFound
		}
		return attendance.Record{}, errors.Wrap(err, "getting attendance record")
	}
	return row.record(), nil
}

func (repo *attendanceRepository) UpdateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	const q = `UPDATE attendance_record SET status = $2, audit = $3, updated_at = $4 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, rec.ID, rec.Status, auditTrail(rec.Audit), rec.UpdatedAt)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "updating attendance record")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return attendance.Record{}, attendance.ErrNotFound
	}
	return rec, nil
}

func (repo *attendanceRepository) QueryRecordsByClassroom(ctx context.Context, classroomID string) ([]attendance.Record, error) {
	const q = `SELECT * FROM attendance_record WHERE classroom_id = $1 ORDER BY date`
	var rows []attendanceRow
	if err := repo.db.SelectContext(ctx, &rows, q, classroomID); err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	recs := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row.record())
	}
	return recs, nil
}
