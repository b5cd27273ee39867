package dummydb

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core/attendance"
	"github.com/darasahq/darasa/core/holiday"
	"github.com/darasahq/darasa/core/user"
)

// DB is the in-memory database backing tests and DEV mode.
type (
	DB struct {
		user       *userTable
		attendance *attendanceTable
		holiday    *holidayTable
	}

	userTable struct {
		sync.RWMutex
		table   map[int]*user.User
		pkCount int
	}

	attendanceTable struct {
		sync.RWMutex
		table map[uuid.UUID]*attendance.Record
	}

	holidayTable struct {
		sync.RWMutex
		table map[holidayKey]*holiday.Holiday
	}

	holidayKey struct {
		levelID int
		date    time.Time
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[int]*user.User)},
		attendance: &attendanceTable{table: make(map[uuid.UUID]*attendance.Record)},
		holiday:    &holidayTable{table: make(map[holidayKey]*holiday.Holiday)},
	}
	return db, nil
}
