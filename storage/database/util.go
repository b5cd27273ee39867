package database

import (
	"database/sql"
	"database/sql/driver"
	"time"

	"github.com/lib/pq"
)

func intArray(ids []int) driver.Valuer {
	arr := make([]int64, 0, len(ids))
	for _, id := range ids {
		arr = append(arr, int64(id))
	}
	return pq.Array(arr)
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
