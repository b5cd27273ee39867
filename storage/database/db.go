package database

import (
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
)

func open(dbName string, admin bool, conf *core.Config) (*sqlx.DB, error) {
	usr := url.UserPassword(conf.Database.User, conf.Database.Password)
	if admin && conf.Database.AdminUser != "" {
		usr = url.UserPassword(conf.Database.AdminUser, conf.Database.AdminPassword)
	}

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     usr,
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return sqlx.Open(conf.Database.Engine, u.String())
}

func Open(conf *core.Config) (*sqlx.DB, error) {
	return open(conf.Database.Name, false, conf)
}

// Ping waits for the database to be ready. Waits 100ms longer between each attempt.
func Ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS "user" (
		id serial PRIMARY KEY,
		name text NOT NULL,
		username text NOT NULL UNIQUE,
		email text NOT NULL DEFAULT '',
		raw_role text NOT NULL DEFAULT '',
		is_active boolean NOT NULL DEFAULT true,
		password_hash bytea NOT NULL,
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL,
		last_login timestamptz
	)`,
	`CREATE TABLE IF NOT EXISTS attendance_record (
		id uuid PRIMARY KEY,
		classroom_id text NOT NULL,
		level_id integer NOT NULL,
		date date NOT NULL,
		status text NOT NULL,
		audit jsonb NOT NULL DEFAULT '[]',
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL,
		UNIQUE (classroom_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS holiday (
		id uuid PRIMARY KEY,
		level_id integer NOT NULL,
		date date NOT NULL,
		reason text NOT NULL,
		created_by text NOT NULL,
		created_at timestamptz NOT NULL,
		UNIQUE (level_id, date)
	)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return errors.Wrap(err, "migrating database")
		}
	}
	return nil
}
