package model

import (
	"github.com/BurntSushi/migration"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/dbh"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/logs"
)

// Migrations returns the database schema as a list of incremental migrations.
// Times are unix milliseconds (dbh.IntTime), and the session key is the
// sha256 of the bearer token, so a DB leak doesn't leak live sessions.
func Migrations(log logs.Log) []migration.Migrator {
	migs := []migration.Migrator{}
	idx := 0

	migs = append(migs, dbh.MakeMigrationFromSQL(log, &idx,
		`
		CREATE TABLE user(
			id INTEGER PRIMARY KEY,
			username TEXT NOT NULL,
			username_normalized TEXT NOT NULL,
			permissions TEXT NOT NULL,
			name TEXT,
			password TEXT,
			created_at INT NOT NULL
		);
		CREATE UNIQUE INDEX idx_user_username_normalized ON user (username_normalized);

		CREATE TABLE session(
			key TEXT PRIMARY KEY,
			user_id INT NOT NULL,
			created_at INT NOT NULL,
			expires_at INT
		);
		CREATE INDEX idx_session_user_id ON session (user_id);
		CREATE INDEX idx_session_expires_at ON session (expires_at);

		CREATE TABLE pesticide(
			id INTEGER PRIMARY KEY,
			pest_name TEXT NOT NULL,
			pesticide_name TEXT NOT NULL,
			application_rate TEXT,
			effectiveness TEXT
		);
		CREATE INDEX idx_pesticide_pest_name ON pesticide (pest_name);

		CREATE TABLE detection(
			id INTEGER PRIMARY KEY,
			created_by INT NOT NULL,
			created_at INT NOT NULL,
			pest_class INT NOT NULL,
			pest_name TEXT NOT NULL,
			confidence REAL NOT NULL,
			uncertain INT NOT NULL,
			top TEXT,
			has_image INT NOT NULL
		);
		CREATE INDEX idx_detection_created_at ON detection (created_at);
	`))

	return migs
}
