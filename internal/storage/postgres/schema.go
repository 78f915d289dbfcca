package postgres

import (
	"context"
	"fmt"
	"log"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id             TEXT PRIMARY KEY,
		role           TEXT NOT NULL,
		first_name     TEXT NOT NULL DEFAULT '',
		last_name      TEXT NOT NULL DEFAULT '',
		email          TEXT NOT NULL DEFAULT '',
		about          TEXT NOT NULL DEFAULT '',
		social_links   JSONB NOT NULL DEFAULT '{}',
		profile_image  TEXT NOT NULL DEFAULT '',
		certified      BOOLEAN NOT NULL DEFAULT FALSE,
		status_step    TEXT NOT NULL DEFAULT 'none',
		banned         BOOLEAN NOT NULL DEFAULT FALSE,
		total_likes    INTEGER NOT NULL DEFAULT 0,
		total_reports  INTEGER NOT NULL DEFAULT 0,
		cv_url         TEXT NOT NULL DEFAULT '',
		email_verified BOOLEAN NOT NULL DEFAULT FALSE,
		password_hash  TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (lower(email)) WHERE email <> ''`,
	`CREATE INDEX IF NOT EXISTS users_role_idx ON users (role)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id            TEXT PRIMARY KEY,
		hirer_id      TEXT NOT NULL,
		position      TEXT NOT NULL,
		company_name  TEXT NOT NULL,
		location      TEXT NOT NULL,
		salary        DOUBLE PRECISION NOT NULL DEFAULT 0,
		description   TEXT NOT NULL,
		job_image     TEXT NOT NULL DEFAULT '',
		frozen        BOOLEAN NOT NULL DEFAULT FALSE,
		liked_by      TEXT[] NOT NULL DEFAULT '{}',
		likes_count   INTEGER NOT NULL DEFAULT 0 CHECK (likes_count >= 0),
		reported_by   TEXT[] NOT NULL DEFAULT '{}',
		reports_count INTEGER NOT NULL DEFAULT 0 CHECK (reports_count >= 0),
		reason_counts JSONB NOT NULL DEFAULT '{}',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS jobs_hirer_idx ON jobs (hirer_id)`,
	`CREATE INDEX IF NOT EXISTS jobs_created_idx ON jobs (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS reports (
		id          TEXT PRIMARY KEY,
		job_id      TEXT NOT NULL,
		reporter_id TEXT NOT NULL,
		reasons     TEXT[] NOT NULL,
		note        TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (job_id, reporter_id)
	)`,
	`CREATE TABLE IF NOT EXISTS submissions (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		job_id       TEXT NOT NULL,
		pdf_url      TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT 'pending',
		submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		decided_at   TIMESTAMPTZ,
		UNIQUE (user_id, job_id)
	)`,
	`CREATE INDEX IF NOT EXISTS submissions_job_idx ON submissions (job_id)`,
	`CREATE TABLE IF NOT EXISTS likes (
		id         TEXT PRIMARY KEY,
		job_id     TEXT NOT NULL,
		user_id    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (job_id, user_id)
	)`,
}

// InitSchema creates the tables and indexes when they do not exist yet.
func InitSchema(ctx context.Context, db Querier) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	log.Println("Database schema is up to date")
	return nil
}
