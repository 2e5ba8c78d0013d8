package database

import (
	"context"
	"fmt"
)

// Timestamps on quizzes and attempts are epoch milliseconds, matching the
// wire contract exactly; no timezone conversion happens at the data layer.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id              TEXT PRIMARY KEY,
	username        TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS questions (
	id             TEXT PRIMARY KEY,
	question_text  TEXT NOT NULL,
	options        JSONB NOT NULL,
	correct_answer INT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS quizzes (
	id                 TEXT PRIMARY KEY,
	slug               TEXT NOT NULL UNIQUE,
	title              TEXT NOT NULL,
	description        TEXT NOT NULL DEFAULT '',
	user_id            TEXT NOT NULL REFERENCES users(id),
	start_time_ms      BIGINT NOT NULL,
	end_time_ms        BIGINT NOT NULL,
	selected_questions JSONB NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CHECK (end_time_ms > start_time_ms)
);

CREATE TABLE IF NOT EXISTS quiz_attempts (
	id            TEXT PRIMARY KEY,
	quiz_id       TEXT NOT NULL REFERENCES quizzes(id),
	user_id       TEXT NOT NULL REFERENCES users(id),
	start_time_ms BIGINT NOT NULL,
	end_time_ms   BIGINT NOT NULL,
	answers       JSONB NOT NULL,
	score         INT NOT NULL CHECK (score >= 0),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_quizzes_user_id ON quizzes(user_id);
CREATE INDEX IF NOT EXISTS idx_quiz_attempts_quiz_user ON quiz_attempts(quiz_id, user_id, start_time_ms DESC);

CREATE TABLE IF NOT EXISTS user_stats (
	user_id           TEXT PRIMARY KEY REFERENCES users(id),
	attempts_recorded INT NOT NULL DEFAULT 0,
	best_percentage   INT NOT NULL DEFAULT 0,
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Migrate applies the schema. Statements are idempotent so this runs on
// every startup.
func Migrate(ctx context.Context) error {
	if _, err := DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("database.Migrate: %w", err)
	}
	return nil
}
