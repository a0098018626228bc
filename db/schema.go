package db

import (
	"context"
	"database/sql"
	"fmt"
)

const Schema = `
-- Create posts table
CREATE TABLE IF NOT EXISTS posts (
    id SERIAL PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    preview TEXT NOT NULL DEFAULT '',
    image_url TEXT DEFAULT '',
    post_url TEXT DEFAULT '',
    reactions JSONB NOT NULL DEFAULT '{}'::jsonb,
    views INTEGER NOT NULL DEFAULT 0 CHECK (views >= 0),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Older deployments created posts without post_url
ALTER TABLE posts ADD COLUMN IF NOT EXISTS post_url TEXT DEFAULT '';

CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts (created_at DESC);
`

// InitSchema initializes the database schema
func InitSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	if err != nil {
		return fmt.Errorf("error initializing database schema: %w", err)
	}
	return nil
}
