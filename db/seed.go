package db

import (
	"context"
	"database/sql"
	"fmt"
)

type seedPost struct {
	title, preview, postURL string
}

var seedPosts = []seedPost{
	{"Welcome to the channel", "First post of the feed.", ""},
	{"How reactions work", "Each post keeps a count per emoji.", ""},
}

// SeedData inserts a few sample posts when the posts table is empty.
func SeedData(ctx context.Context, db *sql.DB) error {
	// Start a transaction
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		tx.Rollback()
		return fmt.Errorf("error counting posts: %w", err)
	}
	if count > 0 {
		return tx.Rollback()
	}

	for _, p := range seedPosts {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO posts (title, preview, post_url) VALUES ($1, $2, $3)`,
			p.title, p.preview, p.postURL)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("error seeding posts: %w", err)
		}
	}

	// Commit the transaction
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}
