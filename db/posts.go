package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"channel_feed_backend/models"
)

const postColumns = `id, title, preview, image_url, post_url, reactions, views, created_at, updated_at`

var ErrPostNotFound = errors.New("post not found")

// PostStore hands out request-scoped sessions over the posts table.
type PostStore struct {
	db *sql.DB
}

func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// Open reserves one connection from the pool for the caller. The session
// must be closed on every exit path.
func (s *PostStore) Open(ctx context.Context) (*PostSession, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &PostSession{conn: conn}, nil
}

// PostSession runs post queries on a single reserved connection.
type PostSession struct {
	conn *sql.Conn
}

// Close returns the connection to the pool.
func (p *PostSession) Close() error {
	return p.conn.Close()
}

// List returns every post, newest first.
func (p *PostSession) List(ctx context.Context) ([]models.Post, error) {
	rows, err := p.conn.QueryContext(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (p *PostSession) Get(ctx context.Context, id int64) (models.Post, error) {
	row := p.conn.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, ErrPostNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("get post %d: %w", id, err)
	}
	return post, nil
}

// Create inserts a post. created_at and updated_at come from the same NOW()
// so they are equal on a fresh row.
func (p *PostSession) Create(ctx context.Context, req models.CreatePostRequest) (models.Post, error) {
	reactions, err := encodeReactions(req.Reactions)
	if err != nil {
		return models.Post{}, fmt.Errorf("encode reactions: %w", err)
	}
	row := p.conn.QueryRowContext(ctx, `
		INSERT INTO posts (title, preview, image_url, post_url, reactions, views, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING `+postColumns,
		req.Title, req.Preview, req.ImageURL, req.PostURL, reactions, req.Views)
	post, err := scanPost(row)
	if err != nil {
		return models.Post{}, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// Update applies the partial update in one UPDATE ... RETURNING statement,
// so the returned row is exactly the one written.
func (p *PostSession) Update(ctx context.Context, id int64, fields models.PostFields) (models.Post, error) {
	stmt, err := BuildUpdate(id, fields)
	if err != nil {
		return models.Post{}, err
	}
	post, err := scanPost(p.conn.QueryRowContext(ctx, stmt.SQL, stmt.Args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, ErrPostNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("update post %d: %w", id, err)
	}
	return post, nil
}

func (p *PostSession) Delete(ctx context.Context, id int64) error {
	var deleted int64
	err := p.conn.QueryRowContext(ctx, `DELETE FROM posts WHERE id = $1 RETURNING id`, id).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (models.Post, error) {
	var (
		post                 models.Post
		imageURL, postURL    sql.NullString
		reactions            []byte
		createdAt, updatedAt time.Time
	)
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Preview,
		&imageURL,
		&postURL,
		&reactions,
		&post.Views,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return models.Post{}, err
	}

	post.ImageURL = imageURL.String
	post.PostURL = postURL.String
	post.Reactions = models.Reactions{}
	if len(reactions) > 0 {
		if err := json.Unmarshal(reactions, &post.Reactions); err != nil {
			return models.Post{}, fmt.Errorf("decode reactions: %w", err)
		}
		if post.Reactions == nil {
			post.Reactions = models.Reactions{}
		}
	}
	post.CreatedAt = models.FormatTimestamp(createdAt)
	post.UpdatedAt = models.FormatTimestamp(updatedAt)
	return post, nil
}
