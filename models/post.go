package models

import "time"

// TimestampLayout is the exchange format for created_at/updated_at. Fixed
// precision keeps the strings lexically sortable.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Reactions maps a reaction label (usually an emoji) to its count.
type Reactions map[string]int

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Preview   string    `json:"preview"`
	ImageURL  string    `json:"image_url"`
	PostURL   string    `json:"post_url"`
	Reactions Reactions `json:"reactions"`
	Views     int       `json:"views"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// CreatePostRequest is the create payload. Missing fields fall back to their
// zero values; Reactions falls back to an empty mapping.
type CreatePostRequest struct {
	Action    string    `json:"action,omitempty"`
	Title     string    `json:"title"`
	Preview   string    `json:"preview"`
	ImageURL  string    `json:"image_url"`
	PostURL   string    `json:"post_url"`
	Reactions Reactions `json:"reactions" validate:"omitempty,dive,gte=0"`
	Views     int       `json:"views" validate:"gte=0"`
}

// PostFields is the partial-update payload. Only fields present (and not
// null) in the JSON body are marked as set.
type PostFields struct {
	Title     Optional[string]    `json:"title"`
	Preview   Optional[string]    `json:"preview"`
	ImageURL  Optional[string]    `json:"image_url"`
	PostURL   Optional[string]    `json:"post_url"`
	Reactions Optional[Reactions] `json:"reactions"`
	Views     Optional[int]       `json:"views"`
}

// FormatTimestamp renders t in TimestampLayout, normalized to UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
