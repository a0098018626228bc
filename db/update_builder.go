package db

import (
	"encoding/json"
	"fmt"
	"strings"

	"channel_feed_backend/models"
)

// Statement is a SQL text with its positional arguments.
type Statement struct {
	SQL  string
	Args []any
}

// mutableColumn pairs a column with the accessor for its optional value.
// Column names never come from request data.
type mutableColumn struct {
	name  string
	value func(f *models.PostFields) (any, bool, error)
}

var mutableColumns = []mutableColumn{
	{"title", func(f *models.PostFields) (any, bool, error) { return f.Title.Value, f.Title.Set, nil }},
	{"preview", func(f *models.PostFields) (any, bool, error) { return f.Preview.Value, f.Preview.Set, nil }},
	{"image_url", func(f *models.PostFields) (any, bool, error) { return f.ImageURL.Value, f.ImageURL.Set, nil }},
	{"post_url", func(f *models.PostFields) (any, bool, error) { return f.PostURL.Value, f.PostURL.Set, nil }},
	{"reactions", func(f *models.PostFields) (any, bool, error) {
		if !f.Reactions.Set {
			return nil, false, nil
		}
		encoded, err := encodeReactions(f.Reactions.Value)
		return encoded, true, err
	}},
	{"views", func(f *models.PostFields) (any, bool, error) { return f.Views.Value, f.Views.Set, nil }},
}

// BuildUpdate composes the partial update for post id. Only set fields are
// written; updated_at is always refreshed, so an empty field set still
// produces a valid statement.
func BuildUpdate(id int64, fields models.PostFields) (Statement, error) {
	var (
		sets []string
		args []any
	)
	for _, col := range mutableColumns {
		v, ok, err := col.value(&fields)
		if err != nil {
			return Statement{}, fmt.Errorf("encode %s: %w", col.name, err)
		}
		if !ok {
			continue
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col.name, len(args)))
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	sql := fmt.Sprintf("UPDATE posts SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), postColumns)
	return Statement{SQL: sql, Args: args}, nil
}

func encodeReactions(r models.Reactions) (string, error) {
	if r == nil {
		r = models.Reactions{}
	}
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
