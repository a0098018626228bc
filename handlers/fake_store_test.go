package handlers

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"channel_feed_backend/db"
	"channel_feed_backend/models"
)

// memoryStore is an in-memory PostStore that tracks session lifetimes.
type memoryStore struct {
	mu       sync.Mutex
	posts    map[int64]models.Post
	nextID   int64
	clock    time.Time
	opened   int
	closed   int
	openErr  error
	failWith error
	panicOn  string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		posts: map[int64]models.Post{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memoryStore) Open(context.Context) (PostRepository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openErr != nil {
		return nil, s.openErr
	}
	s.opened++
	return &memorySession{store: s}, nil
}

func (s *memoryStore) tick() string {
	s.clock = s.clock.Add(time.Second)
	return models.FormatTimestamp(s.clock)
}

func (s *memoryStore) released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened == s.closed
}

type memorySession struct {
	store *memoryStore
}

func (m *memorySession) check(op string) error {
	if m.store.panicOn == op {
		panic("boom in " + op)
	}
	return m.store.failWith
}

func (m *memorySession) List(context.Context) ([]models.Post, error) {
	if err := m.check("list"); err != nil {
		return nil, err
	}
	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()
	posts := []models.Post{}
	for _, p := range s.posts {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt > posts[j].CreatedAt })
	return posts, nil
}

func (m *memorySession) Get(_ context.Context, id int64) (models.Post, error) {
	if err := m.check("get"); err != nil {
		return models.Post{}, err
	}
	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return models.Post{}, db.ErrPostNotFound
	}
	return p, nil
}

func (m *memorySession) Create(_ context.Context, req models.CreatePostRequest) (models.Post, error) {
	if err := m.check("create"); err != nil {
		return models.Post{}, err
	}
	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := s.tick()
	p := models.Post{
		ID:        s.nextID,
		Title:     req.Title,
		Preview:   req.Preview,
		ImageURL:  req.ImageURL,
		PostURL:   req.PostURL,
		Reactions: req.Reactions,
		Views:     req.Views,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.posts[p.ID] = p
	return p, nil
}

func (m *memorySession) Update(_ context.Context, id int64, f models.PostFields) (models.Post, error) {
	if err := m.check("update"); err != nil {
		return models.Post{}, err
	}
	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return models.Post{}, db.ErrPostNotFound
	}
	if f.Title.Set {
		p.Title = f.Title.Value
	}
	if f.Preview.Set {
		p.Preview = f.Preview.Value
	}
	if f.ImageURL.Set {
		p.ImageURL = f.ImageURL.Value
	}
	if f.PostURL.Set {
		p.PostURL = f.PostURL.Value
	}
	if f.Reactions.Set {
		p.Reactions = f.Reactions.Value
	}
	if f.Views.Set {
		p.Views = f.Views.Value
	}
	p.UpdatedAt = s.tick()
	s.posts[id] = p
	return p, nil
}

func (m *memorySession) Delete(_ context.Context, id int64) error {
	if err := m.check("delete"); err != nil {
		return err
	}
	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return db.ErrPostNotFound
	}
	delete(s.posts, id)
	return nil
}

func (m *memorySession) Close() error {
	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

var errStoreDown = errors.New("connection refused")
