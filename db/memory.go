package db

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"simple-blog/models"
)

// MemoryStore keeps posts in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	posts []models.Post
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Create(_ context.Context, title, content string, imagePath *string) (*models.Post, error) {
	post := models.Post{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		ImagePath: imagePath,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.posts = append(s.posts, post)
	s.mu.Unlock()

	return &post, nil
}

func (s *MemoryStore) ListAllDescending(context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]models.Post, 0, len(s.posts))
	for i := len(s.posts) - 1; i >= 0; i-- {
		posts = append(posts, s.posts[i])
	}
	return posts, nil
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}
