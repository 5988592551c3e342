package memory

import (
	"context"
	"sync"

	"github.com/rawen554/mijikaku/internal/store"
)

type MemoryStorage struct {
	mux   *sync.RWMutex
	links map[string]string
}

func NewMemoryStorage(links map[string]string) *MemoryStorage {
	if links == nil {
		links = make(map[string]string)
	}
	return &MemoryStorage{
		mux:   &sync.RWMutex{},
		links: links,
	}
}

func (s *MemoryStorage) Put(_ context.Context, id string, url string) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.links[id]; ok {
		return store.ErrConflict
	}
	s.links[id] = url
	return nil
}

func (s *MemoryStorage) Get(_ context.Context, id string) (string, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	url, ok := s.links[id]
	if !ok {
		return "", store.ErrNotFound
	}
	return url, nil
}

func (s *MemoryStorage) Len() int {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return len(s.links)
}

func (s *MemoryStorage) Ping(_ context.Context) error {
	return nil
}

func (s *MemoryStorage) Close() {}
