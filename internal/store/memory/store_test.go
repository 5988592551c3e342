package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rawen554/mijikaku/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_PutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage(map[string]string{"abc123": "https://ya.ru/"})

	got, err := s.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://ya.ru/", got)

	require.NoError(t, s.Put(ctx, "xyz789", "https://example.com/page"))
	got, err = s.Get(ctx, "xyz789")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/page", got)

	_, err = s.Get(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.Put(ctx, "abc123", "https://other.example/")
	assert.ErrorIs(t, err, store.ErrConflict)
	got, err = s.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://ya.ru/", got, "conflicting put must not overwrite")
}

func TestMemoryStorage_ConcurrentPut(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage(nil)

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Put(ctx, fmt.Sprintf("id%d", i), fmt.Sprintf("https://example.com/%d", i)))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, workers, s.Len())
}
