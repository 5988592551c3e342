package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rawen554/mijikaku/internal/models"
	"github.com/rawen554/mijikaku/internal/store"
	"github.com/rawen554/mijikaku/internal/store/memory"
	"go.uber.org/zap"
)

const FileStorageFilePerm = 0600

// FSStorage serves links from memory and appends every new link to a JSON-lines file,
// which is replayed on start. A link becomes visible only once its line is on disk.
type FSStorage struct {
	*memory.MemoryStorage
	mux    *sync.Mutex
	file   *os.File
	logger *zap.SugaredLogger
	path   string
	size   int64
}

func NewFileStorage(filename string, logger *zap.SugaredLogger) (*FSStorage, error) {
	links, err := readLinks(filename)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_APPEND, FileStorageFilePerm)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("error stat file: %w", err)
	}

	return &FSStorage{
		MemoryStorage: memory.NewMemoryStorage(links),
		mux:           &sync.Mutex{},
		file:          file,
		logger:        logger,
		path:          filename,
		size:          info.Size(),
	}, nil
}

func readLinks(filename string) (map[string]string, error) {
	file, err := os.OpenFile(filename, os.O_RDONLY|os.O_CREATE, FileStorageFilePerm)
	if err != nil {
		return nil, fmt.Errorf("error open file: %w", err)
	}
	defer file.Close()

	links := make(map[string]string)
	decoder := json.NewDecoder(file)
	for {
		var link models.Link
		if err := decoder.Decode(&link); err != nil {
			if errors.Is(err, io.EOF) {
				return links, nil
			}
			return nil, fmt.Errorf("error decode records: %w", err)
		}
		links[link.ID] = link.URL
	}
}

func (s *FSStorage) Put(ctx context.Context, id string, url string) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	if _, err := s.MemoryStorage.Get(ctx, id); err == nil {
		return store.ErrConflict
	}

	data, err := json.Marshal(models.Link{ID: id, URL: url})
	if err != nil {
		return fmt.Errorf("error encode record: %w", err)
	}
	data = append(data, '\n')

	n, err := s.file.Write(data)
	if err != nil {
		if n > 0 {
			s.truncate()
		}
		return fmt.Errorf("error writing record: %w", err)
	}
	s.size += int64(n)

	return s.MemoryStorage.Put(ctx, id, url)
}

// truncate drops a partially written line so the next record starts on a fresh line.
func (s *FSStorage) truncate() {
	if err := s.file.Truncate(s.size); err != nil {
		s.logger.Errorf("error truncating partial record: %v", err)
	}
}

func (s *FSStorage) Close() {
	s.mux.Lock()
	defer s.mux.Unlock()

	if err := s.file.Close(); err != nil {
		s.logger.Errorf("error closing file: %v", err)
	}
}

func (s *FSStorage) DeleteStorageFile() error {
	if err := os.Remove(s.path); err != nil {
		return fmt.Errorf("error delete file: %w", err)
	}
	return nil
}
