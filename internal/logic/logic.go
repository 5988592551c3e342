package logic

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/rawen554/mijikaku/internal/config"
	"github.com/rawen554/mijikaku/internal/store"
	"github.com/rawen554/mijikaku/internal/utils"
	"go.uber.org/zap"
)

const (
	IDLength = 6

	maxPutAttempts = 3

	ErrorJoinURL = "URL cannot be joined: %v"
)

//go:generate mockgen -destination=../store/mocks/mock_store.go -package=mocks . Store
type Store interface {
	Get(ctx context.Context, id string) (string, error)
	Put(ctx context.Context, id string, url string) error
	Ping(ctx context.Context) error
}

type CoreLogic struct {
	config *config.ServerConfig
	store  Store
	logger *zap.SugaredLogger
}

func NewCoreLogic(config *config.ServerConfig, store Store, logger *zap.SugaredLogger) *CoreLogic {
	return &CoreLogic{
		config: config,
		store:  store,
		logger: logger,
	}
}

// ShortenURL validates originalURL, stores it under a fresh id and returns the short URL.
// An id already taken is replaced by a new one, up to maxPutAttempts times.
func (cl *CoreLogic) ShortenURL(ctx context.Context, originalURL string) (string, error) {
	normalized, err := ValidateURL(originalURL)
	if err != nil {
		cl.logger.Debugf("rejected url %q: %v", originalURL, err)
		return "", invalidURLError(err)
	}

	var id string
	for attempt := 1; ; attempt++ {
		id, err = utils.GenerateID(IDLength)
		if err != nil {
			cl.logger.Error(err)
			return "", storageError(err)
		}

		err = cl.store.Put(ctx, id, normalized)
		if err == nil {
			break
		}
		if errors.Is(err, store.ErrConflict) && attempt < maxPutAttempts {
			cl.logger.Warnf("id %s already taken, retrying (attempt %d)", id, attempt)
			continue
		}

		err = fmt.Errorf("error saving data: %w", err)
		cl.logger.Error(err)
		return "", storageError(err)
	}

	resultURL, err := url.JoinPath(cl.config.RedirectBaseURL, id)
	if err != nil {
		err = fmt.Errorf(ErrorJoinURL, err)
		cl.logger.Error(err)
		return "", storageError(err)
	}

	return resultURL, nil
}

func (cl *CoreLogic) GetOriginalURL(ctx context.Context, id string) (string, error) {
	originalURL, err := cl.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", notFoundError(err)
		}

		err = fmt.Errorf("error getting original URL: %w", err)
		cl.logger.Error(err)
		return "", storageError(err)
	}

	return originalURL, nil
}

func (cl *CoreLogic) Ping(ctx context.Context) error {
	if err := cl.store.Ping(ctx); err != nil {
		err = fmt.Errorf("error opening connection to DB: %w", err)
		cl.logger.Error(err)
		return storageError(err)
	}

	return nil
}
