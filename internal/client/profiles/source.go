// Package profiles loads and saves the signed-in user's profile, preferring
// the remote document store and keeping a local copy for offline use.
package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cupid/internal/client/models"
	"github.com/dmitrijs2005/cupid/internal/common"
	"github.com/dmitrijs2005/cupid/internal/logging"
)

// Remote is the document store holding published profiles.
type Remote interface {
	Fetch(ctx context.Context, userID string) (*models.Profile, error)
	Publish(ctx context.Context, p *models.Profile) error
}

// Cache is the local profile cache.
type Cache interface {
	Get(ctx context.Context, id string) (*models.Profile, error)
	Put(ctx context.Context, p *models.Profile) error
}

type Source struct {
	remote Remote
	cache  Cache
	logger logging.Logger
}

// NewSource composes remote and cache. Either may be nil.
func NewSource(remote Remote, cache Cache, logger logging.Logger) *Source {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Source{remote: remote, cache: cache, logger: logger.With("module", "profiles")}
}

// Load returns the profile of userID. The remote copy wins and refreshes the
// cache; the cached copy is used when the remote is unreachable or has none.
// common.ErrNotFound means neither side knows the user.
func (s *Source) Load(ctx context.Context, userID string) (*models.Profile, error) {
	var remoteErr error
	if s.remote != nil {
		p, err := s.remote.Fetch(ctx, userID)
		if err == nil {
			s.store(ctx, p)
			return p, nil
		}
		remoteErr = err
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Warn(ctx, "remote profile fetch failed", "user_id", userID, "error", err)
		}
	}

	if s.cache == nil {
		return nil, orNotFound(remoteErr)
	}
	p, err := s.cache.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, common.ErrNotFound) {
		return nil, orNotFound(remoteErr)
	}
	return nil, errors.Join(remoteErr, fmt.Errorf("cache: %w", err))
}

// Save caches p and publishes it remotely. Only a cache failure is returned;
// a failed publish is logged and retried on the next Save.
func (s *Source) Save(ctx context.Context, p *models.Profile) error {
	if s.cache != nil {
		if err := s.cache.Put(ctx, p); err != nil {
			return fmt.Errorf("cache profile: %w", err)
		}
	}
	if s.remote != nil {
		if err := s.remote.Publish(ctx, p); err != nil {
			s.logger.Warn(ctx, "profile publish failed", "user_id", p.ID, "error", err)
		}
	}
	return nil
}

func (s *Source) store(ctx context.Context, p *models.Profile) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, p); err != nil {
		s.logger.Warn(ctx, "profile cache refresh failed", "user_id", p.ID, "error", err)
	}
}

func orNotFound(err error) error {
	if err == nil {
		return common.ErrNotFound
	}
	return err
}
