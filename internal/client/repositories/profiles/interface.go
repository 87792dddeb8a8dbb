package profiles

import (
	"context"

	"github.com/dmitrijs2005/cupid/internal/client/models"
)

// Repository caches profiles locally.
type Repository interface {
	// Get returns the cached profile or common.ErrNotFound.
	Get(ctx context.Context, id string) (*models.Profile, error)

	// Put inserts or replaces the cached profile.
	Put(ctx context.Context, p *models.Profile) error

	Delete(ctx context.Context, id string) error
}
