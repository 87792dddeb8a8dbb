// Package matches stores the signed-in user's matches in the client database.
package matches

import (
	"context"

	"github.com/dmitrijs2005/cupid/internal/client/models"
)

type Repository interface {
	// Upsert inserts the match or replaces the row with the same id.
	Upsert(ctx context.Context, m *models.Match) error

	// ListByUser returns the matches of userID, newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Match, error)

	Delete(ctx context.Context, id string) error
}
