// Package resets stores pending password reset requests.
package resets

import (
	"context"

	"github.com/dmitrijs2005/cupid/internal/server/models"
)

type Repository interface {
	// Put stores r, replacing any earlier request of the same user.
	Put(ctx context.Context, r *models.PasswordReset) error
}
