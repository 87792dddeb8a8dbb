// Package revocations declares the store of signed-out session tokens.
package revocations

import (
	"context"
	"time"
)

// Repository records revoked token ids until they expire.
type Repository interface {
	// Revoke marks tokenID as signed out. Revoking twice is not an error.
	Revoke(ctx context.Context, tokenID, userID string, expiresAt time.Time) error

	// IsRevoked reports whether tokenID was signed out.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	// DeleteExpired drops rows whose token expired before now and returns
	// how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
