// Package credentials persists the session token and user id of the
// signed-in user.
package credentials

import (
	"context"
	"errors"
	"fmt"
)

const (
	KeyAuthToken = "auth_token"
	KeyUserID    = "user_id"
)

// Store is a small durable key/value store. Get reports ok=false with a nil
// error when the key is absent; Delete of an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// batchStore is implemented by stores that can write several keys atomically.
type batchStore interface {
	SetAll(ctx context.Context, values map[string]string) error
}

// Record is the persisted credential pair.
type Record struct {
	Token  string
	UserID string
}

// Save writes both keys. Stores without atomic batches get a best-effort
// cleanup when the second write fails, so a half-written pair never survives.
func Save(ctx context.Context, s Store, r Record) error {
	if bs, ok := s.(batchStore); ok {
		return bs.SetAll(ctx, map[string]string{KeyAuthToken: r.Token, KeyUserID: r.UserID})
	}

	if err := s.Set(ctx, KeyAuthToken, r.Token); err != nil {
		return fmt.Errorf("save %s: %w", KeyAuthToken, err)
	}
	if err := s.Set(ctx, KeyUserID, r.UserID); err != nil {
		_ = s.Delete(ctx, KeyAuthToken)
		return fmt.Errorf("save %s: %w", KeyUserID, err)
	}
	return nil
}

// Load returns the stored pair. ok is true only when both keys are present.
func Load(ctx context.Context, s Store) (Record, bool, error) {
	token, okToken, err := s.Get(ctx, KeyAuthToken)
	if err != nil {
		return Record{}, false, fmt.Errorf("load %s: %w", KeyAuthToken, err)
	}
	userID, okUser, err := s.Get(ctx, KeyUserID)
	if err != nil {
		return Record{}, false, fmt.Errorf("load %s: %w", KeyUserID, err)
	}
	if !okToken || !okUser {
		return Record{}, false, nil
	}
	return Record{Token: token, UserID: userID}, true, nil
}

// Clear removes both keys, attempting each even if the other fails.
func Clear(ctx context.Context, s Store) error {
	return errors.Join(
		s.Delete(ctx, KeyAuthToken),
		s.Delete(ctx, KeyUserID),
	)
}
