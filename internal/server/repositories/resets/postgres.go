package resets

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cupid/internal/dbx"
	"github.com/dmitrijs2005/cupid/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Put(ctx context.Context, reset *models.PasswordReset) error {
	query := `
		INSERT INTO password_resets (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at, created_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, reset.UserID, reset.Token, reset.ExpiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
