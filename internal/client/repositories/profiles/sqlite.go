package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cupid/internal/client/models"
	"github.com/dmitrijs2005/cupid/internal/common"
	"github.com/dmitrijs2005/cupid/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Profile, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, `SELECT document FROM profiles WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", id, err)
	}

	p, err := models.ProfileFromTransport(doc)
	if err != nil {
		return nil, fmt.Errorf("cached profile %s: %w", id, err)
	}
	return p, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, p *models.Profile) error {
	doc, err := p.ToTransport()
	if err != nil {
		return fmt.Errorf("failed to encode profile %s: %w", p.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, document, cached_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET document = excluded.document, cached_at = excluded.cached_at
	`, p.ID, doc, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to put profile %s: %w", p.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", id, err)
	}
	return nil
}
