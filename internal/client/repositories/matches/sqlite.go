package matches

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cupid/internal/client/models"
	"github.com/dmitrijs2005/cupid/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, m *models.Match) error {
	var last sql.NullInt64
	if m.LastMessageDate != nil {
		last = sql.NullInt64{Int64: m.LastMessageDate.Unix(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO matches (id, user_id, matched_user_id, match_date, last_message_date, has_unread_messages, match_status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			matched_user_id = excluded.matched_user_id,
			match_date = excluded.match_date,
			last_message_date = excluded.last_message_date,
			has_unread_messages = excluded.has_unread_messages,
			match_status = excluded.match_status
	`, m.ID, m.UserID, m.MatchedUserID, m.MatchDate.Unix(), last, m.HasUnreadMessages, string(m.Status))
	if err != nil {
		return fmt.Errorf("failed to upsert match %s: %w", m.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, matched_user_id, match_date, last_message_date, has_unread_messages, match_status
		FROM matches WHERE user_id = ? ORDER BY match_date DESC, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var result []*models.Match
	for rows.Next() {
		var (
			m         models.Match
			matchDate int64
			last      sql.NullInt64
			status    string
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.MatchedUserID, &matchDate, &last, &m.HasUnreadMessages, &status); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		if m.Status, err = models.ParseMatchStatus(status); err != nil {
			return nil, fmt.Errorf("match %s: %w", m.ID, err)
		}
		m.MatchDate = time.Unix(matchDate, 0).UTC()
		if last.Valid {
			t := time.Unix(last.Int64, 0).UTC()
			m.LastMessageDate = &t
		}
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate match rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete match %s: %w", id, err)
	}
	return nil
}
