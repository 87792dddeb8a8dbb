package revocations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestRevoke(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	q := `(?s)INSERT\s+INTO\s+revoked_tokens\b.*ON\s+CONFLICT\s+\(token_id\)\s+DO\s+NOTHING`

	mock.ExpectExec(q).WithArgs("t-1", "u-1", exp).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Revoke(context.Background(), "t-1", "u-1", exp))

	mock.ExpectExec(q).WithArgs("t-1", "u-1", exp).WillReturnError(errors.New("db down"))
	require.ErrorContains(t, repo.Revoke(context.Background(), "t-1", "u-1", exp), "db error: db down")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsRevoked(t *testing.T) {
	q := `(?s)SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+revoked_tokens\s+WHERE\s+token_id\s*=\s*\$1\)`

	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		err     error
		want    bool
		wantErr bool
	}{
		{name: "revoked", rows: sqlmock.NewRows([]string{"exists"}).AddRow(true), want: true},
		{name: "active", rows: sqlmock.NewRows([]string{"exists"}).AddRow(false), want: false},
		{name: "db error", err: errors.New("boom"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)
			exp := mock.ExpectQuery(q).WithArgs("t-1")
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnRows(tt.rows)
			}

			got, err := repo.IsRevoked(context.Background(), "t-1")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeleteExpired(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectExec(`DELETE\s+FROM\s+revoked_tokens\s+WHERE\s+expires_at\s*<\s*\$1`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
