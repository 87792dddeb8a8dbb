package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/cupid/internal/common"
	"github.com/dmitrijs2005/cupid/internal/cryptox"
	"github.com/dmitrijs2005/cupid/internal/dbx"
	"github.com/dmitrijs2005/cupid/internal/server/auth"
	"github.com/dmitrijs2005/cupid/internal/server/config"
	"github.com/dmitrijs2005/cupid/internal/server/models"
	"github.com/dmitrijs2005/cupid/internal/server/repositories/resets"
	"github.com/dmitrijs2005/cupid/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/cupid/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*************
 * Fake repositories
 *************/

type fakeUsers struct {
	byEmail   map[string]*models.User
	createErr error
	getErr    error
	created   []*models.User
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrAlreadyExists
	}
	u.CreatedAt = time.Now()
	f.byEmail[u.Email] = u
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

type revocation struct {
	userID    string
	expiresAt time.Time
}

type fakeRevocations struct {
	mu        sync.Mutex
	revoked   map[string]revocation
	purgedAt  []time.Time
	revokeErr error
	queryErr  error
}

func (f *fakeRevocations) Revoke(_ context.Context, tokenID, userID string, exp time.Time) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[tokenID] = revocation{userID: userID, expiresAt: exp}
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if f.queryErr != nil {
		return false, f.queryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[tokenID]
	return ok, nil
}

func (f *fakeRevocations) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purgedAt = append(f.purgedAt, now)
	return 0, nil
}

type fakeResets struct {
	puts   []*models.PasswordReset
	putErr error
}

func (f *fakeResets) Put(_ context.Context, r *models.PasswordReset) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts = append(f.puts, r)
	return nil
}

type fakeRepoManager struct {
	users       *fakeUsers
	revocations *fakeRevocations
	resets      *fakeResets
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository          { return m.users }
func (m *fakeRepoManager) Revocations(dbx.DBTX) revocations.Repository {
	return m.revocations
}
func (m *fakeRepoManager) Resets(dbx.DBTX) resets.Repository { return m.resets }

/*************
 * Helpers
 *************/

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*IdentityService, *fakeRepoManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rm := &fakeRepoManager{
		users:       &fakeUsers{byEmail: map[string]*models.User{}},
		revocations: &fakeRevocations{revoked: map[string]revocation{}},
		resets:      &fakeResets{},
	}
	cfg := &config.Config{
		SecretKey:                  "k",
		TokenValidityDuration:      time.Hour,
		ResetTokenValidityDuration: 15 * time.Minute,
	}
	s := NewIdentityService(db, rm, cfg, nil)

	var n int
	s.newID = func() string {
		n++
		return []string{"u-1", "t-1", "t-2", "t-3", "t-4"}[n-1]
	}
	s.now = func() time.Time { return time.Now() }
	return s, rm, mock
}

func validSignUp() SignUpInput {
	return SignUpInput{Email: " A@B.com ", Password: "secret1", Name: "Li", Age: 25, Gender: "male"}
}

/*************
 * Tests
 *************/

func TestSignUp_Success(t *testing.T) {
	s, rm, _ := newTestService(t)

	sess, err := s.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)
	assert.Equal(t, "u-1", sess.UserID)
	assert.Equal(t, "Li", sess.DisplayName)

	claims, err := auth.ParseToken(sess.Token, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID())
	assert.Equal(t, "t-1", claims.TokenID())

	require.Len(t, rm.users.created, 1)
	u := rm.users.created[0]
	assert.Equal(t, "a@b.com", u.Email)
	assert.True(t, cryptox.PasswordHash{Salt: u.PasswordSalt, Key: u.PasswordKey}.Verify([]byte("secret1")))
	assert.NotContains(t, string(u.PasswordKey), "secret1")
}

func TestSignUp_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *SignUpInput)
	}{
		{"empty email", func(in *SignUpInput) { in.Email = "" }},
		{"bad email", func(in *SignUpInput) { in.Email = "nope" }},
		{"short password", func(in *SignUpInput) { in.Password = "12345" }},
		{"no name", func(in *SignUpInput) { in.Name = "  " }},
		{"underage", func(in *SignUpInput) { in.Age = 17 }},
		{"too old", func(in *SignUpInput) { in.Age = 121 }},
		{"no gender", func(in *SignUpInput) { in.Gender = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rm, _ := newTestService(t)
			in := validSignUp()
			tt.mutate(&in)

			_, err := s.SignUp(context.Background(), in)
			require.ErrorIs(t, err, common.ErrInvalidArgument)
			assert.Empty(t, rm.users.created)
		})
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	s, _, _ := newTestService(t)
	_, err := s.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	s.newID = func() string { return "u-2" }
	_, err = s.SignUp(context.Background(), validSignUp())
	require.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestSignUp_RepoError(t *testing.T) {
	s, rm, _ := newTestService(t)
	rm.users.createErr = errors.New("db down")

	_, err := s.SignUp(context.Background(), validSignUp())
	require.ErrorContains(t, err, "error creating user: db down")
}

func TestSignIn(t *testing.T) {
	s, rm, _ := newTestService(t)
	_, err := s.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	sess, err := s.SignIn(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", sess.UserID)
	assert.Equal(t, "Li", sess.DisplayName)
	claims, err := auth.ParseToken(sess.Token, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, "t-2", claims.TokenID(), "every sign-in gets its own token id")

	_, err = s.SignIn(context.Background(), "a@b.com", "wrong-pw")
	require.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = s.SignIn(context.Background(), "ghost@b.com", "secret1")
	require.ErrorIs(t, err, common.ErrUnauthorized)

	rm.users.getErr = errors.New("db down")
	_, err = s.SignIn(context.Background(), "a@b.com", "secret1")
	require.ErrorIs(t, err, common.ErrInternal)
}

func TestAuthenticateAndSignOut(t *testing.T) {
	s, rm, mock := newTestService(t)
	sess, err := s.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	claims, err := s.Authenticate(context.Background(), sess.Token)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, s.SignOut(context.Background(), claims))
	require.NoError(t, mock.ExpectationsWereMet())

	rev, ok := rm.revocations.revoked["t-1"]
	require.True(t, ok)
	assert.Equal(t, "u-1", rev.userID)
	assert.True(t, rev.expiresAt.Equal(claims.Expiry()))
	assert.Len(t, rm.revocations.purgedAt, 1)

	_, err = s.Authenticate(context.Background(), sess.Token)
	require.ErrorIs(t, err, common.ErrTokenRevoked)
}

func TestAuthenticate_Errors(t *testing.T) {
	s, rm, _ := newTestService(t)

	_, err := s.Authenticate(context.Background(), "garbage")
	require.ErrorIs(t, err, common.ErrInvalidToken)

	tok, err := auth.GenerateToken("u-1", "t-9", []byte("k"), time.Now(), time.Hour)
	require.NoError(t, err)
	rm.revocations.queryErr = errors.New("db down")
	_, err = s.Authenticate(context.Background(), tok)
	require.ErrorIs(t, err, common.ErrInternal)
}

func TestSignOut_RollsBackOnError(t *testing.T) {
	s, rm, mock := newTestService(t)
	rm.revocations.revokeErr = errors.New("db down")

	tok, err := auth.GenerateToken("u-1", "t-9", []byte("k"), time.Now(), time.Hour)
	require.NoError(t, err)
	claims, err := auth.ParseToken(tok, []byte("k"))
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()
	err = s.SignOut(context.Background(), claims)
	require.ErrorContains(t, err, "error revoking token")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPassword(t *testing.T) {
	s, rm, _ := newTestService(t)
	s.now = func() time.Time { return testNow }
	_, err := s.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	require.NoError(t, s.ResetPassword(context.Background(), "A@b.com"))
	require.Len(t, rm.resets.puts, 1)
	r := rm.resets.puts[0]
	assert.Equal(t, "u-1", r.UserID)
	assert.Len(t, r.Token, 2*resetTokenSize)
	assert.Equal(t, testNow.Add(15*time.Minute), r.ExpiresAt)

	require.ErrorIs(t, s.ResetPassword(context.Background(), "ghost@b.com"), common.ErrNotFound)
	require.ErrorIs(t, s.ResetPassword(context.Background(), "  "), common.ErrInvalidArgument)

	rm.resets.putErr = errors.New("db down")
	require.ErrorContains(t, s.ResetPassword(context.Background(), "a@b.com"), "error storing reset token")
}
