package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/cupid/internal/client/credentials"
	"github.com/dmitrijs2005/cupid/internal/client/i18n"
	"github.com/dmitrijs2005/cupid/internal/client/identity"
	"github.com/dmitrijs2005/cupid/internal/client/models"
	"github.com/dmitrijs2005/cupid/internal/client/session"
	"github.com/stretchr/testify/require"
)

/*************
 * Stub identity backend
 *************/

type stubBackend struct {
	mu       sync.Mutex
	calls    []string
	signIn   error
	signOut  error
	reset    error
	lastUp   identity.SignUpRequest
	resetFor string
}

func (s *stubBackend) record(c string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
}

func (s *stubBackend) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubBackend) SignIn(_ context.Context, email, _ string) (*identity.Account, error) {
	s.record("SignIn")
	if s.signIn != nil {
		return nil, s.signIn
	}
	return &identity.Account{UserID: "u-1", Token: "tok-1", DisplayName: "Li"}, nil
}

func (s *stubBackend) SignUp(_ context.Context, req identity.SignUpRequest) (*identity.Account, error) {
	s.record("SignUp")
	s.lastUp = req
	return &identity.Account{UserID: "u-2", Token: "tok-2", DisplayName: req.Name}, nil
}

func (s *stubBackend) SignOut(context.Context) error {
	s.record("SignOut")
	return s.signOut
}

func (s *stubBackend) ResetPassword(_ context.Context, email string) error {
	s.record("ResetPassword")
	s.resetFor = email
	return s.reset
}

/*************
 * Helpers
 *************/

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// stubPasswords makes readPassword return the given values in order.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := readPassword
	var mu sync.Mutex
	readPassword = func(int) ([]byte, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(pws) == 0 {
			return []byte{}, nil
		}
		pw := pws[0]
		pws = pws[1:]
		return []byte(pw), nil
	}
	t.Cleanup(func() { readPassword = orig })
}

func newTestApp(t *testing.T, input string, b *stubBackend) (*App, *session.Manager, *credentials.MemoryStore, *syncBuffer) {
	t.Helper()
	store := credentials.NewMemoryStore()
	m := session.NewManager(store, b)
	t.Cleanup(m.Close)
	out := &syncBuffer{}
	return NewApp(m, i18n.English, nil, strings.NewReader(input), out), m, store, out
}

/*************
 * Tests
 *************/

func TestApp_Register_Success(t *testing.T) {
	stubPasswords(t, "secret1", "secret1")
	b := &stubBackend{}
	a, m, store, out := newTestApp(t, "Li\na@b.com\n25\n1\n", b)

	require.NoError(t, a.Register(context.Background()))

	require.Equal(t, []string{"SignUp"}, b.Calls())
	require.Equal(t, identity.SignUpRequest{
		Email: "a@b.com", Password: "secret1", Name: "Li", Age: 25, Gender: "male",
	}, b.lastUp)
	require.True(t, m.State().Authenticated)
	require.Equal(t, "Li", m.State().CurrentUser.Name)

	uid, ok, err := store.Get(context.Background(), credentials.KeyUserID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "u-2", uid)
	require.Contains(t, out.String(), "Welcome, Li!")
}

func TestApp_Register_InvalidFormPrintsFieldErrors(t *testing.T) {
	stubPasswords(t, "secret1", "other11")
	b := &stubBackend{}
	a, m, _, out := newTestApp(t, "L\nnot-an-email\n17\n9\n", b)

	require.Error(t, a.Register(context.Background()))

	require.Empty(t, b.Calls())
	require.False(t, m.State().Authenticated)
	got := out.String()
	require.Contains(t, got, "  name: Name must be at least 2 characters\n")
	require.Contains(t, got, "  email: Please enter a valid email address\n")
	require.Contains(t, got, "  confirm_password: The two passwords do not match\n")
	require.Contains(t, got, "  age: You must be at least 18 to use this app\n")
	require.Contains(t, got, "  gender: Please choose male, female or other\n")
	require.Less(t, strings.Index(got, "  name:"), strings.Index(got, "  gender:"))
}

func TestApp_Login_SuccessAndLogout(t *testing.T) {
	stubPasswords(t, "secret1")
	b := &stubBackend{}
	a, m, store, out := newTestApp(t, "a@b.com\n", b)
	ctx := context.Background()

	require.NoError(t, a.Login(ctx))
	require.True(t, a.isLoggedIn())
	require.Contains(t, out.String(), "Signed in as Li")
	require.Equal(t, "(Li, authenticated)", a.status())

	require.NoError(t, a.Logout(ctx))
	require.False(t, m.State().Authenticated)
	_, ok, err := credentials.Load(ctx, store)
	require.NoError(t, err)
	require.False(t, ok)
	require.Contains(t, out.String(), "Signed out")
}

func TestApp_Login_ValidationStaysLocal(t *testing.T) {
	stubPasswords(t, "123")
	b := &stubBackend{}
	a, _, _, out := newTestApp(t, "a@b.com\n", b)

	require.Error(t, a.Login(context.Background()))
	require.Empty(t, b.Calls())
	require.Contains(t, out.String(), "  password: Password must be at least 6 characters")
}

func TestApp_ResetPassword(t *testing.T) {
	b := &stubBackend{}
	a, _, _, out := newTestApp(t, "a@b.com\n", b)

	require.NoError(t, a.ResetPassword(context.Background()))
	require.Equal(t, "a@b.com", b.resetFor)
	require.Contains(t, out.String(), "Check your email for password reset instructions")
}

func TestApp_WhoAmIAndStatus(t *testing.T) {
	stubPasswords(t, "secret1")
	b := &stubBackend{}
	a, _, _, out := newTestApp(t, "a@b.com\n", b)
	ctx := context.Background()

	require.NoError(t, a.WhoAmI(ctx))
	require.Contains(t, out.String(), "Not signed in")

	require.NoError(t, a.Login(ctx))
	require.NoError(t, a.WhoAmI(ctx))
	require.NoError(t, a.Status(ctx))

	got := out.String()
	require.Contains(t, got, "id:         u-1\n")
	require.Contains(t, got, "membership: free\n")
	require.Contains(t, got, "premium:    false\n")
	require.Contains(t, got, "status: authenticated\n")
}

func TestApp_WatchAlerts_PrintsAndDismisses(t *testing.T) {
	stubPasswords(t, "secret1")
	b := &stubBackend{signIn: identity.ErrAuthFailed}
	a, m, _, out := newTestApp(t, "a@b.com\n", b)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	states, unsubscribe := m.Subscribe()
	defer unsubscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.watchAlerts(ctx, states)
	}()

	require.Error(t, a.Login(ctx))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "! Authentication failed, please try again\n")
	}, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return m.State().LastError == "" }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	require.Equal(t, 1, strings.Count(out.String(), "! "))
}

func TestApp_Run_EndToEnd(t *testing.T) {
	capturePrintln(t)
	stubPasswords(t, "secret1")
	b := &stubBackend{signOut: identity.ErrNetwork}
	a, m, _, out := newTestApp(t, "login\na@b.com\nlogout\nexit\n", b)

	a.Run(context.Background())

	require.Equal(t, []string{"SignIn", "SignOut"}, b.Calls())
	// A failed remote sign-out keeps the session.
	require.True(t, m.State().Authenticated)
	require.Contains(t, out.String(), "Welcome to Cupid")
}

type stubMatches struct {
	byUser map[string][]*models.Match
	err    error
}

func (s *stubMatches) ListByUser(_ context.Context, userID string) ([]*models.Match, error) {
	return s.byUser[userID], s.err
}

func TestApp_Matches(t *testing.T) {
	stubPasswords(t, "secret1")
	now := time.Now()
	last := now.Add(-49 * time.Hour)
	recent := models.NewMatch("u-1", "u-7", now)
	old := models.NewMatch("u-1", "u-8", now.Add(-72*time.Hour))
	old.Status = models.MatchArchived
	old.LastMessageDate = &last
	old.HasUnreadMessages = true

	b := &stubBackend{}
	store := credentials.NewMemoryStore()
	m := session.NewManager(store, b)
	t.Cleanup(m.Close)
	out := &syncBuffer{}
	a := NewApp(m, i18n.English, nil, strings.NewReader("a@b.com\n"), out,
		WithMatches(&stubMatches{byUser: map[string][]*models.Match{"u-1": {recent, old}}}))
	ctx := context.Background()

	require.NoError(t, a.Matches(ctx))
	require.Contains(t, out.String(), "Not signed in")

	require.NoError(t, a.Login(ctx))
	require.NoError(t, a.Matches(ctx))

	got := out.String()
	require.Contains(t, got, "u-7  active  new\n")
	require.Contains(t, got, "u-8  archived  unread  last message 2d ago\n")
}

func TestApp_Matches_EmptyAndError(t *testing.T) {
	stubPasswords(t, "secret1", "secret1")
	b := &stubBackend{}
	a, _, _, out := newTestApp(t, "a@b.com\n", b)
	ctx := context.Background()
	require.NoError(t, a.Login(ctx))

	require.NoError(t, a.Matches(ctx))
	require.Contains(t, out.String(), "No matches yet")

	a.matches = &stubMatches{err: errors.New("disk")}
	require.Error(t, a.Matches(ctx))
	require.Contains(t, out.String(), "Could not load matches")
}
