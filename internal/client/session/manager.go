// Package session owns the client's authentication state.
//
// A Manager coordinates the credential store, the identity backend and the
// profile source. Every state change goes through one serialized step and is
// published to subscribers as an immutable State snapshot. Backend calls run
// outside the lock, so operations may overlap; the last one to finish wins.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/cupid/internal/client/credentials"
	"github.com/dmitrijs2005/cupid/internal/client/i18n"
	"github.com/dmitrijs2005/cupid/internal/client/identity"
	"github.com/dmitrijs2005/cupid/internal/client/models"
	"github.com/dmitrijs2005/cupid/internal/client/validation"
	"github.com/dmitrijs2005/cupid/internal/logging"
	"golang.org/x/text/language"
)

// subscriberBuffer is the number of snapshots a subscriber may fall behind
// before the oldest pending ones are dropped.
const subscriberBuffer = 16

// ProfileSource loads and stores full profiles.
type ProfileSource interface {
	Load(ctx context.Context, userID string) (*models.Profile, error)
	Save(ctx context.Context, p *models.Profile) error
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Age      int
	Gender   string
}

type Manager struct {
	store             credentials.Store
	backend           identity.Backend
	profiles          ProfileSource
	logger            logging.Logger
	now               func() time.Time
	locale            language.Tag
	forceLocalSignOut bool

	mu       sync.Mutex
	state    State
	inflight int
	subs     map[int]chan State
	nextSub  int
	closed   bool
}

type Option func(*Manager)

func WithProfiles(p ProfileSource) Option {
	return func(m *Manager) { m.profiles = p }
}

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithLocale(tag language.Tag) Option {
	return func(m *Manager) { m.locale = i18n.Match(tag) }
}

// WithForceLocalSignOut makes Logout clear the local session even when the
// backend sign-out fails.
func WithForceLocalSignOut(force bool) Option {
	return func(m *Manager) { m.forceLocalSignOut = force }
}

func NewManager(store credentials.Store, backend identity.Backend, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		backend: backend,
		logger:  logging.Discard(),
		now:     time.Now,
		locale:  i18n.English,
		subs:    make(map[int]chan State),
	}
	for _, o := range opts {
		o(m)
	}
	m.logger = m.logger.With("module", "session")
	return m
}

// State returns the current snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Subscribe returns a channel that receives the current snapshot right away
// and every later one in mutation order. A subscriber that falls behind
// loses the oldest pending snapshots, never the newest. cancel closes the
// channel.
func (m *Manager) Subscribe() (<-chan State, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan State, subscriberBuffer)
	if m.closed {
		close(ch)
		return ch, func() {}
	}

	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	ch <- m.state.clone()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if c, ok := m.subs[id]; ok {
				delete(m.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Close ends every subscription.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for id, ch := range m.subs {
		delete(m.subs, id)
		close(ch)
	}
}

// DismissError clears LastError.
func (m *Manager) DismissError() {
	m.apply(func(s *State) { s.LastError = "" })
}

// CheckAuthStatus restores the session from the credential store. With a
// stored token and user id the session becomes authenticated and the profile
// is loaded through the profile source; otherwise it becomes unauthenticated.
func (m *Manager) CheckAuthStatus(ctx context.Context) error {
	m.begin()
	rec, ok, err := credentials.Load(ctx, m.store)
	if err != nil {
		m.logger.Error(ctx, "credential store unreadable", "error", err)
		m.finish(signedOut)
		return fmt.Errorf("load credentials: %w", err)
	}
	if !ok {
		m.finish(signedOut)
		return nil
	}

	if ts, ok := m.backend.(identity.TokenSetter); ok {
		ts.SetToken(rec.Token)
	}

	p := m.loadProfile(ctx, rec.UserID, "")
	m.finish(func(s *State) { signedIn(s, p) })
	m.logger.Info(ctx, "session restored", "user_id", rec.UserID)
	return nil
}

// Login signs in with email and password. Invalid input is returned as
// validation.FieldErrors without touching the session.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if err := validation.ValidateLogin(email, password); err != nil {
		return err
	}

	m.begin()
	acc, err := m.backend.SignIn(ctx, email, password)
	if err != nil {
		m.fail(ctx, "sign in failed", identity.Localize(err, m.locale), err)
		return err
	}
	if err := m.persist(ctx, acc); err != nil {
		return err
	}

	p := m.loadProfile(ctx, acc.UserID, acc.DisplayName)
	m.finish(func(s *State) { signedIn(s, p) })
	m.logger.Info(ctx, "signed in", "user_id", acc.UserID)
	return nil
}

// Register creates an account and signs in with it. The new profile is
// cached and published through the profile source.
func (m *Manager) Register(ctx context.Context, in RegisterInput) error {
	if err := validation.ValidateRegistration(in.Email, in.Password, in.Name, in.Age); err != nil {
		return err
	}

	m.begin()
	acc, err := m.backend.SignUp(ctx, identity.SignUpRequest{
		Email:    in.Email,
		Password: in.Password,
		Name:     in.Name,
		Age:      in.Age,
		Gender:   in.Gender,
	})
	if err != nil {
		m.fail(ctx, "sign up failed", identity.Localize(err, m.locale), err)
		return err
	}
	if err := m.persist(ctx, acc); err != nil {
		return err
	}

	p := models.NewProfile(acc.UserID, in.Name, in.Age, in.Gender, m.now())
	if m.profiles != nil {
		if err := m.profiles.Save(ctx, p); err != nil {
			m.logger.Warn(ctx, "profile not cached", "user_id", acc.UserID, "error", err)
		}
	}

	m.finish(func(s *State) { signedIn(s, p) })
	m.logger.Info(ctx, "registered", "user_id", acc.UserID)
	return nil
}

// Logout signs out remotely and then clears the local session. If the
// backend fails the session is kept and LastError is set, unless the manager
// was built WithForceLocalSignOut(true).
func (m *Manager) Logout(ctx context.Context) error {
	m.begin()
	remoteErr := m.backend.SignOut(ctx)
	if remoteErr != nil && !m.forceLocalSignOut {
		m.fail(ctx, "sign out failed", i18n.Text(m.locale, i18n.KeySignOutFailed), remoteErr)
		return remoteErr
	}
	if remoteErr != nil {
		m.logger.Warn(ctx, "remote sign out failed, clearing local session", "error", remoteErr)
		if ts, ok := m.backend.(identity.TokenSetter); ok {
			ts.SetToken("")
		}
	}

	clearErr := credentials.Clear(ctx, m.store)
	if clearErr != nil {
		m.logger.Error(ctx, "credentials not cleared", "error", clearErr)
	}

	err := errors.Join(remoteErr, clearErr)
	m.finish(func(s *State) {
		signedOut(s)
		if err != nil {
			s.LastError = i18n.Text(m.locale, i18n.KeySignOutFailed)
		}
	})
	if err == nil {
		m.logger.Info(ctx, "signed out")
	}
	return err
}

// ResetPassword asks the backend to send reset instructions to email.
func (m *Manager) ResetPassword(ctx context.Context, email string) (bool, error) {
	if err := validation.ValidateResetPassword(email); err != nil {
		return false, err
	}

	m.begin()
	if err := m.backend.ResetPassword(ctx, email); err != nil {
		m.fail(ctx, "password reset failed", identity.Localize(err, m.locale), err)
		return false, err
	}
	m.finish(func(s *State) { s.LastError = "" })
	return true, nil
}

// persist saves the credential pair. A failure ends the operation: the
// session is never authenticated without stored credentials.
func (m *Manager) persist(ctx context.Context, acc *identity.Account) error {
	err := credentials.Save(ctx, m.store, credentials.Record{Token: acc.Token, UserID: acc.UserID})
	if err != nil {
		m.fail(ctx, "credentials not saved", i18n.Text(m.locale, i18n.KeyCredentialsNotSaved), err)
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// loadProfile fetches the full profile, falling back to a minimal one built
// from what the backend returned.
func (m *Manager) loadProfile(ctx context.Context, userID, displayName string) *models.Profile {
	if m.profiles != nil {
		p, err := m.profiles.Load(ctx, userID)
		if err == nil {
			return p
		}
		m.logger.Warn(ctx, "profile unavailable, using placeholder", "user_id", userID, "error", err)
	}
	return models.NewProfile(userID, displayName, 0, "", m.now())
}

func (m *Manager) begin() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight++
	m.state.Loading = true
	m.publishLocked()
}

func (m *Manager) finish(fn func(s *State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight--
	fn(&m.state)
	m.state.Loading = m.inflight > 0
	m.publishLocked()
}

func (m *Manager) fail(ctx context.Context, msg, userMsg string, err error) {
	m.logger.Warn(ctx, msg, "error", err)
	m.finish(func(s *State) { s.LastError = userMsg })
}

func (m *Manager) apply(fn func(s *State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.state)
	m.publishLocked()
}

func (m *Manager) publishLocked() {
	for _, ch := range m.subs {
		snap := m.state.clone()
		select {
		case ch <- snap:
			continue
		default:
		}
		// Full: drop the oldest pending snapshot to make room.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func signedIn(s *State, p *models.Profile) {
	s.Status = StatusAuthenticated
	s.Authenticated = true
	s.CurrentUser = p
	s.LastError = ""
}

func signedOut(s *State) {
	s.Status = StatusUnauthenticated
	s.Authenticated = false
	s.CurrentUser = nil
}
