package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/cupid/internal/client/credentials"
	"github.com/dmitrijs2005/cupid/internal/client/identity"
	"github.com/dmitrijs2005/cupid/internal/client/models"
	"github.com/dmitrijs2005/cupid/internal/common"
)

/*************
 * Fake identity backend
 *************/

type fakeBackend struct {
	mu sync.Mutex

	signInErr  error
	signUpErr  error
	signOutErr error
	resetErr   error

	// gate, when set, blocks SignIn until it is closed.
	gate chan struct{}

	calls    []string
	token    string
	lastUp   identity.SignUpRequest
	resetFor string
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) SignIn(ctx context.Context, email, _ string) (*identity.Account, error) {
	f.record("SignIn")
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &identity.Account{UserID: "u-1", Token: "tok-1", DisplayName: "Li"}, nil
}

func (f *fakeBackend) SignUp(_ context.Context, req identity.SignUpRequest) (*identity.Account, error) {
	f.record("SignUp")
	f.lastUp = req
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &identity.Account{UserID: "u-2", Token: "tok-2"}, nil
}

func (f *fakeBackend) SignOut(context.Context) error {
	f.record("SignOut")
	return f.signOutErr
}

func (f *fakeBackend) ResetPassword(_ context.Context, email string) error {
	f.record("ResetPassword")
	f.resetFor = email
	return f.resetErr
}

func (f *fakeBackend) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

/*************
 * Failing credential store
 *************/

type brokenStore struct {
	*credentials.MemoryStore
	setErr    error
	getErr    error
	deleteErr error
}

func newBrokenStore() *brokenStore {
	return &brokenStore{MemoryStore: credentials.NewMemoryStore()}
}

func (b *brokenStore) Get(ctx context.Context, key string) (string, bool, error) {
	if b.getErr != nil {
		return "", false, b.getErr
	}
	return b.MemoryStore.Get(ctx, key)
}

func (b *brokenStore) Set(ctx context.Context, key, value string) error {
	if b.setErr != nil {
		return b.setErr
	}
	return b.MemoryStore.Set(ctx, key, value)
}

func (b *brokenStore) SetAll(ctx context.Context, values map[string]string) error {
	if b.setErr != nil {
		return b.setErr
	}
	return b.MemoryStore.SetAll(ctx, values)
}

func (b *brokenStore) Delete(ctx context.Context, key string) error {
	if b.deleteErr != nil {
		return b.deleteErr
	}
	return b.MemoryStore.Delete(ctx, key)
}

/*************
 * Fake profile source
 *************/

type fakeProfiles struct {
	mu      sync.Mutex
	items   map[string]*models.Profile
	loadErr error
	saveErr error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{items: map[string]*models.Profile{}}
}

func (f *fakeProfiles) Load(_ context.Context, id string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	p, ok := f.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return p.Clone(), nil
}

func (f *fakeProfiles) Save(_ context.Context, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.items[p.ID] = p.Clone()
	return nil
}

var errBoom = errors.New("boom")
