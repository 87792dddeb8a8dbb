package identity

import (
	"context"
	"errors"
)

// ErrEmptyEmail is returned before any network call when the email is blank.
var ErrEmptyEmail = errors.New("email is empty")

// Account is what the backend knows about a signed-in user.
type Account struct {
	UserID      string
	Token       string
	DisplayName string
}

type SignUpRequest struct {
	Email    string
	Password string
	Name     string
	Age      int
	Gender   string
}

type Backend interface {
	SignIn(ctx context.Context, email, password string) (*Account, error)
	SignUp(ctx context.Context, req SignUpRequest) (*Account, error)
	SignOut(ctx context.Context) error
	ResetPassword(ctx context.Context, email string) error
}

// TokenSetter is implemented by backends that need the persisted session
// token restored after a restart.
type TokenSetter interface {
	SetToken(token string)
}
