package identity

import (
	"errors"

	"github.com/dmitrijs2005/cupid/internal/client/i18n"
	"golang.org/x/text/language"
	"google.golang.org/grpc/status"
)

type Code string

const (
	CodeAuthFailed             Code = "authFailed"
	CodeVerificationFailed     Code = "verificationFailed"
	CodeVerificationIDNotFound Code = "verificationIDNotFound"
	CodeNetworkError           Code = "networkError"
	CodeUserNotFound           Code = "userNotFound"
	// CodeBackend carries a backend error that has no fixed message.
	CodeBackend Code = "backend"
)

var messageKeys = map[Code]string{
	CodeAuthFailed:             i18n.KeyAuthFailed,
	CodeVerificationFailed:     i18n.KeyVerificationFailed,
	CodeVerificationIDNotFound: i18n.KeyVerificationIDNotFound,
	CodeNetworkError:           i18n.KeyNetworkError,
	CodeUserNotFound:           i18n.KeyUserNotFound,
}

type AuthError struct {
	Code  Code
	Cause error
}

var (
	ErrAuthFailed             = &AuthError{Code: CodeAuthFailed}
	ErrVerificationFailed     = &AuthError{Code: CodeVerificationFailed}
	ErrVerificationIDNotFound = &AuthError{Code: CodeVerificationIDNotFound}
	ErrNetwork                = &AuthError{Code: CodeNetworkError}
	ErrUserNotFound           = &AuthError{Code: CodeUserNotFound}
)

func (e *AuthError) Error() string {
	return e.Localized(i18n.English)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// Is matches any *AuthError with the same code, so
// errors.Is(err, ErrAuthFailed) holds regardless of the cause.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Code == e.Code
}

// Localized returns the user-facing message in the given language. Backend
// errors pass their own message through untranslated.
func (e *AuthError) Localized(tag language.Tag) string {
	if key, ok := messageKeys[e.Code]; ok {
		return i18n.Text(tag, key)
	}
	if e.Cause == nil {
		return i18n.Text(tag, i18n.KeyAuthFailed)
	}
	if st, ok := status.FromError(e.Cause); ok {
		return st.Message()
	}
	return e.Cause.Error()
}

// Localize renders any error returned by a Backend for display.
func Localize(err error, tag language.Tag) string {
	var ae *AuthError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ae):
		return ae.Localized(tag)
	case errors.Is(err, ErrEmptyEmail):
		return i18n.Text(tag, i18n.KeyEmailRequired)
	default:
		return err.Error()
	}
}
