// Package services contains the identity server's business logic:
// registration, sign-in, sign-out through token revocation, and password
// reset requests.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/cupid/internal/common"
	"github.com/dmitrijs2005/cupid/internal/cryptox"
	"github.com/dmitrijs2005/cupid/internal/dbx"
	"github.com/dmitrijs2005/cupid/internal/logging"
	"github.com/dmitrijs2005/cupid/internal/server/auth"
	"github.com/dmitrijs2005/cupid/internal/server/config"
	"github.com/dmitrijs2005/cupid/internal/server/models"
	"github.com/dmitrijs2005/cupid/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	minPasswordLen = 6
	minAge         = 18
	maxAge         = 120
	resetTokenSize = 32
)

// Session is what a successful sign-in or sign-up hands back to the client.
type Session struct {
	UserID      string
	Token       string
	DisplayName string
}

type SignUpInput struct {
	Email    string
	Password string
	Name     string
	Age      int
	Gender   string
}

type IdentityService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
	resetValidity time.Duration
	now           func() time.Time
	newID         func() string
}

func NewIdentityService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *IdentityService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &IdentityService{
		db:            db,
		repomanager:   m,
		logger:        logger.With("module", "identity"),
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		resetValidity: cfg.ResetTokenValidityDuration,
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// SignUp creates a user and opens a session for it. A taken email yields
// common.ErrAlreadyExists; bad input common.ErrInvalidArgument.
func (s *IdentityService) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	email := normalizeEmail(in.Email)
	if err := checkSignUp(email, in); err != nil {
		return nil, err
	}

	hash := cryptox.HashPassword([]byte(in.Password))
	user := &models.User{
		ID:           s.newID(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		Age:          in.Age,
		Gender:       in.Gender,
		PasswordSalt: hash.Salt,
		PasswordKey:  hash.Key,
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return s.openSession(u)
}

// SignIn checks the password of email. Unknown users and wrong passwords
// both yield common.ErrUnauthorized.
func (s *IdentityService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Spend the same time as a real check.
			_ = cryptox.DeriveKey([]byte(password), common.GenerateRandByteArray(cryptox.SaltSize))
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	hash := cryptox.PasswordHash{Salt: u.PasswordSalt, Key: u.PasswordKey}
	if !hash.Verify([]byte(password)) {
		return nil, common.ErrUnauthorized
	}

	return s.openSession(u)
}

// Authenticate validates a session token and rejects revoked ones with
// common.ErrTokenRevoked.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	revoked, err := s.repomanager.Revocations(s.db).IsRevoked(ctx, claims.TokenID())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	if revoked {
		return nil, common.ErrTokenRevoked
	}
	return claims, nil
}

// SignOut revokes the session of claims and drops revocations that have
// expired in the meantime.
func (s *IdentityService) SignOut(ctx context.Context, claims *auth.Claims) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Revocations(tx)
		if err := repo.Revoke(ctx, claims.TokenID(), claims.UserID(), claims.Expiry()); err != nil {
			return fmt.Errorf("error revoking token: %w", err)
		}
		n, err := repo.DeleteExpired(ctx, s.now())
		if err != nil {
			return fmt.Errorf("error purging revocations: %w", err)
		}
		s.logger.Info(ctx, "signed out", "user_id", claims.UserID(), "purged", n)
		return nil
	})
}

// ResetPassword records a reset token for email. Mail delivery is not
// implemented; the request is only logged. Unknown emails yield
// common.ErrNotFound.
func (s *IdentityService) ResetPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrInvalidArgument)
	}

	u, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	token, err := common.MakeRandHexString(resetTokenSize)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	reset := &models.PasswordReset{UserID: u.ID, Token: token, ExpiresAt: s.now().Add(s.resetValidity)}
	if err := s.repomanager.Resets(s.db).Put(ctx, reset); err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}

	s.logger.Info(ctx, "password reset requested", "user_id", u.ID, "expires_at", reset.ExpiresAt)
	return nil
}

func (s *IdentityService) openSession(u *models.User) (*Session, error) {
	token, err := auth.GenerateToken(u.ID, s.newID(), s.jwtSecret, s.now(), s.tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	return &Session{UserID: u.ID, Token: token, DisplayName: u.Name}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkSignUp(email string, in SignUpInput) error {
	var problems []string
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		problems = append(problems, "email is invalid")
	}
	if len([]rune(in.Password)) < minPasswordLen {
		problems = append(problems, "password is too short")
	}
	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name is required")
	}
	if in.Age < minAge || in.Age > maxAge {
		problems = append(problems, "age is out of range")
	}
	if in.Gender == "" {
		problems = append(problems, "gender is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", common.ErrInvalidArgument, strings.Join(problems, ", "))
	}
	return nil
}
