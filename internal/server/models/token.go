package models

import "time"

// RevokedToken marks a signed-out session token. Rows are kept until the
// token would have expired anyway.
type RevokedToken struct {
	TokenID   string
	UserID    string
	ExpiresAt time.Time
}

// PasswordReset is a pending password reset request.
type PasswordReset struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
