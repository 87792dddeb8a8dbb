// Package cryptox holds the password hashing used by the identity server.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/cupid/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	SaltSize = 16
	KeySize  = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// PasswordHash is what the server persists instead of the password.
type PasswordHash struct {
	Salt []byte
	Key  []byte
}

// DeriveKey stretches password with salt using argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, KeySize)
}

// HashPassword derives a key under a fresh random salt.
func HashPassword(password []byte) PasswordHash {
	salt := common.GenerateRandByteArray(SaltSize)
	return PasswordHash{Salt: salt, Key: DeriveKey(password, salt)}
}

// Verify reports whether password matches h. The comparison is constant time.
func (h PasswordHash) Verify(password []byte) bool {
	if len(h.Salt) == 0 || len(h.Key) == 0 {
		return false
	}
	candidate := DeriveKey(password, h.Salt)
	return subtle.ConstantTimeCompare(h.Key, candidate) == 1
}
