// Package models holds the rows the identity server stores.
package models

import "time"

type User struct {
	ID           string
	Email        string
	Name         string
	Age          int
	Gender       string
	PasswordSalt []byte
	PasswordKey  []byte
	CreatedAt    time.Time
}
