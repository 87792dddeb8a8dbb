// Package migrations contains the embedded goose migrations of the identity database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
