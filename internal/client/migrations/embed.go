// Package migrations contains the embedded goose migrations of the client database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
