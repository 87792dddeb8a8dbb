package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cupid/internal/dbx"
	"github.com/dmitrijs2005/cupid/internal/server/repositories/resets"
	"github.com/dmitrijs2005/cupid/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/cupid/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a *sql.DB or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Revocations(db dbx.DBTX) revocations.Repository
	Resets(db dbx.DBTX) resets.Repository
}
