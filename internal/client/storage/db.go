// Package storage opens the client SQLite database and wires the
// repositories that live in it.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/cupid/internal/client/credentials"
	"github.com/dmitrijs2005/cupid/internal/client/migrations"
	"github.com/dmitrijs2005/cupid/internal/client/repositories/matches"
	"github.com/dmitrijs2005/cupid/internal/client/repositories/profiles"
	"github.com/dmitrijs2005/cupid/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// FileName is the database file created inside the data directory.
const FileName = "cupid.db"

type Repositories struct {
	DB          *sql.DB
	Credentials *credentials.SQLiteStore
	Profiles    profiles.Repository
	Matches     matches.Repository
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open creates the data directory if needed and opens the database in it.
// The database file holds the session token, so it is created with mode 0600.
func Open(ctx context.Context, dataDir string) (*Repositories, error) {
	dir, err := filex.EnsureDir(dataDir)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create database file: %w", err)
	}
	_ = f.Close()
	if err := os.Chmod(path, 0o600); err != nil {
		return nil, fmt.Errorf("restrict database file: %w", err)
	}

	return InitDatabase(ctx, "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
}

// InitDatabase opens dsn, applies migrations and builds the repositories.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate client database: %w", err)
	}

	return &Repositories{
		DB:          db,
		Credentials: credentials.NewSQLiteStore(db),
		Profiles:    profiles.NewSQLiteRepository(db),
		Matches:     matches.NewSQLiteRepository(db),
	}, nil
}
