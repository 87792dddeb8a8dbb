// Package profiles provides the client-side cache of user profiles.
//
// # Overview
//
// Profiles are stored as their transport JSON document (see
// models.Profile.ToTransport) keyed by user id, so the cache holds exactly
// what the remote document store serves. A SQLite-backed implementation
// (SQLiteRepository) persists data using a dbx.DBTX (either *sql.DB or
// *sql.Tx).
//
// Get returns common.ErrNotFound for an unknown id. A stored document that no
// longer decodes is reported as models.ErrMalformedTransport.
//
// Typical Usage
//
//	repo := profiles.NewSQLiteRepository(db)
//	_ = repo.Put(ctx, profile)
//	p, err := repo.Get(ctx, id)
//	_ = repo.Delete(ctx, id)
package profiles
