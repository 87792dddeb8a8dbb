// Package cli provides the interactive Cupid command-line client.
//
// App drives a session.Manager from a simple REPL: register, login, logout,
// password reset, a look at the current profile and the cached matches.
// Validation problems are printed next to the field they concern; session
// errors are printed once as an alert by a goroutine subscribed to the
// manager, then dismissed.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
