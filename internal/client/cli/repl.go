package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL needs. App satisfies it; tests
// use a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Matches(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL reads commands from reader and dispatches them to a until the user
// types "exit" or "quit", input ends, or ctx is cancelled.
//
//	Signed out:
//	  - register       create an account
//	  - login          sign in
//	  - reset          request a password reset email
//
//	Signed in:
//	  - whoami         show the current profile
//	  - matches        list cached matches
//	  - logout         sign out
//
//	Always:
//	  - status         show the session state
//	  - help           list commands
//	  - exit | quit    leave the program
//
// Errors returned by handlers are not printed here: field errors are printed
// by the handlers and session errors by the alert watcher.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("cupid %s > ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, matches, status, logout, exit")
			} else {
				printlnFn("Available commands: register, login, reset, status, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "reset":
			_ = a.ResetPassword(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "matches":
			_ = a.Matches(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
