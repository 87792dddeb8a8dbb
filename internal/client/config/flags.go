package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/cupid/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     address and port of the identity backend
//	-d string     data directory
//	-t duration   request timeout, e.g. 5s
//	-l string     message language, e.g. en or zh-Hans
//	-f            clear the local session even if remote sign-out fails
//	-v string     log level (debug, info, warn, error)
//
// os.Args is filtered with flagx.FilterArgs first, so flags owned by other
// components (-c) do not trip the parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-l", "-f", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.IdentityEndpointAddr, "a", cfg.IdentityEndpointAddr, "address and port of the identity backend")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.Locale, "l", cfg.Locale, "message language")
	fs.BoolVar(&cfg.ForceLocalSignOut, "f", cfg.ForceLocalSignOut, "force local sign out")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
