package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/cupid/internal/client/cli"
	"github.com/dmitrijs2005/cupid/internal/client/config"
	"github.com/dmitrijs2005/cupid/internal/client/docstore"
	"github.com/dmitrijs2005/cupid/internal/client/i18n"
	"github.com/dmitrijs2005/cupid/internal/client/identity"
	"github.com/dmitrijs2005/cupid/internal/client/profiles"
	"github.com/dmitrijs2005/cupid/internal/client/session"
	"github.com/dmitrijs2005/cupid/internal/client/storage"
	"github.com/dmitrijs2005/cupid/internal/logging"
)

func main() {
	if err := run(context.Background(), config.LoadConfig()); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.NewTextLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	locale := i18n.Parse(cfg.Locale)

	repos, err := storage.Open(ctx, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open local storage: %w", err)
	}
	defer repos.Close()

	backend, err := identity.NewGRPCClient(cfg.IdentityEndpointAddr, identity.WithRequestTimeout(cfg.RequestTimeout))
	if err != nil {
		return fmt.Errorf("connect identity backend: %w", err)
	}
	defer backend.Close()

	var remote profiles.Remote
	if cfg.S3Enabled() {
		ds, err := docstore.New(ctx, docstore.Config{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3BaseEndpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
		})
		if err != nil {
			return fmt.Errorf("init profile store: %w", err)
		}
		remote = ds
	}

	manager := session.NewManager(repos.Credentials, backend,
		session.WithProfiles(profiles.NewSource(remote, repos.Profiles, logger)),
		session.WithLogger(logger),
		session.WithLocale(locale),
		session.WithForceLocalSignOut(cfg.ForceLocalSignOut),
	)
	defer manager.Close()

	if err := manager.CheckAuthStatus(ctx); err != nil {
		logger.Warn(ctx, "session not restored", "error", err)
	}

	cli.NewApp(manager, locale, logger, os.Stdin, os.Stdout, cli.WithMatches(repos.Matches)).Run(ctx)
	return nil
}
