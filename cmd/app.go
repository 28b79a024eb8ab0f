package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/habedi/tixshell/auth"
	"github.com/habedi/tixshell/client"
	"github.com/habedi/tixshell/config"
	"github.com/habedi/tixshell/db"
	"github.com/habedi/tixshell/pkg/clierr"
	"github.com/rs/zerolog/log"
)

// app holds the collaborators a command works with.
type app struct {
	cfg     *config.Config
	store   auth.CredentialStore
	session *auth.Session
	client  *client.Client
	closer  func() error
}

// openApp loads the config and opens the credential store.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, clierr.New(clierr.Validation, fmt.Sprintf("Invalid configuration: %v", err), err)
	}

	store, closer, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, clierr.New(clierr.Internal, "Failed to open the credential store.", err)
	}

	session := auth.NewSession(store)
	c, err := client.New(client.Options{
		BaseURL:        cfg.API.BaseURL,
		Timeout:        cfg.API.Timeout,
		RefreshTimeout: cfg.API.RefreshTimeout,
		RefreshPath:    cfg.API.RefreshPath,
	}, store, session)
	if err != nil {
		_ = closer()
		return nil, clierr.New(clierr.Validation, "Failed to create the API client.", err)
	}

	return &app{cfg: cfg, store: store, session: session, client: c, closer: closer}, nil
}

func (a *app) Close() {
	if err := a.closer(); err != nil {
		log.Error().Err(err).Msg("Failed to close the credential store.")
	}
}

// openStore opens the configured credential backend.
func openStore(ctx context.Context, sc config.StoreConfig) (auth.CredentialStore, func() error, error) {
	switch sc.Backend {
	case "sqlite":
		if sc.Path != "" {
			db.Path = sc.Path
		}
		if err := db.InitDB(); err != nil {
			return nil, nil, err
		}
		return db.NewCredentialRepository(db.Db, sc.Scope), db.CloseDB, nil
	case "redis":
		rdb, err := db.OpenRedis(ctx, sc.RedisAddr, sc.RedisPassword, sc.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return db.NewRedisCredentialRepository(rdb, sc.Scope), rdb.Close, nil
	case "memory":
		log.Warn().Msg("Using the in-memory credential store; nothing is kept after exit")
		return db.NewMemoryCredentialRepository(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", sc.Backend)
	}
}

// classify turns a client error into a categorized CLI error.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var (
		cliErr       *clierr.Error
		statusErr    *client.StatusError
		transportErr *client.TransportError
	)
	switch {
	case errors.As(err, &cliErr):
		return err
	case errors.Is(err, client.ErrUnauthorized):
		return clierr.New(clierr.Auth, "Not signed in or the session has ended. Use `tixshell token set` to sign in again.", err)
	case errors.As(err, &statusErr):
		return clierr.New(clierr.Status, fmt.Sprintf("Request failed with HTTP status %d.", statusErr.StatusCode), err)
	case errors.As(err, &transportErr):
		return clierr.New(clierr.Transport, fmt.Sprintf("Could not reach the API: %v", transportErr.Err), err)
	case errors.Is(err, client.ErrAbsoluteURL):
		return clierr.New(clierr.Validation, "Request paths must be relative to the API base URL.", err)
	default:
		return clierr.New(clierr.Internal, err.Error(), err)
	}
}
