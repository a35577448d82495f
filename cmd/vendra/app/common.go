package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vendra/vendra/pkg/config"
	"github.com/vendra/vendra/pkg/gateway"
	"github.com/vendra/vendra/pkg/secrets"
	"github.com/vendra/vendra/pkg/session"
)

// connect signs in using the saved connection preset and returns a ready
// gateway. Every invocation starts a fresh session; nothing session-scoped
// survives the process.
func connect(ctx context.Context) (*gateway.Gateway, *session.Manager, error) {
	cfg, err := config.LoadOrCreateConfig()
	if err != nil {
		return nil, nil, err
	}
	if !cfg.HasPreset() {
		return nil, nil, fmt.Errorf("no saved connection, run `vendra login --save` first")
	}

	password, err := secrets.GetPassword(cfg.ServerURL, cfg.Username)
	if err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			return nil, nil, fmt.Errorf("no stored password for %s, run `vendra login --save` again", cfg.Username)
		}
		return nil, nil, err
	}

	manager := session.NewManager(managerOptions(cfg)...)
	if _, err := manager.SignIn(ctx, cfg.ServerURL, cfg.Username, password, cfg.Database); err != nil {
		return nil, nil, err
	}

	var opts []gateway.Option
	if cfg.DefaultLang != "" {
		opts = append(opts, gateway.WithLang(cfg.DefaultLang))
	}
	return gateway.New(manager, opts...), manager, nil
}

func managerOptions(cfg *config.Config) []session.Option {
	var opts []session.Option
	if cfg.CACertificatePath != "" {
		opts = append(opts, session.WithCABundle(cfg.CACertificatePath))
	}
	if cfg.AllowHTTP {
		opts = append(opts, session.WithHTTPAllowed(true))
	}
	return opts
}
