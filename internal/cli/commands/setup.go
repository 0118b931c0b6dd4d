package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/metaview-labs/metaview/internal/auth"
	"github.com/metaview-labs/metaview/internal/cli/config"
	"github.com/metaview-labs/metaview/internal/cli/output"
	"github.com/metaview-labs/metaview/internal/cms"
	"github.com/metaview-labs/metaview/internal/session"
	"github.com/spf13/cobra"
)

// clientFactory overrides the Admin API client. Tests swap it for a fake.
var clientFactory auth.ClientFactory

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// OpenStore opens and migrates the configured session store.
func (c *CommandContext) OpenStore(ctx context.Context) (session.Store, error) {
	store, err := session.Open(ctx, c.Cfg.Store.Driver, c.Cfg.Store.DSN, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	return store, nil
}

// Querier returns a client authorized with the stored session of the
// configured shop. The returned cleanup closes the session store.
func (c *CommandContext) Querier(ctx context.Context) (cms.Querier, func(), error) {
	shop := strings.ToLower(strings.TrimSpace(c.Cfg.Shopify.Shop))
	if shop == "" {
		return nil, nil, errors.New("no shop selected\nHint: pass --shop or set shopify.shop in metaview.yaml")
	}
	if !auth.ValidShop(shop) {
		return nil, nil, fmt.Errorf("%w: %q", auth.ErrInvalidShop, shop)
	}

	store, err := c.OpenStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = store.Close() }

	authn := auth.New(auth.Config{
		Sessions:   store,
		Scopes:     c.Cfg.Shopify.Scopes,
		APIVersion: c.Cfg.Shopify.APIVersion,
		Logger:     c.Logger,
		NewClient:  clientFactory,
	})
	admin, err := authn.AdminForShop(ctx, shop)
	if err != nil {
		cleanup()
		if errors.Is(err, auth.ErrNotInstalled) {
			return nil, nil, fmt.Errorf("%w\nHint: provision a token with 'metaview session put --shop %s --token <token>'", err, shop)
		}
		return nil, nil, err
	}
	return admin.Client, cleanup, nil
}

// getConfig returns the current configuration, or defaults when no
// configuration has been loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
