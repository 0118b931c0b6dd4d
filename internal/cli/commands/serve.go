package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/google/uuid"
	"github.com/metaview-labs/metaview/internal/ui"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command. --port and --dev are
// read through the configuration (server.port, server.dev).
type ServeOptions struct {
	Open bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the metaobject admin UI",
		Long: `Start the web server for the metaobject admin UI.

The UI provides:
- A paginated table of the metaobjects of a type
- A detail page per metaobject
- Live refresh when Shopify sends metaobject webhooks`,
		Example: `  # Start on the configured port
  metaview serve

  # Start on a custom port and open a browser
  metaview serve --port 3000 --open`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().Int("port", 0, "Port to serve on (default: 8080)")
	cmd.Flags().Bool("dev", false, "Enable hot reload routes")
	cmd.Flags().BoolVar(&opts.Open, "open", false, "Open the UI in a browser")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger

	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := cmdCtx.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	secret := cfg.Server.SessionSecret
	if secret == "" {
		// Cookies from a previous run stop decoding; shops must pass ?shop= again.
		secret = uuid.NewString() + uuid.NewString()
		cmdCtx.Renderer.Warning("server.session_secret is not set; using a random secret for this run")
	}

	server := ui.NewServer(ui.Config{
		Sessions:      store,
		Port:          cfg.Server.Port,
		SessionSecret: secret,
		AppURL:        cfg.Shopify.AppURL,
		APISecret:     cfg.Shopify.APISecret,
		Scopes:        cfg.Shopify.Scopes,
		APIVersion:    cfg.Shopify.APIVersion,
		Dev:           cfg.Server.Dev,
		Logger:        logger,
		NewClient:     clientFactory,
	})

	url := fmt.Sprintf("http://localhost:%d/app", cfg.Server.Port)
	if opts.Open {
		go openBrowser(ctx, url)
	}

	cmdCtx.Renderer.Println("Starting UI server on " + url)
	cmdCtx.Renderer.Muted("Press Ctrl+C to stop")

	return server.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(ctx context.Context, url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "linux":
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return
	}

	_ = cmd.Start()
}
