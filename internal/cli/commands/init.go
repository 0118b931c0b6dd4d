package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/metaview-labs/metaview/internal/cli/config"
	"github.com/metaview-labs/metaview/internal/cli/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configHeader is written above the generated configuration.
const configHeader = `# Metaview configuration.
# Every key can be overridden with METAVIEW_<SECTION>__<KEY>, for example
# METAVIEW_STORE__DSN. SHOPIFY_API_KEY, SHOPIFY_API_SECRET, SHOPIFY_APP_URL,
# SCOPES and PORT are read as well.

`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a metaview.yaml with default settings",
		Long: `Write a metaview.yaml holding the default configuration: Admin API
version, requested scopes, the sqlite session store and the UI port.`,
		Example: `  # Initialize in current directory
  metaview init

  # Initialize in a new directory
  metaview init my-shop

  # Force overwrite existing config
  metaview init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.ConfigFileNames[0])
	}

	var buf bytes.Buffer
	buf.WriteString(configHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(config.Default()); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.Success("Created " + configPath)
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Set shopify.api_secret and shopify.shop in " + config.ConfigFileNames[0])
	r.Println("  2. Store an access token with 'metaview session put --token <token>'")
	r.Println("  3. Run 'metaview list <type>' or 'metaview serve'")

	return nil
}
