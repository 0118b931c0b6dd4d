package commands

import (
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the session store schema",
		Long: `Apply pending schema migrations to the configured session store.
Other commands migrate on open as well; this is for provisioning a
database ahead of the first deploy.`,
		Example: `  metaview migrate
  metaview migrate --store-driver postgres --store-dsn postgres://localhost/metaview`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)

			store, err := cmdCtx.OpenStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cmdCtx.Renderer.Success("Session store is up to date (" + cmdCtx.Cfg.Store.Driver + ")")
			return nil
		},
	}
}
