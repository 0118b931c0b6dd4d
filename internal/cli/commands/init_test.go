package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaview-labs/metaview/internal/cli/config"
	clitest "github.com/metaview-labs/metaview/internal/cli/testutil"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name     string
		setupDir func(t *testing.T, dir string)
		args     []string
		wantErr  string
		wantPath string
	}{
		{
			name:     "init empty directory",
			wantPath: "metaview.yaml",
		},
		{
			name:     "init into subdirectory",
			args:     []string{"shop"},
			wantPath: filepath.Join("shop", "metaview.yaml"),
		},
		{
			name: "existing config without force",
			setupDir: func(t *testing.T, dir string) {
				clitest.WriteConfig(t, dir, "server:\n  port: 9999\n")
			},
			wantErr: "already exists",
		},
		{
			name: "existing config with force",
			setupDir: func(t *testing.T, dir string) {
				clitest.WriteConfig(t, dir, "server:\n  port: 9999\n")
			},
			args:     []string{"--force"},
			wantPath: "metaview.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := clitest.SetupWorkdir(t)
			if tt.setupDir != nil {
				tt.setupDir(t, dir)
			}

			out, _, err := runCommand(t, NewInitCommand(), tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, "Created")

			content, err := os.ReadFile(filepath.Join(dir, tt.wantPath))
			require.NoError(t, err)
			assert.Contains(t, string(content), config.DefaultAPIVersion)
			assert.Contains(t, string(content), "driver: sqlite")
			assert.NotContains(t, string(content), "9999")
		})
	}
}

func TestInit_GeneratedConfigLoads(t *testing.T) {
	dir := clitest.SetupWorkdir(t)

	_, _, err := runCommand(t, NewInitCommand())
	require.NoError(t, err)

	config.ResetConfig()
	cfg, err := config.LoadConfig(filepath.Join(dir, "metaview.yaml"), nil)
	require.NoError(t, err)

	want := config.Default()
	want.Store.DSN = cfg.Store.DSN // METAVIEW_STORE__DSN from SetupWorkdir
	assert.Equal(t, want, cfg)
}
