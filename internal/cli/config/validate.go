package config

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/metaview-labs/metaview/internal/cli/output"
	"github.com/metaview-labs/metaview/internal/session"
)

var apiVersionPattern = regexp.MustCompile(`^(\d{4}-(0[1-9]|1[0-2])|unstable)$`)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case session.DriverSQLite, session.DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("store.driver must be %q or %q, got %q", session.DriverSQLite, session.DriverPostgres, c.Store.Driver))
	}
	if c.Store.DSN == "" {
		errs = append(errs, errors.New("store.dsn is required"))
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}

	if !apiVersionPattern.MatchString(c.Shopify.APIVersion) {
		errs = append(errs, fmt.Errorf("shopify.api_version must look like YYYY-MM, got %q", c.Shopify.APIVersion))
	}

	if c.OutputFormat != "" && output.Mode(c.OutputFormat) == output.ModeAuto && c.OutputFormat != string(output.ModeAuto) {
		errs = append(errs, fmt.Errorf("output must be one of %v, got %q", output.Modes, c.OutputFormat))
	}

	return errors.Join(errs...)
}

// ValidateServer checks the settings only the UI server needs.
func (c *Config) ValidateServer() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required")
	}
	if c.Shopify.APISecret == "" {
		return errors.New("shopify.api_secret is required to verify webhooks\nHint: set SHOPIFY_API_SECRET or shopify.api_secret in metaview.yaml")
	}
	return nil
}
