// Package config loads metaview settings from defaults, a metaview.yaml file,
// the environment and command-line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	Shopify      ShopifyConfig `koanf:"shopify" yaml:"shopify"`
	Store        StoreConfig   `koanf:"store" yaml:"store"`
	Server       ServerConfig  `koanf:"server" yaml:"server"`
	Verbose      bool          `koanf:"verbose" yaml:"verbose"`
	OutputFormat string        `koanf:"output" yaml:"output"`
}

// ShopifyConfig holds the app credentials and Admin API settings.
type ShopifyConfig struct {
	APIKey     string   `koanf:"api_key" yaml:"api_key"`
	APISecret  string   `koanf:"api_secret" yaml:"api_secret"`
	Scopes     []string `koanf:"scopes" yaml:"scopes,flow"`
	AppURL     string   `koanf:"app_url" yaml:"app_url"`
	APIVersion string   `koanf:"api_version" yaml:"api_version"`
	// Shop is the default shop for CLI queries.
	Shop string `koanf:"shop" yaml:"shop,omitempty"`
}

// StoreConfig selects the session store backend.
type StoreConfig struct {
	Driver string `koanf:"driver" yaml:"driver"`
	DSN    string `koanf:"dsn" yaml:"dsn"`
}

// ServerConfig holds settings for the admin UI server.
type ServerConfig struct {
	Port          int    `koanf:"port" yaml:"port"`
	SessionSecret string `koanf:"session_secret" yaml:"session_secret"`
	Dev           bool   `koanf:"dev" yaml:"dev,omitempty"`
}

// Default configuration values.
const (
	DefaultAPIVersion = "2024-10"
	DefaultDriver     = "sqlite"
	DefaultDSN        = ".metaview/sessions.db"
	DefaultPort       = 8080
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultScopes     = "read_metaobjects,read_metaobject_definitions"
)

// ConfigFileNames are the file names searched for in the working directory.
var ConfigFileNames = []string{"metaview.yaml", "metaview.yml"} //nolint:revive // config.ConfigFileNames reads fine at call sites

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Shopify: ShopifyConfig{
			Scopes:     SplitList(DefaultScopes),
			APIVersion: DefaultAPIVersion,
		},
		Store: StoreConfig{
			Driver: DefaultDriver,
			DSN:    DefaultDSN,
		},
		Server: ServerConfig{
			Port: DefaultPort,
		},
		OutputFormat: DefaultOutput,
	}
}
