// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load(ctx) layers sources.
// - External errors are wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// TenantID selects the tenant partition all store operations run under.
	TenantID string `koanf:"tenant_id"`

	// DataDir holds the static fallback dataset files (teams.yaml,
	// bounties.yaml).
	DataDir string `koanf:"data_dir"`

	// ProjectID identifies the Firestore project backing the record store.
	// Empty means the store runs unconfigured and every read falls back to
	// the static dataset.
	ProjectID string `koanf:"project_id"`

	// CredentialsFile points at a service account JSON file.
	CredentialsFile string `koanf:"credentials_file"`

	// CredentialsBase64 carries base64-encoded service account JSON; takes
	// precedence over CredentialsFile.
	CredentialsBase64 string `koanf:"credentials_base64"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel: "info",
		Addr:     ":8000",
		TenantID: "default",
		DataDir:  "data",
	}
}
