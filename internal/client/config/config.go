package config

import "time"

// Config holds runtime settings for the pulse CLI.
//
// Fields:
//   - APIBaseURL: base URL of the portal API, including the version prefix.
//   - RequestTimeout: client-side timeout applied to every API request.
//   - DataDir: directory holding the durable session database.
//   - LogLevel: slog level name (debug, info, warn, error).
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DataDir        string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api/v1"
	c.RequestTimeout = 15 * time.Second
	c.DataDir = "."
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
