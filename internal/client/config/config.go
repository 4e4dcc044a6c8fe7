package config

import "time"

// Config holds runtime settings for the birthday wall CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend HTTP API.
//   - RequestTimeout: per-call timeout for ordinary API requests.
//   - UploadTimeout: timeout for binary PUT uploads, which move real data.
//   - RefreshInterval: base interval for the background view refresher.
//   - CacheDBPath: path of the local sqlite snapshot cache.
type Config struct {
	ServerBaseURL   string
	RequestTimeout  time.Duration
	UploadTimeout   time.Duration
	RefreshInterval time.Duration
	CacheDBPath     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 5 * time.Second
	c.UploadTimeout = 60 * time.Second
	c.RefreshInterval = 10 * time.Second
	c.CacheDBPath = "wall.db"
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
