package config

import "time"

// Config holds runtime settings for the DVI mechanic CLI.
//
// HealthEndpointAddr may be empty, in which case the backend is assumed to be
// reachable and delivery failures are left to the sync queue.
type Config struct {
	APIBaseURL          string
	HealthEndpointAddr  string
	OnlineCheckInterval time.Duration
	ProbeTimeout        time.Duration
	RequestTimeout      time.Duration
	DataDir             string
	LogFile             string
	LogMaxAgeDays       int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.HealthEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.ProbeTimeout = 3 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.DataDir = ".dvi"
	c.LogFile = ""
	c.LogMaxAgeDays = 14
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
