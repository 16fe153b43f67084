package config

import "time"

// Config holds runtime settings for the EduLine client.
//
// SessionWindow is the assumed lifetime of an access token when the token
// itself does not carry an expiry. It is an estimate, not a server-reported
// value; if it diverges from the backend's real token lifetime, proactive
// refreshes fire too early or too late and the request interceptor picks up
// the slack. RefreshLeadTime is the safety margin subtracted from the
// expiry when scheduling a proactive refresh.
type Config struct {
	ServerBaseURL   string
	RequestTimeout  time.Duration
	SessionWindow   time.Duration
	RefreshLeadTime time.Duration
	DatabaseDSN     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 15 * time.Second
	c.SessionWindow = 15 * time.Minute
	c.RefreshLeadTime = 2 * time.Minute
	c.DatabaseDSN = "eduline.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if a config file was given) and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
