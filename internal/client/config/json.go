package config

import (
	"encoding/json"
	"os"

	"github.com/eduline/eduline-client/internal/flagx"
	"github.com/eduline/eduline-client/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// may be given as strings ("2m") or integer nanoseconds via timex.Duration.
type JsonConfig struct {
	ServerBaseURL   string         `json:"server_base_url"`
	RequestTimeout  timex.Duration `json:"request_timeout"`
	SessionWindow   timex.Duration `json:"session_window"`
	RefreshLeadTime timex.Duration `json:"refresh_lead_time"`
	DatabaseDSN     string         `json:"database_dsn"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flag. Absent file path means no JSON stage. Only fields
// actually present in the file override the current values.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	applyJson(cfg, &jc)
}

func applyJson(cfg *Config, jc *JsonConfig) {
	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SessionWindow.Duration != 0 {
		cfg.SessionWindow = jc.SessionWindow.Duration
	}
	if jc.RefreshLeadTime.Duration != 0 {
		cfg.RefreshLeadTime = jc.RefreshLeadTime.Duration
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
}
