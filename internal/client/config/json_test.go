package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplyJson_OverridesOnlyPresentFields(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	var jc JsonConfig
	require.NoError(t, json.Unmarshal([]byte(`{
		"server_base_url": "https://api.eduline.io",
		"session_window": "10m"
	}`), &jc))

	applyJson(cfg, &jc)

	require.Equal(t, "https://api.eduline.io", cfg.ServerBaseURL)
	require.Equal(t, 10*time.Minute, cfg.SessionWindow)
	// fields absent from JSON keep their defaults
	require.Equal(t, 2*time.Minute, cfg.RefreshLeadTime)
	require.Equal(t, "eduline.db", cfg.DatabaseDSN)
}

func TestApplyJson_NanosecondDurations(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	var jc JsonConfig
	require.NoError(t, json.Unmarshal([]byte(`{"refresh_lead_time": 60000000000}`), &jc))

	applyJson(cfg, &jc)
	require.Equal(t, time.Minute, cfg.RefreshLeadTime)
}
