package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, "http://127.0.0.1:8080", cfg.ServerBaseURL)
	require.Equal(t, 15*time.Second, cfg.RequestTimeout)
	require.Equal(t, 15*time.Minute, cfg.SessionWindow)
	require.Equal(t, 2*time.Minute, cfg.RefreshLeadTime)
	require.Equal(t, "eduline.db", cfg.DatabaseDSN)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"client", "-a", "https://api.eduline.io", "-w", "600", "-l", "60"}

	cfg := LoadConfig()

	require.Equal(t, "https://api.eduline.io", cfg.ServerBaseURL)
	require.Equal(t, 10*time.Minute, cfg.SessionWindow)
	require.Equal(t, time.Minute, cfg.RefreshLeadTime)
	// untouched fields keep defaults
	require.Equal(t, "eduline.db", cfg.DatabaseDSN)
}

func TestLoadConfig_LeadTimeDefaultBelowWindow(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	require.Less(t, cfg.RefreshLeadTime, cfg.SessionWindow)
}
