package config

import (
	"flag"
	"os"
	"time"

	"github.com/eduline/eduline-client/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the backend server
//	-d string   path to the local client database
//	-w int      assumed session window in seconds
//	-l int      refresh lead time in seconds
//
// The function filters os.Args to only the flags it knows about, using
// flagx.FilterArgs, so it does not interfere with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-w", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the backend server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "path to the local client database")
	window := fs.Int("w", int(cfg.SessionWindow.Seconds()), "assumed session window (in seconds)")
	lead := fs.Int("l", int(cfg.RefreshLeadTime.Seconds()), "refresh lead time (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SessionWindow = time.Duration(*window) * time.Second
	cfg.RefreshLeadTime = time.Duration(*lead) * time.Second
}
