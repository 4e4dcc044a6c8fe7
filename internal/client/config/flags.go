package config

import (
	"flag"
	"os"
	"time"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend server (default from Config)
//	-i int      refresh interval in seconds (default from Config)
//	-f string   path of the local snapshot cache database
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL to access server")
	refreshInterval := fs.Int("i", int(cfg.RefreshInterval.Seconds()), "refresh interval (in seconds)")
	fs.StringVar(&cfg.CacheDBPath, "f", cfg.CacheDBPath, "path of the local cache database")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RefreshInterval = time.Duration(*refreshInterval) * time.Second
}
