package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/dvi/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-a", "-i", "-t", "-r", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "u", cfg.APIBaseURL, "backend API base URL")
	fs.StringVar(&cfg.HealthEndpointAddr, "a", cfg.HealthEndpointAddr, "address and port of the health endpoint")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.DurationVar(&cfg.ProbeTimeout, "t", cfg.ProbeTimeout, "reachability probe timeout")
	fs.DurationVar(&cfg.RequestTimeout, "r", cfg.RequestTimeout, "HTTP request timeout")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
