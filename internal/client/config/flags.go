package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/journify/internal/flagx"
)

// Flag names understood by parseFlags. The CLI declares the same names as
// persistent flags so cobra accepts them.
const (
	FlagAPI       = "api"
	FlagDB        = "db"
	FlagPhotos    = "photos"
	FlagRelay     = "relay"
	FlagPush      = "push-endpoint"
	FlagInterval  = "interval"
	FlagLogLevel  = "log-level"
	FlagConfig    = "config"
	FlagConfigAbr = "c"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	--api string            story API base url
//	--db string             SQLite database path
//	--photos string         photo directory
//	--relay string          relay host:port
//	--push-endpoint string  public push intake url
//	--interval int          online check interval (in seconds)
//	--log-level string      debug, info, warn or error
//
// args is filtered first so subcommand flags are ignored.
func parseFlags(cfg *Config, args []string) error {
	names := []string{FlagAPI, FlagDB, FlagPhotos, FlagRelay, FlagPush, FlagInterval, FlagLogLevel}
	allowed := make([]string, 0, 2*len(names))
	for _, n := range names {
		allowed = append(allowed, "-"+n, "--"+n)
	}
	args = flagx.FilterArgs(args, allowed)

	fs := flag.NewFlagSet("journify", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, FlagAPI, cfg.APIBaseURL, "story API base url")
	fs.StringVar(&cfg.DatabasePath, FlagDB, cfg.DatabasePath, "database path")
	fs.StringVar(&cfg.PhotoDir, FlagPhotos, cfg.PhotoDir, "photo directory")
	fs.StringVar(&cfg.RelayAddr, FlagRelay, cfg.RelayAddr, "relay address")
	fs.StringVar(&cfg.PushEndpoint, FlagPush, cfg.PushEndpoint, "public push intake url")
	fs.StringVar(&cfg.LogLevel, FlagLogLevel, cfg.LogLevel, "log level")
	interval := fs.Int(FlagInterval, int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == FlagInterval {
			cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
		}
	})
	return nil
}
