package config

import (
	"time"

	"github.com/dmitrijs2005/journify/internal/client/repositories/responsecache"
)

// Config holds runtime settings for the Journify client.
//
// Fields:
//   - APIBaseURL: base url of the story API.
//   - DatabasePath: SQLite file shared with the relay.
//   - PhotoDir: where photos of locally created stories are copied.
//   - RelayAddr: host:port of the notification relay.
//   - PushEndpoint: public url of the relay push intake, sent when subscribing.
//   - OnlineCheckInterval: how often the client probes API reachability.
//   - CacheMaxEntries / CacheMaxAge: response cache bounds.
type Config struct {
	APIBaseURL          string
	DatabasePath        string
	PhotoDir            string
	RelayAddr           string
	PushEndpoint        string
	OnlineCheckInterval time.Duration
	CacheMaxEntries     int
	CacheMaxAge         time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://story-api.dicoding.dev/v1"
	c.DatabasePath = "journify.db"
	c.PhotoDir = "photos"
	c.RelayAddr = "127.0.0.1:8787"
	c.PushEndpoint = ""
	c.OnlineCheckInterval = 3 * time.Second
	c.CacheMaxEntries = responsecache.DefaultPolicy.MaxEntries
	c.CacheMaxAge = responsecache.DefaultPolicy.MaxAge
	c.LogLevel = "info"
}

// CachePolicy returns the response cache bounds.
func (c *Config) CachePolicy() responsecache.Policy {
	return responsecache.Policy{MaxEntries: c.CacheMaxEntries, MaxAge: c.CacheMaxAge}
}

// RelayURL is the websocket url of the relay.
func (c *Config) RelayURL() string {
	return "ws://" + c.RelayAddr + "/ws"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
