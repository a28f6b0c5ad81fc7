package config

import "github.com/dmitrijs2005/journify/internal/envx"

// EnvPrefix prefixes every environment variable read by the client.
const EnvPrefix = "JOURNIFY"

// parseEnv overlays cfg with JOURNIFY_* variables, reading .env first.
func parseEnv(cfg *Config) error {
	src, err := envx.Load(EnvPrefix, ".env")
	if err != nil {
		return err
	}

	src.String("api_base_url", &cfg.APIBaseURL)
	src.String("database_path", &cfg.DatabasePath)
	src.String("photo_dir", &cfg.PhotoDir)
	src.String("relay_addr", &cfg.RelayAddr)
	src.String("push_endpoint", &cfg.PushEndpoint)
	src.String("log_level", &cfg.LogLevel)
	if err := src.Duration("online_check_interval", &cfg.OnlineCheckInterval); err != nil {
		return err
	}
	if err := src.Int("cache_max_entries", &cfg.CacheMaxEntries); err != nil {
		return err
	}
	return src.Duration("cache_max_age", &cfg.CacheMaxAge)
}
