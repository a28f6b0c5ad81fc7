package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/journify/internal/flagx"
	"github.com/dmitrijs2005/journify/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. Pointer fields distinguish
// "absent" from zero.
type JsonConfig struct {
	APIBaseURL          string          `json:"api_base_url"`
	DatabasePath        string          `json:"database_path"`
	PhotoDir            string          `json:"photo_dir"`
	RelayAddr           string          `json:"relay_addr"`
	PushEndpoint        string          `json:"push_endpoint"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	CacheMaxEntries     *int            `json:"cache_max_entries"`
	CacheMaxAge         *timex.Duration `json:"cache_max_age"`
	LogLevel            string          `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config/--config in
// args. Without such a flag nothing is loaded.
func parseJson(cfg *Config, args []string) error {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.PhotoDir, jc.PhotoDir)
	setString(&cfg.RelayAddr, jc.RelayAddr)
	setString(&cfg.PushEndpoint, jc.PushEndpoint)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.CacheMaxEntries != nil {
		cfg.CacheMaxEntries = *jc.CacheMaxEntries
	}
	if jc.CacheMaxAge != nil {
		cfg.CacheMaxAge = time.Duration(jc.CacheMaxAge.Duration)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
