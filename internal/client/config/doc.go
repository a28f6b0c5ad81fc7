// Package config loads runtime configuration for the Journify client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c, -config or --config.
//  3. JOURNIFY_* environment variables, optionally from a .env file.
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
// Durations are strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://127.0.0.1:4000/v1",
//	  "database_path": "journify.db",
//	  "relay_addr": "127.0.0.1:8787",
//	  "online_check_interval": "3s",
//	  "cache_max_age": "168h"
//	}
package config
