// Package config loads settings for the development story API.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/journify/internal/envx"
	"github.com/dmitrijs2005/journify/internal/flagx"
)

type Config struct {
	ListenAddr string
	SecretKey  string
	TokenTTL   time.Duration
	LogLevel   string
	LogFormat  string
}

func (c *Config) LoadDefaults() {
	c.ListenAddr = "127.0.0.1:4000"
	c.SecretKey = "journify-dev-secret"
	c.TokenTTL = 24 * time.Hour
	c.LogLevel = "info"
	c.LogFormat = "text"
}

type JsonConfig struct {
	ListenAddr string `json:"listen_addr"`
	SecretKey  string `json:"secret_key"`
	TokenTTL   string `json:"token_ttl"`
	LogLevel   string `json:"log_level"`
	LogFormat  string `json:"log_format"`
}

const EnvPrefix = "JOURNIFY_DEVAPI"

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

	if jc.ListenAddr != "" {
		cfg.ListenAddr = jc.ListenAddr
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.TokenTTL != "" {
		d, err := time.ParseDuration(jc.TokenTTL)
		if err != nil {
			return fmt.Errorf("token_ttl: %w", err)
		}
		cfg.TokenTTL = d
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
	return nil
}

func parseEnv(cfg *Config) error {
	src, err := envx.Load(EnvPrefix, ".env")
	if err != nil {
		return err
	}
	src.String("listen_addr", &cfg.ListenAddr)
	src.String("secret_key", &cfg.SecretKey)
	src.String("log_level", &cfg.LogLevel)
	src.String("log_format", &cfg.LogFormat)
	return src.Duration("token_ttl", &cfg.TokenTTL)
}

// parseFlags reads:
//
//	-a string        listen address
//	-k string        token signing key
//	-ttl duration    token validity
//	-l string        log level
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-k", "-ttl", "--ttl", "-l"})

	fs := flag.NewFlagSet("devapi", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "listen address")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "token signing key")
	fs.DurationVar(&cfg.TokenTTL, "ttl", cfg.TokenTTL, "token validity")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	return fs.Parse(args)
}
