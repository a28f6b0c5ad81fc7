// Package config loads runtime configuration for the notification relay,
// with the same precedence as the client: defaults, JSON file, environment,
// flags.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/journify/internal/common"
	"github.com/dmitrijs2005/journify/internal/envx"
	"github.com/dmitrijs2005/journify/internal/flagx"
)

// Config holds runtime settings for the relay daemon.
//
// Fields:
//   - ListenAddr: bind address of the websocket and push intake.
//   - DatabasePath: SQLite file shared with the foreground client.
//   - InboxDir: spool directory watched for *.json push payloads; empty
//     disables it.
//   - AppURL: base url new windows are opened at.
//   - OpenCommand: program that opens a url, e.g. xdg-open.
//   - AssetDir: where icons such as /images/logo.png are looked up.
type Config struct {
	ListenAddr   string
	DatabasePath string
	InboxDir     string
	AppURL       string
	OpenCommand  string
	DefaultIcon  string
	AssetDir     string
	LogLevel     string
	LogFormat    string
}

func (c *Config) LoadDefaults() {
	c.ListenAddr = "127.0.0.1:8787"
	c.DatabasePath = "journify.db"
	c.InboxDir = ""
	c.AppURL = "journify://app"
	c.OpenCommand = "xdg-open"
	c.DefaultIcon = common.DefaultNotificationIcon
	c.AssetDir = "public"
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// JsonConfig is the on-disk form.
type JsonConfig struct {
	ListenAddr   string `json:"listen_addr"`
	DatabasePath string `json:"database_path"`
	InboxDir     string `json:"inbox_dir"`
	AppURL       string `json:"app_url"`
	OpenCommand  string `json:"open_command"`
	DefaultIcon  string `json:"default_icon"`
	AssetDir     string `json:"asset_dir"`
	LogLevel     string `json:"log_level"`
	LogFormat    string `json:"log_format"`
}

const EnvPrefix = "JOURNIFY_RELAY"

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

	for dst, v := range map[*string]string{
		&cfg.ListenAddr:   jc.ListenAddr,
		&cfg.DatabasePath: jc.DatabasePath,
		&cfg.InboxDir:     jc.InboxDir,
		&cfg.AppURL:       jc.AppURL,
		&cfg.OpenCommand:  jc.OpenCommand,
		&cfg.DefaultIcon:  jc.DefaultIcon,
		&cfg.AssetDir:     jc.AssetDir,
		&cfg.LogLevel:     jc.LogLevel,
		&cfg.LogFormat:    jc.LogFormat,
	} {
		if v != "" {
			*dst = v
		}
	}
	return nil
}

func parseEnv(cfg *Config) error {
	src, err := envx.Load(EnvPrefix, ".env")
	if err != nil {
		return err
	}
	src.String("listen_addr", &cfg.ListenAddr)
	src.String("database_path", &cfg.DatabasePath)
	src.String("inbox_dir", &cfg.InboxDir)
	src.String("app_url", &cfg.AppURL)
	src.String("open_command", &cfg.OpenCommand)
	src.String("default_icon", &cfg.DefaultIcon)
	src.String("asset_dir", &cfg.AssetDir)
	src.String("log_level", &cfg.LogLevel)
	src.String("log_format", &cfg.LogFormat)
	return nil
}

// parseFlags reads:
//
//	-a string   listen address
//	-d string   database path
//	-inbox string
//	-app-url string
//	-open string
//	-l string   log level
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-inbox", "--inbox", "-app-url", "--app-url", "-open", "--open", "-l"})

	fs := flag.NewFlagSet("relay", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "listen address")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "database path")
	fs.StringVar(&cfg.InboxDir, "inbox", cfg.InboxDir, "push spool directory")
	fs.StringVar(&cfg.AppURL, "app-url", cfg.AppURL, "base url opened on click")
	fs.StringVar(&cfg.OpenCommand, "open", cfg.OpenCommand, "command used to open urls")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	return fs.Parse(args)
}
