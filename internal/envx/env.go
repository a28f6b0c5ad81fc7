// Package envx overlays configuration with environment variables, optionally
// loaded from a .env file first.
package envx

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Source reads PREFIX_KEY variables.
type Source struct {
	v *viper.Viper
}

// Load reads dotenv files that exist (missing ones are skipped) and returns a
// Source for prefix. Variables already set in the environment win over the
// files.
func Load(prefix string, dotenv ...string) (*Source, error) {
	for _, p := range dotenv {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", p, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return &Source{v: v}, nil
}

// String sets *dst when key is present and non-empty.
func (s *Source) String(key string, dst *string) {
	if val := s.v.GetString(key); val != "" {
		*dst = val
	}
}

func (s *Source) Int(key string, dst *int) error {
	raw := s.v.GetString(key)
	if raw == "" {
		return nil
	}
	var n int
	if _, err := fmt.Sscan(raw, &n); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

// Duration accepts Go duration strings such as "3s".
func (s *Source) Duration(key string, dst *time.Duration) error {
	raw := s.v.GetString(key)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
