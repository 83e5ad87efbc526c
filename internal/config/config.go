// Package config resolves CLI settings from defaults and GITGUARD_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Default values.
const (
	// DefaultAPIURL is the production GitGuard endpoint.
	DefaultAPIURL = "https://www.gitguard.net"

	// DefaultConfigDir is the per-user config directory, relative to $HOME.
	DefaultConfigDir = ".gitguard"

	// DefaultHTTPTimeout bounds a single API request.
	DefaultHTTPTimeout = 60 * time.Second
)

// validate is the shared validator instance.
var validate = validator.New()

// Settings holds the resolved runtime configuration. The session record
// itself lives in internal/session; these are process-level knobs only.
type Settings struct {
	// APIURL is the service base URL.
	APIURL string `mapstructure:"api_url" validate:"required,url"`

	// ConfigDir is the directory holding the session file.
	ConfigDir string `mapstructure:"config_dir" validate:"required"`

	// HTTPTimeout bounds a single API request.
	HTTPTimeout time.Duration `mapstructure:"http_timeout" validate:"required"`

	// APIURLFromEnv records whether GITGUARD_API_URL was set. When true,
	// the login command persists the override into the session record and
	// tells the user about it.
	APIURLFromEnv bool `mapstructure:"-"`
}

// Validate checks the settings using struct tags.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("settings validation failed: %w", err)
	}
	return nil
}

// Load resolves settings from defaults and the environment.
func Load() (*Settings, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("GITGUARD")
	v.AutomaticEnv()

	// BindEnv only fails when called with zero arguments.
	//nolint:errcheck // see above
	v.BindEnv("api_url", "GITGUARD_API_URL")
	//nolint:errcheck // see above
	v.BindEnv("config_dir", "GITGUARD_CONFIG_DIR")
	//nolint:errcheck // see above
	v.BindEnv("http_timeout", "GITGUARD_HTTP_TIMEOUT")

	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("config_dir", filepath.Join(home, DefaultConfigDir))
	v.SetDefault("http_timeout", DefaultHTTPTimeout)

	var s Settings
	if err := v.Unmarshal(&s, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	s.APIURLFromEnv = os.Getenv("GITGUARD_API_URL") != ""

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}
