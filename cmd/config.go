package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"github.com/etnz/dca"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const eodhdAPIKeyEnv = "EODHD_API_KEY"

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", defaultConfigFile(), "Path to the YAML configuration file. A missing file is not an error.")
var verbose = flag.Bool("v", false, "Print debug logs on stderr.")
var eodhdAPIFlag = flag.String("eodhd-api-key", "", "EODHD API key to use for fetching market data from eodhd.com.\n If missing it will read the environment variable \""+eodhdAPIKeyEnv+"\", then the configuration file. You can get one at https://eodhd.com/")

func defaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "dca", "config.yaml")
}

// Config is the content of the configuration file.
type Config struct {
	EODHD    EODHDConfig  `yaml:"eodhd"`
	Currency string       `yaml:"currency" default:"USD" validate:"len=3"`
	LogLevel string       `yaml:"log_level" default:"warn" validate:"oneof=trace debug info warn error"`
	Strategy dca.Strategy `yaml:"strategy"`
}

// EODHDConfig configures the eodhd.com client.
type EODHDConfig struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url" default:"https://eodhd.com/api" validate:"url"`
	Exchange  string `yaml:"exchange" default:"US" validate:"required"`
	RateLimit int    `yaml:"rate_limit" default:"10" validate:"gt=0"`
	Cache     bool   `yaml:"cache" default:"true"`
}

var validate = validator.New()

// LoadConfig reads the configuration file, applying defaults to missing values.
//
// A missing file yields the default configuration.
func LoadConfig(path string) (*Config, error) {
	c := new(Config)
	if err := defaults.Set(c); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	switch {
	case path == "" || errors.Is(err, fs.ErrNotExist):
		log.Debug().Str("path", path).Msg("no configuration file, using defaults")
	case err != nil:
		return nil, fmt.Errorf("cannot read configuration: %w", err)
	default:
		if err := yaml.Unmarshal(content, c); err != nil {
			return nil, fmt.Errorf("invalid configuration %q: %w", path, err)
		}
	}

	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("invalid configuration %q: %w", path, err)
	}
	return c, nil
}

// APIKey returns the eodhd API key: the flag, then the environment, then the file.
func (c *Config) APIKey() string {
	if *eodhdAPIFlag != "" {
		return *eodhdAPIFlag
	}
	if key := os.Getenv(eodhdAPIKeyEnv); key != "" {
		return key
	}
	return c.EODHD.APIKey
}

// setupLogging configures the global logger on stderr.
func setupLogging(level string, verbose bool) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().
		Timestamp().
		Logger()
	return nil
}

// loadConfig is the common setup of every command: configuration then logging.
func loadConfig() (*Config, error) {
	c, err := LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	if err := setupLogging(c.LogLevel, *verbose); err != nil {
		return nil, err
	}
	return c, nil
}
