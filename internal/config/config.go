package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ca-srg/hexocat/internal/types"
	env "github.com/netflix/go-env"
)

// Type alias for Config
type Config = types.Config

type Environment = types.Environment

const (
	Development = types.Development
	Staging     = types.Staging
	Production  = types.Production
)

// ErrMissingKey is returned when staging or production runs without a shared secret.
// An empty key would authorize every request carrying an empty token.
var ErrMissingKey = errors.New("HEXOCAT_KEY is required outside the development environment")

// Overrides are command line values that take precedence over the
// environment and the config file. Zero values are ignored.
type Overrides struct {
	Environment string
	Host        string
	Port        int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return LoadWithOverrides(Overrides{})
}

// LoadWithOverrides loads configuration from environment variables, the
// optional config file and o, in increasing order of precedence.
func LoadWithOverrides(o Overrides) (*Config, error) {
	var config Config

	es, err := env.UnmarshalFromEnviron(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if o.Environment != "" {
		config.EnvironmentStr = o.Environment
	}
	config.Environment, err = types.ParseEnvironment(config.EnvironmentStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HEXOCAT_ENV: %w", err)
	}
	config.ReplyStyle = types.ReplyStyle(strings.ToLower(strings.TrimSpace(config.ReplyStyleStr)))

	if config.ConfigFile != "" {
		if err := applyFile(&config, config.ConfigFile, es); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if o.Host != "" {
		config.Host = o.Host
	}
	if o.Port != 0 {
		config.Port = o.Port
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// Validate checks configuration values.
func Validate(config *Config) error {
	switch config.Environment {
	case types.Development:
	case types.Staging, types.Production:
		if config.Key == "" {
			return ErrMissingKey
		}
	default:
		return fmt.Errorf("unknown environment %q", config.Environment)
	}

	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("HEXOCAT_PORT must be between 1 and 65535")
	}
	if config.Host == "" {
		return fmt.Errorf("HEXOCAT_HOST cannot be empty")
	}

	if config.ReadTimeout <= 0 {
		return fmt.Errorf("HEXOCAT_READ_TIMEOUT must be greater than 0")
	}
	if config.WriteTimeout <= 0 {
		return fmt.Errorf("HEXOCAT_WRITE_TIMEOUT must be greater than 0")
	}
	if config.IdleTimeout <= 0 {
		return fmt.Errorf("HEXOCAT_IDLE_TIMEOUT must be greater than 0")
	}
	if config.ShutdownTimeout <= 0 {
		return fmt.Errorf("HEXOCAT_SHUTDOWN_TIMEOUT must be greater than 0")
	}

	if config.PageSize < 1 || config.PageSize > 100 {
		return fmt.Errorf("HEXOCAT_PAGE_SIZE must be between 1 and 100")
	}

	switch config.ReplyStyle {
	case types.ReplyStylePlain, types.ReplyStyleRich:
	default:
		return fmt.Errorf("HEXOCAT_REPLY_STYLE must be plain or rich, got %q", config.ReplyStyle)
	}

	if config.UserAgent == "" {
		return fmt.Errorf("HEXOCAT_USER_AGENT cannot be empty")
	}

	return validateGitHubURL(config.GitHubAPIURL)
}

func validateGitHubURL(raw string) error {
	parsedURL, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid HEXOCAT_GITHUB_API_URL URL format: %w", err)
	}

	if !strings.HasPrefix(parsedURL.Scheme, "http") {
		return fmt.Errorf("HEXOCAT_GITHUB_API_URL scheme must be http or https")
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("HEXOCAT_GITHUB_API_URL must include a valid host")
	}

	return nil
}
