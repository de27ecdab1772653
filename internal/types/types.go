package types

import (
	"fmt"
	"strings"
	"time"
)

// Environment selects how inbound requests are authorized.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// ParseEnvironment accepts the full names and the short forms dev, stage and prod.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dev", "development":
		return Development, nil
	case "stage", "staging":
		return Staging, nil
	case "prod", "production":
		return Production, nil
	default:
		return "", fmt.Errorf("unknown environment %q", s)
	}
}

func (e Environment) String() string { return string(e) }

// ReplyStyle selects how search results are rendered for Slack.
type ReplyStyle string

const (
	ReplyStylePlain ReplyStyle = "plain"
	ReplyStyleRich  ReplyStyle = "rich"
)

// Config represents the hexocat service configuration
type Config struct {
	// Access control
	EnvironmentStr string      `yaml:"-" env:"HEXOCAT_ENV,default=development"`
	Environment    Environment `yaml:"environment"`
	Key            string      `yaml:"key" env:"HEXOCAT_KEY"`
	SigningSecret  string      `yaml:"signing_secret,omitempty" env:"HEXOCAT_SIGNING_SECRET"`
	ConfigFile     string      `yaml:"config_file,omitempty" env:"HEXOCAT_CONFIG_FILE"`

	// HTTP server
	Host            string        `yaml:"host" env:"HEXOCAT_HOST,default=0.0.0.0"`
	Port            int           `yaml:"port" env:"HEXOCAT_PORT,default=8000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HEXOCAT_READ_TIMEOUT,default=10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HEXOCAT_WRITE_TIMEOUT,default=10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HEXOCAT_IDLE_TIMEOUT,default=120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HEXOCAT_SHUTDOWN_TIMEOUT,default=15s"`

	// Upstream search
	GitHubAPIURL  string     `yaml:"github_api_url" env:"HEXOCAT_GITHUB_API_URL,default=https://api.github.com"`
	UserAgent     string     `yaml:"user_agent" env:"HEXOCAT_USER_AGENT,default=hexocat-bot"`
	PageSize      int        `yaml:"page_size" env:"HEXOCAT_PAGE_SIZE,default=10"`
	ReplyStyleStr string     `yaml:"-" env:"HEXOCAT_REPLY_STYLE,default=plain"`
	ReplyStyle    ReplyStyle `yaml:"reply_style"`

	// OpenTelemetry configuration
	OTelEnabled              bool    `yaml:"otel_enabled" env:"OTEL_ENABLED,default=false"`
	OTelServiceName          string  `yaml:"otel_service_name" env:"OTEL_SERVICE_NAME,default=hexocat"`
	OTelExporterOTLPEndpoint string  `yaml:"otel_exporter_otlp_endpoint,omitempty" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelExporterOTLPProtocol string  `yaml:"otel_exporter_otlp_protocol" env:"OTEL_EXPORTER_OTLP_PROTOCOL,default=http/protobuf"`
	OTelResourceAttributes   string  `yaml:"otel_resource_attributes,omitempty" env:"OTEL_RESOURCE_ATTRIBUTES"`
	OTelTracesSampler        string  `yaml:"otel_traces_sampler" env:"OTEL_TRACES_SAMPLER,default=always_on"`
	OTelTracesSamplerArg     float64 `yaml:"otel_traces_sampler_arg" env:"OTEL_TRACES_SAMPLER_ARG,default=1.0"`
}

// Addr returns the host:port the webhook server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
