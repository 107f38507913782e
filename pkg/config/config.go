package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-sdn/pkg/logging"
	"github.com/dd0wney/cluso-sdn/pkg/routing"
	sdntls "github.com/dd0wney/cluso-sdn/pkg/tls"
	"github.com/dd0wney/cluso-sdn/pkg/validation"
)

// Environment overrides
const (
	EnvListenAddr = "SDN_LISTEN_ADDR"
	EnvJWTSecret  = "SDN_JWT_SECRET"
	EnvFeedAddr   = "SDN_FEED_ADDR"
	EnvLogLevel   = "LOG_LEVEL"
)

// MinSecretLength is the shortest accepted JWT signing secret
const MinSecretLength = 32

// Config is the controller process configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Routing       RoutingConfig       `yaml:"routing"`
	Audit         AuditConfig         `yaml:"audit"`
	Auth          AuthConfig          `yaml:"auth"`
	Events        EventsConfig        `yaml:"events"`
	Logging       LoggingConfig       `yaml:"logging"`
	Visualization VisualizationConfig `yaml:"visualization"`
	Scenario      ScenarioConfig      `yaml:"scenario"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	ListenAddr      string        `yaml:"listen_addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	TLS             sdntls.Config `yaml:"tls"`
}

// RoutingConfig bounds path enumeration
type RoutingConfig struct {
	DefaultK int `yaml:"default_k"`
	MaxPaths int `yaml:"max_paths"`
	MaxNodes int `yaml:"max_nodes"`
}

// Limits converts the section to routing limits
func (r RoutingConfig) Limits() routing.Limits {
	return routing.Limits{MaxPaths: r.MaxPaths, MaxNodes: r.MaxNodes}
}

// AuditConfig sizes the in-memory audit trail
type AuditConfig struct {
	BufferSize int `yaml:"buffer_size"`
}

// AuthConfig configures bearer tokens for mutating routes
type AuthConfig struct {
	Enabled   bool          `yaml:"enabled"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// EventsConfig configures the event bus and its network feed.
// An empty FeedAddr disables the feed.
type EventsConfig struct {
	BufferSize int    `yaml:"buffer_size"`
	FeedAddr   string `yaml:"feed_addr"`
}

// LoggingConfig selects the log level
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// VisualizationConfig selects the default topology layout
type VisualizationConfig struct {
	Layout string  `yaml:"layout"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ScenarioConfig points at a scenario applied at startup
type ScenarioConfig struct {
	Path string `yaml:"path"`
}

// Default returns the built-in configuration
func Default() *Config {
	limits := routing.DefaultLimits()
	return &Config{
		Server: ServerConfig{
			ListenAddr:      ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
			TLS:             sdntls.DefaultConfig(),
		},
		Routing: RoutingConfig{
			DefaultK: 3,
			MaxPaths: limits.MaxPaths,
			MaxNodes: limits.MaxNodes,
		},
		Audit:         AuditConfig{BufferSize: 1000},
		Auth:          AuthConfig{TokenTTL: time.Hour},
		Events:        EventsConfig{BufferSize: 100},
		Logging:       LoggingConfig{Level: "info"},
		Visualization: VisualizationConfig{Layout: "circular", Width: 800, Height: 600},
	}
}

// Load reads a YAML file over the defaults, then applies environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from environment variables
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvListenAddr); v != "" {
		c.Server.ListenAddr = v
	}
	if v := getenv(EnvJWTSecret); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := getenv(EnvFeedAddr); v != "" {
		c.Events.FeedAddr = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// LogLevel returns the configured level
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}

// Validate checks every section and reports all problems at once
func (c *Config) Validate() error {
	cv := validation.NewConfigValidator("config")
	cv.Required("server.listen_addr", c.Server.ListenAddr).
		MinDuration("server.read_timeout", c.Server.ReadTimeout, time.Millisecond).
		MinDuration("server.write_timeout", c.Server.WriteTimeout, time.Millisecond).
		Positive("server.max_body_bytes", int(c.Server.MaxBodyBytes)).
		RangeInt("routing.default_k", c.Routing.DefaultK, 1, validation.MaxK).
		Positive("routing.max_paths", c.Routing.MaxPaths).
		Positive("routing.max_nodes", c.Routing.MaxNodes).
		Positive("audit.buffer_size", c.Audit.BufferSize).
		Positive("events.buffer_size", c.Events.BufferSize).
		OneOf("logging.level", c.Logging.Level, []string{"debug", "info", "warn", "warning", "error"}).
		OneOf("visualization.layout", c.Visualization.Layout, []string{"circular", "hierarchical", "force"}).
		When(c.Server.TLS.Enabled && !c.Server.TLS.AutoGenerate, func(cv *validation.ConfigValidator) {
			cv.Required("server.tls.cert_file", c.Server.TLS.CertFile).
				Required("server.tls.key_file", c.Server.TLS.KeyFile)
		}).
		When(c.Auth.Enabled, func(cv *validation.ConfigValidator) {
			cv.MinLen("auth.jwt_secret", c.Auth.JWTSecret, MinSecretLength).
				MinDuration("auth.token_ttl", c.Auth.TokenTTL, time.Minute)
		})
	return cv.Validate()
}
