// File: internal/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds the entire application configuration. The core engine takes
// no global state; this struct is passed explicitly into the shell at
// startup.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Agent  AgentConfig  `mapstructure:"agent" yaml:"agent"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// EngineConfig tunes the resolution engine shell. The engine itself is pure;
// these knobs only shape how much it reports and how the CLI drives it.
type EngineConfig struct {
	// MaxAlternates caps the number of alternate candidates returned
	// alongside a winner.
	MaxAlternates int `mapstructure:"max_alternates" yaml:"max_alternates"`
	// ResolveConcurrency bounds how many descriptions the resolve command
	// processes in parallel against one shared document.
	ResolveConcurrency int `mapstructure:"resolve_concurrency" yaml:"resolve_concurrency"`
}

// ServerConfig holds the HTTP shell settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	// MaxBodyBytes bounds request bodies; pathological HTML is the caller's
	// problem, not the engine's.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
}

// Addr returns the host:port the server binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AgentConfig holds settings for the optional AI candidate source.
type AgentConfig struct {
	Enabled bool      `mapstructure:"enabled" yaml:"enabled"`
	LLM     LLMConfig `mapstructure:"llm" yaml:"llm"`
}

// LLMConfig defines the configuration for the LLM provider.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider" yaml:"provider"`
	Model       string        `mapstructure:"model" yaml:"model"`
	APIKey      string        `mapstructure:"api_key" yaml:"-"`
	APITimeout  time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
	Temperature float64       `mapstructure:"temperature" yaml:"temperature"`
	// RateLimit is the maximum LLM calls per second.
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "forceps-cli")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Engine --
	v.SetDefault("engine.max_alternates", 5)
	v.SetDefault("engine.resolve_concurrency", 4)

	// -- Server --
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_body_bytes", int64(8<<20))

	// -- Agent --
	v.SetDefault("agent.enabled", false)
	v.SetDefault("agent.llm.provider", "gemini")
	v.SetDefault("agent.llm.model", "gemini-2.5-flash")
	v.SetDefault("agent.llm.api_timeout", "45s")
	v.SetDefault("agent.llm.temperature", 0.0)
	v.SetDefault("agent.llm.rate_limit", 1.0)
}

// Load reads the configuration from the given file (or the default search
// paths when empty), environment variables with the FORCEPS_ prefix, and the
// built-in defaults, in ascending precedence.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".forceps"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("FORCEPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("agent.llm.api_key", "FORCEPS_LLM_API_KEY", "GEMINI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and env vars carry the day.
	}

	return NewFromViper(v)
}

// NewFromViper unmarshals and validates a configuration from a viper
// instance.
func NewFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewFromViper(v)
	if err != nil {
		// Defaults must always validate.
		panic(fmt.Sprintf("failed to build default config: %v", err))
	}
	return cfg
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Engine.MaxAlternates < 0 {
		return fmt.Errorf("engine.max_alternates must not be negative")
	}
	if c.Engine.ResolveConcurrency <= 0 {
		return fmt.Errorf("engine.resolve_concurrency must be a positive integer")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535]")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}
	if err := c.Agent.Validate(); err != nil {
		return fmt.Errorf("agent configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the agent configuration. A disabled agent needs nothing.
func (a *AgentConfig) Validate() error {
	if !a.Enabled {
		return nil
	}
	if a.LLM.Provider != "gemini" {
		return fmt.Errorf("unknown LLM provider %q", a.LLM.Provider)
	}
	if a.LLM.Model == "" {
		return fmt.Errorf("agent.llm.model is required when the agent is enabled")
	}
	if a.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key is required but not found; set FORCEPS_LLM_API_KEY or GEMINI_API_KEY")
	}
	if a.LLM.RateLimit <= 0 {
		return fmt.Errorf("agent.llm.rate_limit must be positive")
	}
	return nil
}
