package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/kompassi-entrypoint/internal/environ"
	"github.com/eugenenazirov/kompassi-entrypoint/internal/resolver"
)

const (
	defaultWaitTimeout  = 60 * time.Second
	defaultWaitInterval = time.Second
	defaultLogLevel     = "info"
)

// Variables recognised by the entrypoint.
const (
	EnvPostgresUsername = "POSTGRESQL_USERNAME"
	EnvPostgresPassword = "POSTGRESQL_PASSWORD"
	EnvPostgresHostname = "POSTGRESQL_HOSTNAME"
	EnvPostgresDatabase = "POSTGRESQL_DATABASE"
	EnvDatabaseURL      = resolver.VarDatabaseURL

	EnvRabbitUsername = "RABBITMQ_USERNAME"
	EnvRabbitPassword = "RABBITMQ_PASSWORD"
	EnvRabbitHostname = "RABBITMQ_HOSTNAME"
	EnvRabbitVhost    = "RABBITMQ_VHOST"
	EnvBrokerURL      = resolver.VarBrokerURL
	EnvCeleryBroker   = resolver.VarCeleryBrokerURL

	EnvConfigFile   = "ENTRYPOINT_CONFIG"
	EnvEnvFile      = "ENTRYPOINT_ENV_FILE"
	EnvWait         = "ENTRYPOINT_WAIT"
	EnvWaitTimeout  = "ENTRYPOINT_WAIT_TIMEOUT"
	EnvWaitInterval = "ENTRYPOINT_WAIT_INTERVAL"
	EnvLogLevel     = "ENTRYPOINT_LOG_LEVEL"
)

// Config aggregates runtime configuration resolved from multiple sources.
type Config struct {
	Inputs resolver.Inputs
	// FileEnv holds the variables read from the env file, if any.
	FileEnv      environ.Map
	Wait         bool
	WaitTimeout  time.Duration
	WaitInterval time.Duration
	LogLevel     string
}

// yamlConfig represents the YAML defaults file structure.
type yamlConfig struct {
	Database yamlDatabase `yaml:"database"`
	Broker   yamlBroker   `yaml:"broker"`
	Wait     yamlWait     `yaml:"wait"`
	LogLevel string       `yaml:"log_level"`
}

// Pointer fields distinguish an absent key from an explicit empty value.
type yamlDatabase struct {
	Username *string `yaml:"username"`
	Password *string `yaml:"password"`
	Hostname *string `yaml:"hostname"`
	Database *string `yaml:"database"`
}

type yamlBroker struct {
	Username *string `yaml:"username"`
	Password *string `yaml:"password"`
	Hostname *string `yaml:"hostname"`
	Vhost    *string `yaml:"vhost"`
}

type yamlWait struct {
	Enabled  *bool  `yaml:"enabled"`
	Timeout  string `yaml:"timeout"`
	Interval string `yaml:"interval"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile   string
	EnvFile      string
	LogLevel     *string
	Wait         *bool
	WaitTimeout  *time.Duration
	WaitInterval *time.Duration
}

// Load reads configuration from the process environment and the files it names.
func Load(overrides *CLIOverrides) (Config, error) {
	return LoadFrom(overrides, environ.OS{})
}

// LoadFrom extracts configuration with precedence:
// CLI flags > env (src) > env file > YAML defaults > built-in defaults
func LoadFrom(overrides *CLIOverrides, src environ.Source) (Config, error) {
	if overrides == nil {
		overrides = &CLIOverrides{}
	}

	cfg := defaultConfig()

	envFile := firstNonEmpty(overrides.EnvFile, environ.Get(src, EnvEnvFile))
	if envFile != "" {
		vars, err := environ.ReadFile(envFile)
		if err != nil {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
		cfg.FileEnv = vars
		src = environ.Layered{src, vars}
	}

	configFile := firstNonEmpty(overrides.ConfigFile, environ.Get(src, EnvConfigFile))
	if configFile != "" {
		yamlCfg, err := loadFromFile(configFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	if err := applyEnvConfig(&cfg, src); err != nil {
		return Config{}, err
	}

	applyCLIOverrides(&cfg, overrides)

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Inputs:       resolver.DefaultInputs(),
		WaitTimeout:  defaultWaitTimeout,
		WaitInterval: defaultWaitInterval,
		LogLevel:     defaultLogLevel,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig replaces built-in fallbacks with the values from the defaults file.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	db := &cfg.Inputs.Database.Fallback
	assign(&db.Username, yamlCfg.Database.Username)
	assign(&db.Password, yamlCfg.Database.Password)
	assign(&db.Hostname, yamlCfg.Database.Hostname)
	assign(&db.Path, yamlCfg.Database.Database)

	mq := &cfg.Inputs.Broker.Fallback
	assign(&mq.Username, yamlCfg.Broker.Username)
	assign(&mq.Password, yamlCfg.Broker.Password)
	assign(&mq.Hostname, yamlCfg.Broker.Hostname)
	assign(&mq.Path, yamlCfg.Broker.Vhost)

	if yamlCfg.Wait.Enabled != nil {
		cfg.Wait = *yamlCfg.Wait.Enabled
	}

	if yamlCfg.Wait.Timeout != "" {
		d, err := time.ParseDuration(yamlCfg.Wait.Timeout)
		if err != nil {
			return fmt.Errorf("wait.timeout: %w", err)
		}
		cfg.WaitTimeout = d
	}

	if yamlCfg.Wait.Interval != "" {
		d, err := time.ParseDuration(yamlCfg.Wait.Interval)
		if err != nil {
			return fmt.Errorf("wait.interval: %w", err)
		}
		cfg.WaitInterval = d
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	return nil
}

// applyEnvConfig captures supplied components, overrides and operational settings.
func applyEnvConfig(cfg *Config, src environ.Source) error {
	cfg.Inputs.Database.Override = environ.Get(src, EnvDatabaseURL)
	cfg.Inputs.Database.Supplied = resolver.Credentials{
		Username: environ.Get(src, EnvPostgresUsername),
		Password: environ.Get(src, EnvPostgresPassword),
		Hostname: environ.Get(src, EnvPostgresHostname),
		Path:     environ.Get(src, EnvPostgresDatabase),
	}

	cfg.Inputs.Broker.Override = environ.Get(src, EnvBrokerURL)
	cfg.Inputs.Broker.Supplied = resolver.Credentials{
		Username: environ.Get(src, EnvRabbitUsername),
		Password: environ.Get(src, EnvRabbitPassword),
		Hostname: environ.Get(src, EnvRabbitHostname),
		Path:     environ.Get(src, EnvRabbitVhost),
	}
	cfg.Inputs.BrokerAlias = environ.Get(src, EnvCeleryBroker)

	if raw := strings.TrimSpace(environ.Get(src, EnvWait)); raw != "" {
		wait, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWait, err)
		}
		cfg.Wait = wait
	}

	if raw := strings.TrimSpace(environ.Get(src, EnvWaitTimeout)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWaitTimeout, err)
		}
		cfg.WaitTimeout = d
	}

	if raw := strings.TrimSpace(environ.Get(src, EnvWaitInterval)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWaitInterval, err)
		}
		cfg.WaitInterval = d
	}

	if level := strings.TrimSpace(environ.Get(src, EnvLogLevel)); level != "" {
		cfg.LogLevel = level
	}

	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.Wait != nil {
		cfg.Wait = *overrides.Wait
	}

	if overrides.WaitTimeout != nil && *overrides.WaitTimeout > 0 {
		cfg.WaitTimeout = *overrides.WaitTimeout
	}

	if overrides.WaitInterval != nil && *overrides.WaitInterval > 0 {
		cfg.WaitInterval = *overrides.WaitInterval
	}
}

// validateConfig validates the operational settings. Connection values are never validated.
func validateConfig(cfg Config) error {
	if cfg.WaitTimeout <= 0 {
		return fmt.Errorf("wait timeout must be > 0")
	}
	if cfg.WaitInterval <= 0 {
		return fmt.Errorf("wait interval must be > 0")
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

func assign(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
