package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// ConfigPathEnv names the environment variable pointing the server at its
// TOML configuration file.
const ConfigPathEnv = "BIGMED_SERVER_CONFIG"

// Config holds the service configuration loaded from a TOML file.
type Config struct {
	Account   AccountConfig   `mapstructure:"account"`
	Cassandra CassandraConfig `mapstructure:"cassandra"`
	Network   NetworkConfig   `mapstructure:"network"`
}

// AccountConfig identifies the default client account.
type AccountConfig struct {
	Name string `mapstructure:"name"`
}

// CassandraConfig holds the store connection settings.
type CassandraConfig struct {
	Points     []string `mapstructure:"points"`
	Keyspace   string   `mapstructure:"keyspace"`
	ReplFactor int      `mapstructure:"repl_factor"`
}

// NetworkConfig holds the client- and server-side endpoints.
type NetworkConfig struct {
	Client Endpoint `mapstructure:"client"`
	Server Endpoint `mapstructure:"server"`
}

// Endpoint is an ip/port pair.
type Endpoint struct {
	IP   string `mapstructure:"ip"`
	Port int    `mapstructure:"port"`
}

// Addr returns the endpoint in host:port form.
func (e Endpoint) Addr() string {
	return fmt.Sprintf("%s:%d", e.IP, e.Port)
}

// Env holds process-level knobs read from the environment, separate from the
// shared TOML file.
type Env struct {
	ConfigPath      string `envconfig:"BIGMED_SERVER_CONFIG"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty       bool   `envconfig:"LOG_PRETTY" default:"false"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"` // seconds
}

// LoadEnv parses the process environment into Env.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return nil, err
	}
	if env.ShutdownTimeout < 1 {
		return nil, fmt.Errorf("SHUTDOWN_TIMEOUT must be at least 1 second, got %d", env.ShutdownTimeout)
	}
	return &env, nil
}

// Load reads and validates the TOML configuration at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	if len(c.Cassandra.Points) == 0 {
		return fmt.Errorf("cassandra.points must name at least one contact point")
	}
	for _, p := range c.Cassandra.Points {
		if p == "" {
			return fmt.Errorf("cassandra.points must not contain empty entries")
		}
	}
	if c.Cassandra.Keyspace == "" {
		return fmt.Errorf("cassandra.keyspace must not be empty")
	}
	if c.Cassandra.ReplFactor < 1 {
		return fmt.Errorf("cassandra.repl_factor must be at least 1, got %d", c.Cassandra.ReplFactor)
	}
	for name, ep := range map[string]Endpoint{
		"network.client": c.Network.Client,
		"network.server": c.Network.Server,
	} {
		if ep.Port < 1 || ep.Port > 65535 {
			return fmt.Errorf("%s.port must be between 1 and 65535, got %d", name, ep.Port)
		}
	}
	return nil
}
