package config

import (
	"fmt"

	"github.com/spf13/viper"

	"go-agentplan/pkg/memory/gormstore"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig     `mapstructure:"server"`
	Database gormstore.Config `mapstructure:"database"`
	LLM      LLMConfig        `mapstructure:"llm"`
	Logging  LoggingConfig    `mapstructure:"logging"`
	Health   HealthConfig     `mapstructure:"health"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type LLMConfig struct {
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type HealthConfig struct {
	// BypassParam names the query parameter that forces the health endpoint
	// to report healthy regardless of check results.
	BypassParam string `mapstructure:"bypass_param"`
}

// Addr returns the listen address for the HTTP server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration from the given yaml file (or ./configs, ./ when
// empty), layered under environment variables and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// no config file, defaults plus environment apply
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	// empty type keeps everything in the in-memory store
	v.SetDefault("database.type", "")
	v.SetDefault("database.connection", "./data/agentplan.db")
	v.SetDefault("database.max_conns", 25)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("llm.model", "gpt-4o")
	v.SetDefault("llm.temperature", 0.0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.pretty", false)

	v.SetDefault("health.bypass_param", "bypass")
}
