package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime settings of the service.
type Config struct {
	AppPort           string        `mapstructure:"APP_PORT"`
	DBDriver          string        `mapstructure:"DB_DRIVER"`
	DatabaseDSN       string        `mapstructure:"DATABASE_DSN"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	TokenTTL          time.Duration `mapstructure:"TOKEN_TTL"`
	RabbitMQURL       string        `mapstructure:"RABBITMQ_URL"`
	NotificationQueue string        `mapstructure:"NOTIFICATION_QUEUE"`
	GithubClientID    string        `mapstructure:"GITHUB_CLIENT_ID"`
	GithubSecret      string        `mapstructure:"GITHUB_CLIENT_SECRET"`
	GithubRedirectURL string        `mapstructure:"GITHUB_REDIRECT_URL"`
	GithubAPIURL      string        `mapstructure:"GITHUB_API_URL"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "showcase.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", 24*time.Hour)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("NOTIFICATION_QUEUE", "project_events")
	v.SetDefault("GITHUB_CLIENT_ID", "")
	v.SetDefault("GITHUB_CLIENT_SECRET", "")
	v.SetDefault("GITHUB_REDIRECT_URL", "http://localhost:8080/api/v1/auth/github/callback")
	v.SetDefault("GITHUB_API_URL", "https://api.github.com")
	v.SetDefault("LOG_LEVEL", "info")
}

// Load reads configuration from defaults, an optional file and the
// environment, in increasing order of precedence.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(cfg.DBDriver)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings the service cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}

// BrokerEnabled reports whether project events go through RabbitMQ.
func (c *Config) BrokerEnabled() bool {
	return c.RabbitMQURL != ""
}
