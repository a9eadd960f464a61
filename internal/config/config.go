package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/email"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/model"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/repository/postgres"
)

type Config struct {
	Server    ServerConfig               `mapstructure:"server"`
	Database  postgres.DatabaseConfig    `mapstructure:"database"`
	Redis     RedisConfig                `mapstructure:"redis"`
	Identity  IdentityConfig             `mapstructure:"identity"`
	Password  model.PasswordRequirements `mapstructure:"password"`
	Session   SessionConfig              `mapstructure:"session"`
	Endpoints EndpointsConfig            `mapstructure:"endpoints"`
	Email     email.Config               `mapstructure:"email"`

	// Secrets overridable from the environment, never from the config file
	// shipped with the deployment.
	Secrets SecretsConfig `mapstructure:"-"`
}

type ServerConfig struct {
	Port           int     `mapstructure:"port"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	RequestsPerSec float64 `mapstructure:"requests_per_sec"`
	Burst          int     `mapstructure:"burst"`
}

type RedisConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	URL          string `mapstructure:"url"`
	KeyPrefix    string `mapstructure:"key_prefix"`
	MaxRetries   int    `mapstructure:"max_retries"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

type IdentityConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type SessionConfig struct {
	TimeoutMinutes          int `mapstructure:"timeout_minutes"`
	RefreshThresholdMinutes int `mapstructure:"refresh_threshold_minutes"`
}

func (c SessionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMinutes) * time.Minute
}

func (c SessionConfig) RefreshThreshold() time.Duration {
	return time.Duration(c.RefreshThresholdMinutes) * time.Minute
}

type EndpointsConfig struct {
	AdminVerification string `mapstructure:"admin_verification"`
	RateLimit         string `mapstructure:"rate_limit"`
}

// SecretsConfig is read from the environment with envconfig so that secrets
// stay out of the on-disk config file.
type SecretsConfig struct {
	JWTSecret    string `envconfig:"JWT_SECRET"`
	DBPassword   string `envconfig:"DB_PASSWORD"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	RedisURL     string `envconfig:"REDIS_URL"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var secrets SecretsConfig
	if err := envconfig.Process("jobtracker", &secrets); err != nil {
		return nil, fmt.Errorf("failed to read secrets from environment: %w", err)
	}
	config.Secrets = secrets

	if secrets.JWTSecret != "" {
		config.Identity.JWTSecret = secrets.JWTSecret
	}
	if secrets.DBPassword != "" {
		config.Database.Password = secrets.DBPassword
	}
	if secrets.SMTPPassword != "" {
		config.Email.Password = secrets.SMTPPassword
	}
	if secrets.RedisURL != "" {
		config.Redis.URL = secrets.RedisURL
	}

	return &config, nil
}
