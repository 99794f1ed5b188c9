package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over file values. Returns a populated Config struct or an
// error if loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.rate_limit_rps", 10)
	v.SetDefault("server.rate_limit_burst", 30)
	v.SetDefault("auth.token_lifetime_minutes", 15)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 10080) // 7 days
	v.SetDefault("auth.bcrypt_cost", bcrypt.DefaultCost)

	// Optional config file in the working directory
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Environment variables with TRACKLET_ prefix, e.g. TRACKLET_SERVER_PORT
	v.SetEnvPrefix("TRACKLET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind critical environment variables so they are picked up
	// even when no config file sets the corresponding keys.
	bindEnvs := []struct {
		key    string
		envVar string
	}{
		{"server.port", "TRACKLET_SERVER_PORT"},
		{"server.log_level", "TRACKLET_SERVER_LOG_LEVEL"},
		{"database.url", "TRACKLET_DATABASE_URL"},
		{"auth.jwt_secret", "TRACKLET_AUTH_JWT_SECRET"},
		{"auth.token_lifetime_minutes", "TRACKLET_AUTH_TOKEN_LIFETIME_MINUTES"},
		{"auth.refresh_token_lifetime_minutes", "TRACKLET_AUTH_REFRESH_TOKEN_LIFETIME_MINUTES"},
	}
	for _, env := range bindEnvs {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", env.envVar, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
