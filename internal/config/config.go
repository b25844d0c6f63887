package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port        string `mapstructure:"port"`
	FrontendURL string `mapstructure:"frontend_url"`
	Production  bool   `mapstructure:"production"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Issuer     string `mapstructure:"issuer"`
	ExpireDays int    `mapstructure:"expire_days"`
}

type MailConfig struct {
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
}

type SecurityConfig struct {
	UseEmailReputation bool   `mapstructure:"use_email_reputation"`
	AbstractAPIKey     string `mapstructure:"abstract_api_key"`
	RateLimit          int    `mapstructure:"rate_limit"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Mail     MailConfig     `mapstructure:"mail"`
	Security SecurityConfig `mapstructure:"security"`
}

// TokenTTL returns the configured session lifetime.
func (c *Config) TokenTTL() time.Duration {
	days := c.JWT.ExpireDays
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

// Load reads configuration from the given file (config.yaml by default) with
// SHOP_-prefixed environment overrides, e.g. SHOP_DATABASE_URL.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.frontend_url", "http://localhost:5173")
	v.SetDefault("jwt.issuer", "syntecxhub-shop-api")
	v.SetDefault("jwt.expire_days", 7)
	v.SetDefault("mail.from", "SyntecxhubShop <onboarding@resend.dev>")
	v.SetDefault("security.rate_limit", 100)

	v.SetEnvPrefix("SHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// config file is optional when everything comes from the environment
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Database.URL == "" {
		return nil, fmt.Errorf("database.url is required (SHOP_DATABASE_URL)")
	}
	if c.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required (SHOP_JWT_SECRET)")
	}
	return &c, nil
}
