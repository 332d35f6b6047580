package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Mail    MailConfig    `mapstructure:"mail"`
	URLs    URLConfig     `mapstructure:"urls"`
	Webhook WebhookConfig `mapstructure:"webhook"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// GatewayConfig configures the Mercado Pago API client.
type GatewayConfig struct {
	AccessToken string        `mapstructure:"access_token"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Currency    string        `mapstructure:"currency"`
	Descriptor  string        `mapstructure:"descriptor"` // card statement descriptor
}

// MailConfig configures the SMTP relay used for order notifications.
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`  // defaults to user when empty
	Admin    string `mapstructure:"admin"` // store administrator address
}

// Sender returns the From address, falling back to the SMTP user.
func (m MailConfig) Sender() string {
	if m.From != "" {
		return m.From
	}
	return m.User
}

// URLConfig holds the public-facing URLs handed to the payment processor.
type URLConfig struct {
	PublicBase string `mapstructure:"public_base"` // storefront base, for back_urls
	Webhook    string `mapstructure:"webhook"`     // registered notification_url, optional
}

type WebhookConfig struct {
	Secret          string        `mapstructure:"secret"` // empty = signature verification off
	DispatchTimeout time.Duration `mapstructure:"dispatch_timeout"`
}

// RedisConfig configures the shared dedup store. An empty Addr selects the
// in-process store instead.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	ClaimTTL time.Duration `mapstructure:"claim_ttl"`
}

// Enabled reports whether a Redis dedup store is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: CKB_ (Checkout Bridge).
// Nested keys use underscore: CKB_GATEWAY_ACCESS_TOKEN, CKB_MAIL_USER, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.mode", "release")
	v.SetDefault("gateway.access_token", "")
	v.SetDefault("gateway.base_url", "https://api.mercadopago.com")
	v.SetDefault("gateway.timeout", "10s")
	v.SetDefault("gateway.currency", "ARS")
	v.SetDefault("gateway.descriptor", "")
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.user", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.admin", "")
	v.SetDefault("urls.public_base", "http://localhost:3000")
	v.SetDefault("urls.webhook", "")
	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.dispatch_timeout", "30s")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.claim_ttl", "720h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: CKB_GATEWAY_BASE_URL -> gateway.base_url
	v.SetEnvPrefix("CKB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that every credential the service cannot run without is
// present. It reports all missing values at once so an operator fixes the
// environment in one pass. The process must refuse to start on error.
func (c *Config) Validate() error {
	var missing []string
	if c.Gateway.AccessToken == "" {
		missing = append(missing, "gateway.access_token (CKB_GATEWAY_ACCESS_TOKEN)")
	}
	if c.Mail.User == "" {
		missing = append(missing, "mail.user (CKB_MAIL_USER)")
	}
	if c.Mail.Password == "" {
		missing = append(missing, "mail.password (CKB_MAIL_PASSWORD)")
	}
	if c.Mail.Admin == "" {
		missing = append(missing, "mail.admin (CKB_MAIL_ADMIN)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
