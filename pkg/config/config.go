// Package config loads service configuration from .env, an optional config.yaml
// and environment variables, in that order of precedence (env wins).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	AWS      AWSConfig      `mapstructure:"aws"`
	Auth     AuthConfig     `mapstructure:"jwt"`
	Stripe   StripeConfig   `mapstructure:"stripe"`
	Mail     MailConfig     `mapstructure:"mail"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	AllowOrigins string        `mapstructure:"allow_origins"`
	BodyLimitMB  int           `mapstructure:"body_limit_mb"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Pass            string        `mapstructure:"pass"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN renders a lib/pq connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Pass, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr              string `mapstructure:"addr"`
	Pass              string `mapstructure:"pass"`
	DB                int    `mapstructure:"db"`
	NotificationQueue string `mapstructure:"notification_queue"`
	Workers           int    `mapstructure:"workers"`
}

type AWSConfig struct {
	Region       string `mapstructure:"region"`
	Bucket       string `mapstructure:"bucket"`
	BucketPrefix string `mapstructure:"bucket_prefix"`
	PublicURL    string `mapstructure:"public_url"`
}

type AuthConfig struct {
	Secret         string        `mapstructure:"secret"`
	Issuer         string        `mapstructure:"issuer"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

type StripeConfig struct {
	WebhookSecret string `mapstructure:"webhook_secret"`
	PriceBasico   string `mapstructure:"price_basico"`
	PricePro      string `mapstructure:"price_pro"`
}

type MailConfig struct {
	// Driver is "ses" or "log"
	Driver string `mapstructure:"driver"`
	From   string `mapstructure:"from"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration. A missing .env or config.yaml is not an error.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// DB_HOST overrides db.host, and so on
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Server.Port == "" {
		if port := os.Getenv("PORT"); port != "" {
			cfg.Server.Port = port
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

// setDefaults also registers every key so AutomaticEnv can see it during Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allow_origins", "*")
	v.SetDefault("server.body_limit_mb", 10)
	v.SetDefault("server.read_timeout", 30*time.Second)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.pass", "")
	v.SetDefault("db.name", "bolsa")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pass", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.notification_queue", "bolsa:notifications")
	v.SetDefault("redis.workers", 2)

	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.bucket", "")
	v.SetDefault("aws.bucket_prefix", "uploads")
	v.SetDefault("aws.public_url", "")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "bolsa")
	v.SetDefault("jwt.access_token_ttl", 24*time.Hour)

	v.SetDefault("stripe.webhook_secret", "")
	v.SetDefault("stripe.price_basico", "")
	v.SetDefault("stripe.price_pro", "")

	v.SetDefault("mail.driver", "log")
	v.SetDefault("mail.from", "no-reply@bolsa.pe")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate checks the settings the service cannot start without
func (c *Config) Validate() error {
	var missing []string
	if c.Auth.Secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.AWS.Bucket == "" {
		missing = append(missing, "AWS_BUCKET")
	}
	if c.Mail.Driver != "ses" && c.Mail.Driver != "log" {
		return fmt.Errorf("MAIL_DRIVER must be ses or log, got %q", c.Mail.Driver)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}
