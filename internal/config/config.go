// Package config loads gateway configuration from the environment.
package config

import (
	"fmt"

	"github.com/frostlake/snowgate/internal/mailer"
	"github.com/frostlake/snowgate/internal/warehouse"
	"github.com/frostlake/snowgate/pkg/config"
	"github.com/frostlake/snowgate/pkg/database"
)

// Config holds all gateway settings.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`

	// SecretKey signs issued tokens. It has no default on purpose: a
	// well-known signing secret would make every token forgeable.
	SecretKey string `env:"SECRET_KEY,required,notEmpty"`

	// AllowedDomains is the registration allow-list.
	AllowedDomains []string `env:"ALLOWED_DOMAINS,required" envSeparator:","`

	TokenExpiryDays    int `env:"TOKEN_EXPIRY_DAYS" envDefault:"0"`
	TokenExpiryMinutes int `env:"TOKEN_EXPIRY_MINUTES" envDefault:"60"`

	// EncryptionKey seals admin token envelopes. When empty, a random key is
	// generated at startup and envelopes become undecryptable by any other
	// instance; single-instance deployments only.
	EncryptionKey string `env:"ENCRYPTION_KEY"`

	// AdminEmails receive the admin role claim in their issued tokens.
	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:","`

	// Company is named in the footer of alert emails.
	Company string `env:"COMPANY" envDefault:"Frostlake"`

	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"snowgate"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"snowgate_secret"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"snowgate"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	SnowflakeAccount   string `env:"SNOWFLAKE_ACCOUNT,required"`
	SnowflakeUser      string `env:"SNOWFLAKE_USER,required"`
	SnowflakePassword  string `env:"SNOWFLAKE_PASSWORD,required"`
	SnowflakeDatabase  string `env:"SNOWFLAKE_DATABASE,required"`
	SnowflakeWarehouse string `env:"SNOWFLAKE_WAREHOUSE,required"`
	SnowflakeSchema    string `env:"SNOWFLAKE_SCHEMA,required"`
	SnowflakeRole      string `env:"SNOWFLAKE_ROLE,required"`

	MailServer        string `env:"MAIL_SERVER" envDefault:"smtp.gmail.com"`
	MailPort          int    `env:"MAIL_PORT" envDefault:"587"`
	MailUsername      string `env:"MAIL_USERNAME,required,notEmpty"`
	MailPassword      string `env:"MAIL_PASSWORD,required,notEmpty"`
	MailDefaultSender string `env:"MAIL_DEFAULT_SENDER,required,notEmpty"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	for _, dom := range cfg.AllowedDomains {
		if dom == "" {
			return nil, fmt.Errorf("load config: ALLOWED_DOMAINS contains an empty entry")
		}
	}

	return &cfg, nil
}

// Postgres returns the connection pool settings for the user directory.
func (c *Config) Postgres() database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPassword
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSLMode
	return pg
}

// Snowflake returns the warehouse connection settings.
func (c *Config) Snowflake() warehouse.SnowflakeConfig {
	return warehouse.SnowflakeConfig{
		Account:   c.SnowflakeAccount,
		User:      c.SnowflakeUser,
		Password:  c.SnowflakePassword,
		Database:  c.SnowflakeDatabase,
		Warehouse: c.SnowflakeWarehouse,
		Schema:    c.SnowflakeSchema,
		Role:      c.SnowflakeRole,
	}
}

// SMTP returns the mail relay settings.
func (c *Config) SMTP() mailer.SMTPConfig {
	return mailer.SMTPConfig{
		Host:     c.MailServer,
		Port:     c.MailPort,
		Username: c.MailUsername,
		Password: c.MailPassword,
		Sender:   c.MailDefaultSender,
	}
}
