package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("ALLOWED_DOMAINS", "allowed.com,partner.io")
	t.Setenv("SNOWFLAKE_ACCOUNT", "acct")
	t.Setenv("SNOWFLAKE_USER", "svc")
	t.Setenv("SNOWFLAKE_PASSWORD", "pw")
	t.Setenv("SNOWFLAKE_DATABASE", "db")
	t.Setenv("SNOWFLAKE_WAREHOUSE", "wh")
	t.Setenv("SNOWFLAKE_SCHEMA", "public")
	t.Setenv("SNOWFLAKE_ROLE", "reader")
	t.Setenv("MAIL_USERNAME", "relay-user")
	t.Setenv("MAIL_PASSWORD", "relay-pass")
	t.Setenv("MAIL_DEFAULT_SENDER", "noreply@frostlake.io")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 0, cfg.TokenExpiryDays)
	assert.Equal(t, 60, cfg.TokenExpiryMinutes)
	assert.Equal(t, []string{"allowed.com", "partner.io"}, cfg.AllowedDomains)
	assert.Empty(t, cfg.EncryptionKey)
	assert.Equal(t, "smtp.gmail.com", cfg.MailServer)
	assert.Equal(t, 587, cfg.MailPort)
}

func TestLoad_MissingSecretKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SECRET_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingMailCredentials(t *testing.T) {
	// Token delivery is the whole point; refusing to start beats failing at
	// the first send.
	setRequiredEnv(t)
	t.Setenv("MAIL_USERNAME", "")

	_, err := Load()
	assert.Error(t, err)

	setRequiredEnv(t)
	t.Setenv("MAIL_PASSWORD", "")

	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_EmptyDomainEntryRejected(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ALLOWED_DOMAINS", "allowed.com,")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_EXPIRY_DAYS", "7")
	t.Setenv("TOKEN_EXPIRY_MINUTES", "0")
	t.Setenv("ADMIN_EMAILS", "root@allowed.com")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.TokenExpiryDays)
	assert.Equal(t, 0, cfg.TokenExpiryMinutes)
	assert.Equal(t, []string{"root@allowed.com"}, cfg.AdminEmails)
	assert.Equal(t, 9090, cfg.HTTPPort)
}

func TestSnowflakeMapping(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	sf := cfg.Snowflake()
	assert.Equal(t, "acct", sf.Account)
	assert.Equal(t, "reader", sf.Role)

	smtp := cfg.SMTP()
	assert.Equal(t, "noreply@frostlake.io", smtp.Sender)
}
