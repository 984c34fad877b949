package utils

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestGetConfigPrecedence(t *testing.T) {
	path := writeConfig(t, "DB_HOST: db.internal\nLEDGER_MAX_RETRIES: \"3\"\nAPP_PORT: \"9000\"\n")
	LoadConfigFile(path)
	t.Cleanup(func() { config = Config{} })

	assert.Equal(t, "db.internal", GetConfig("DB_HOST"))
	assert.Equal(t, 3, GetConfigInt("LEDGER_MAX_RETRIES", 5))
	assert.Equal(t, "@daily", GetConfig("BACKUP_CRON"))
	assert.Equal(t, "", GetConfig("UNKNOWN_KEY"))

	t.Setenv("APP_PORT", "7000")
	assert.Equal(t, "7000", GetConfig("APP_PORT"))
}

func TestGetConfigIntFallback(t *testing.T) {
	path := writeConfig(t, "LEDGER_MAX_RETRIES: many\n")
	LoadConfigFile(path)
	t.Cleanup(func() { config = Config{} })

	assert.Equal(t, 5, GetConfigInt("LEDGER_MAX_RETRIES", 5))
}

func TestLoadConfigFileMissing(t *testing.T) {
	LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	t.Cleanup(func() { config = Config{} })

	assert.Equal(t, "8080", GetConfig("APP_PORT"))
	assert.Equal(t, "@every 1h", GetConfig("LOW_STOCK_ALERT_CRON"))
}

func TestUnitValidator(t *testing.T) {
	v := NewValidator()

	type payload struct {
		Unit string `validate:"required,unit"`
	}
	assert.NoError(t, v.Struct(payload{Unit: "tbsp"}))
	assert.Error(t, v.Struct(payload{Unit: "oz"}))
	assert.Error(t, v.Struct(payload{}))
}
