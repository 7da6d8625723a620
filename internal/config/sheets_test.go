package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearSheetsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_TOKEN_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadSheetsConfig_FromViper(t *testing.T) {
	clearSheetsEnv(t)
	v := viper.New()
	v.Set("sheets.service_account_path", "/etc/docsort/sa.json")
	v.Set("sheets.retry_attempts", 5)
	v.Set("sheets.retry_delay", "3s")

	cfg, err := LoadSheetsConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "/etc/docsort/sa.json", cfg.ServiceAccountPath)
	assert.Equal(t, 5, cfg.RetryAttempts)
	assert.Equal(t, 3*time.Second, cfg.RetryDelay)
}

func TestLoadSheetsConfig_EnvFallback(t *testing.T) {
	clearSheetsEnv(t)
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "client")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "refresh")

	cfg, err := LoadSheetsConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "client", cfg.ClientID)
	assert.Equal(t, "refresh", cfg.RefreshToken)
	assert.Empty(t, cfg.ServiceAccountPath)
}

func TestLoadSheetsConfig_ViperWinsOverEnv(t *testing.T) {
	clearSheetsEnv(t)
	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "/env/sa.json")
	v := viper.New()
	v.Set("sheets.service_account_path", "/cfg/sa.json")

	cfg, err := LoadSheetsConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "/cfg/sa.json", cfg.ServiceAccountPath)
}

func TestLoadSheetsConfig_NoCredentials(t *testing.T) {
	clearSheetsEnv(t)
	_, err := LoadSheetsConfig(viper.New())
	assert.ErrorContains(t, err, "no authentication method")
}
