package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/Veraticus/docsort/internal/sheets"
)

// LoadSheetsConfig builds the Google Sheets credentials. Values come from
// the sheets.* keys first (config file or DOCSORT_SHEETS_* env vars), then
// from the GOOGLE_SHEETS_* variables, then from the defaults.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	config.ServiceAccountPath = ExpandPath(v.GetString("sheets.service_account_path"))
	config.ClientID = v.GetString("sheets.client_id")
	config.ClientSecret = v.GetString("sheets.client_secret")
	config.RefreshToken = v.GetString("sheets.refresh_token")
	config.TokenFile = ExpandPath(v.GetString("sheets.token_file"))
	if v.IsSet("sheets.retry_attempts") {
		config.RetryAttempts = v.GetInt("sheets.retry_attempts")
	}
	if v.IsSet("sheets.retry_delay") {
		config.RetryDelay = v.GetDuration("sheets.retry_delay")
	}

	fromEnv := func(dst *string, key string, expand bool) {
		if *dst != "" {
			return
		}
		if val := os.Getenv(key); val != "" {
			if expand {
				val = ExpandPath(val)
			}
			*dst = val
		}
	}
	fromEnv(&config.ServiceAccountPath, "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", true)
	fromEnv(&config.ClientID, "GOOGLE_SHEETS_CLIENT_ID", false)
	fromEnv(&config.ClientSecret, "GOOGLE_SHEETS_CLIENT_SECRET", false)
	fromEnv(&config.RefreshToken, "GOOGLE_SHEETS_REFRESH_TOKEN", false)
	fromEnv(&config.TokenFile, "GOOGLE_SHEETS_TOKEN_FILE", true)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
