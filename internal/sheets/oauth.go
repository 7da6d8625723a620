package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// LoadToken loads a token from file.
func LoadToken(tokenFile string) (*oauth2.Token, error) {
	f, err := os.Open(tokenFile) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("failed to decode token file: %w", err)
	}
	return token, nil
}

// tokenSource builds a read-only token source from either a service account
// key or an OAuth2 refresh token.
func tokenSource(ctx context.Context, config Config) (oauth2.TokenSource, error) {
	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		return jwtConfig.TokenSource(ctx), nil
	}

	client := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{sheets.SpreadsheetsReadonlyScope},
	}

	token := &oauth2.Token{
		RefreshToken: config.RefreshToken,
		TokenType:    "Bearer",
	}
	if config.RefreshToken == "" {
		saved, err := LoadToken(config.TokenFile)
		if err != nil {
			return nil, fmt.Errorf("unable to load token file %s: %w", config.TokenFile, err)
		}
		token = saved
	}

	return client.TokenSource(ctx, token), nil
}
