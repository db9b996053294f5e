package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/storedash/storedash-cli/internal/api"
	"github.com/storedash/storedash-cli/internal/config"
	"github.com/storedash/storedash-cli/internal/credentials"
)

type clientFactory struct {
	apiURL       string
	portfolioURL string
	profile      string
	timeout      time.Duration
	userAgent    string
}

func newClientFactory() *clientFactory {
	return &clientFactory{
		apiURL:       flags.APIURL,
		portfolioURL: flags.PortfolioURL,
		profile:      flags.Profile,
		timeout:      flags.Timeout,
		userAgent:    fmt.Sprintf("storedash-cli/%s", version),
	}
}

// tokens returns the credential chain: environment variables first, then
// the keychain entry for the active profile.
func (f *clientFactory) tokens() credentials.Chain {
	return credentials.Chain{credentials.NewEnvResolver(), newKeyringStore(f.profile)}
}

func (f *clientFactory) client() (*api.Client, error) {
	resolved := config.Settings{APIURL: f.apiURL, PortfolioURL: f.portfolioURL}
	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	portfolioURL := f.portfolioURL
	if portfolioURL == "" {
		portfolioURL = f.apiURL
	}
	client := api.New(f.apiURL, portfolioURL, f.tokens())
	if f.timeout > 0 {
		client.HTTP.Timeout = f.timeout
	}
	if f.userAgent != "" {
		client.UserAgent = f.userAgent
	}
	return client, nil
}

// getClient creates an API client from the resolved settings and stored
// credentials.
func getClient(_ context.Context) (*api.Client, error) {
	return newClientFactory().client()
}
