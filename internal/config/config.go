// Package config loads CLI settings from the environment.
//
// Settings come from STOREDASH_* variables, optionally seeded from a .env
// file in the user config directory. Command-line flags override them.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	appDir      = "storedash"
	dotEnvFile  = ".env"
	envDotEnv   = "STOREDASH_ENV_FILE"
	outputText  = "text"
	profileName = "default"
)

var userConfigDir = os.UserConfigDir

// Settings holds everything the CLI reads from the environment.
type Settings struct {
	APIURL       string        `env:"STOREDASH_API_URL"`
	PortfolioURL string        `env:"STOREDASH_PORTFOLIO_URL"`
	Profile      string        `env:"STOREDASH_PROFILE, default=default"`
	Timeout      time.Duration `env:"STOREDASH_TIMEOUT, default=30s"`
	Output       string        `env:"STOREDASH_OUTPUT, default=text"`
	AllowPrivate bool          `env:"STOREDASH_ALLOW_PRIVATE, default=false"`
	NoUpdate     bool          `env:"STOREDASH_NO_UPDATE_CHECK, default=false"`

	Keyring KeyringSettings
}

// KeyringSettings mirrors the variables the credential store consults. The
// keyring password is read by the store itself and never kept here.
type KeyringSettings struct {
	Backend        string `env:"STOREDASH_KEYRING_BACKEND, default=auto"`
	CredentialsDir string `env:"STOREDASH_CREDENTIALS_DIR"`
}

// Load reads settings from the process environment.
func Load(ctx context.Context) (*Settings, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads settings through l, which tests use to supply a map.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Settings, error) {
	var s Settings
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &s, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	s.normalize()
	return &s, nil
}

func (s *Settings) normalize() {
	s.APIURL = strings.TrimRight(strings.TrimSpace(s.APIURL), "/")
	s.PortfolioURL = strings.TrimRight(strings.TrimSpace(s.PortfolioURL), "/")
	if s.PortfolioURL == "" {
		s.PortfolioURL = s.APIURL
	}
	s.Profile = strings.TrimSpace(s.Profile)
	if s.Profile == "" {
		s.Profile = profileName
	}
	s.Output = strings.ToLower(strings.TrimSpace(s.Output))
	if s.Output == "" {
		s.Output = outputText
	}
	if s.Timeout <= 0 {
		s.Timeout = 30 * time.Second
	}
}

// Validate reports settings that make requests impossible.
func (s *Settings) Validate() error {
	if s.APIURL == "" {
		return errors.New("API URL not configured (set STOREDASH_API_URL or pass --api-url)")
	}
	return nil
}

// DotEnvPath returns the .env file consulted by LoadDotEnv. STOREDASH_ENV_FILE
// overrides the default <user config dir>/storedash/.env.
func DotEnvPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(envDotEnv)); p != "" {
		return p, nil
	}
	dir, err := userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, dotEnvFile), nil
}

// LoadDotEnv loads variables from the .env file when it exists. Variables
// already exported are not overwritten.
func LoadDotEnv() error {
	path, err := DotEnvPath()
	if err != nil {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
