package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
)

const (
	serviceName    = "storedash-cli"
	defaultProfile = "default"
	profilePrefix  = "profile:"

	envKeyringBackend  = "STOREDASH_KEYRING_BACKEND"
	envKeyringPassword = "STOREDASH_KEYRING_PASSWORD"
	envCredentialsDir  = "STOREDASH_CREDENTIALS_DIR"

	keyringBackendAuto   = "auto"
	keyringBackendFile   = "file"
	keyringBackendSystem = "system"
)

// openKeyring can be replaced in tests.
var openKeyring = func(cfg keyring.Config) (keyring.Keyring, error) {
	return keyring.Open(cfg)
}

var userConfigDir = os.UserConfigDir

var stdinHasTTY = func() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// SetOpenKeyring replaces the keyring opener and returns a restore func.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	original := openKeyring
	openKeyring = fn
	return func() { openKeyring = original }
}

// KeyringStore keeps tokens in the OS keychain (or an encrypted file on
// headless hosts), namespaced by profile.
type KeyringStore struct {
	Profile string
}

// NewKeyringStore returns a store for the named profile ("" means default).
func NewKeyringStore(profile string) *KeyringStore {
	return &KeyringStore{Profile: strings.TrimSpace(profile)}
}

func (s *KeyringStore) itemKey(key string) string {
	if s.Profile == "" || s.Profile == defaultProfile {
		return key
	}
	return profilePrefix + s.Profile + ":" + key
}

// Resolve returns the first stored key. A keyring that cannot be opened is
// treated as empty storage.
func (s *KeyringStore) Resolve(keys ...string) (string, bool) {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return "", false
	}
	for _, key := range keys {
		item, err := ring.Get(s.itemKey(key))
		if err != nil {
			continue
		}
		if v := strings.TrimSpace(string(item.Data)); v != "" {
			return v, true
		}
	}
	return "", false
}

func (s *KeyringStore) Set(key, value string) error {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}
	if err := ring.Set(keyring.Item{
		Key:   s.itemKey(key),
		Data:  []byte(value),
		Label: fmt.Sprintf("%s %s", serviceName, key),
	}); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (s *KeyringStore) Remove(key string) error {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}
	if err := ring.Remove(s.itemKey(key)); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func keyringConfig() keyring.Config {
	cfg := keyring.Config{
		ServiceName: serviceName,
	}

	backend := keyringBackendMode()
	if backend == keyringBackendSystem {
		return cfg
	}

	// keyring.Open falls through to the file backend when no native backend
	// is available, so the file settings are always filled in auto mode.
	cfg.FileDir = keyringFileDir()
	cfg.FilePasswordFunc = keyringFilePassword

	if shouldForceFileBackend(runtime.GOOS, backend, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}

	return cfg
}

func keyringBackendMode() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(envKeyringBackend))) {
	case keyringBackendFile:
		return keyringBackendFile
	case keyringBackendSystem, "os", "native":
		return keyringBackendSystem
	default:
		return keyringBackendAuto
	}
}

func shouldForceFileBackend(goos, backend, dbusAddr string) bool {
	if backend == keyringBackendFile {
		return true
	}
	if backend != keyringBackendAuto {
		return false
	}
	return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
}

func keyringFileDir() string {
	base := strings.TrimSpace(os.Getenv(envCredentialsDir))
	if base == "" {
		if dir, err := userConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
			base = filepath.Join(dir, serviceName)
		}
	}
	if base == "" {
		base = filepath.Join(os.TempDir(), serviceName)
	}
	return filepath.Join(base, "keyring")
}

func keyringFilePassword(prompt string) (string, error) {
	if password, ok := os.LookupEnv(envKeyringPassword); ok && strings.TrimSpace(password) != "" {
		return password, nil
	}
	if !stdinHasTTY() {
		return "", fmt.Errorf("set %s when using file keyring in non-interactive environments", envKeyringPassword)
	}
	return keyring.TerminalPrompt(prompt)
}
