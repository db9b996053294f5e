package credentials

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMockKeyring(t *testing.T, ring keyring.Keyring) {
	t.Helper()
	restore := SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	})
	t.Cleanup(restore)
}

func withFailingKeyring(t *testing.T, err error) {
	t.Helper()
	restore := SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return nil, err
	})
	t.Cleanup(restore)
}

func TestMapStore_AccountKeyPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		store MapStore
		want  string
		ok    bool
	}{
		{
			name:  "legacy key wins when both present",
			store: MapStore{KeyAPIKey: "legacy", KeySessionToken: "session"},
			want:  "legacy",
			ok:    true,
		},
		{
			name:  "only session token",
			store: MapStore{KeySessionToken: "session"},
			want:  "session",
			ok:    true,
		},
		{
			name:  "only legacy key",
			store: MapStore{KeyAPIKey: "legacy"},
			want:  "legacy",
			ok:    true,
		},
		{
			name:  "blank legacy key falls through",
			store: MapStore{KeyAPIKey: "  ", KeySessionToken: "session"},
			want:  "session",
			ok:    true,
		},
		{
			name:  "nothing stored",
			store: MapStore{},
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.store.Resolve(AccountKeys...)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapStore_CommerceKeysIgnoreAccountTokens(t *testing.T) {
	store := MapStore{KeyAPIKey: "legacy"}
	_, ok := store.Resolve(CommerceKeys...)
	assert.False(t, ok)
}

func TestEnvResolver(t *testing.T) {
	env := map[string]string{
		"STOREDASH_COMMERCE_TOKEN": " shop-token ",
		"STOREDASH_SESSION_TOKEN":  "",
	}
	r := EnvResolver{
		Prefix: "STOREDASH_",
		Lookup: func(name string) (string, bool) {
			v, ok := env[name]
			return v, ok
		},
	}

	got, ok := r.Resolve(KeyCommerceToken)
	require.True(t, ok)
	assert.Equal(t, "shop-token", got)

	_, ok = r.Resolve(KeySessionToken)
	assert.False(t, ok, "blank env value counts as absent")

	assert.Equal(t, "STOREDASH_API_KEY", r.EnvName(KeyAPIKey))
}

func TestEnvResolver_DefaultLookup(t *testing.T) {
	t.Setenv("STOREDASH_API_KEY", "from-env")
	got, ok := NewEnvResolver().Resolve(KeyAPIKey)
	require.True(t, ok)
	assert.Equal(t, "from-env", got)
}

func TestChain_KeyOrderBeatsSourceOrder(t *testing.T) {
	env := MapStore{KeySessionToken: "env-session"}
	stored := MapStore{KeyAPIKey: "stored-legacy"}

	got, ok := Chain{env, stored}.Resolve(AccountKeys...)
	require.True(t, ok)
	assert.Equal(t, "stored-legacy", got)
}

func TestChain_SourceOrderForSameKey(t *testing.T) {
	env := MapStore{KeyCommerceToken: "env"}
	stored := MapStore{KeyCommerceToken: "stored"}

	got, ok := Chain{env, stored}.Resolve(CommerceKeys...)
	require.True(t, ok)
	assert.Equal(t, "env", got)
}

func TestChain_SkipsNilResolvers(t *testing.T) {
	got, ok := Chain{nil, MapStore{KeyUserID: "42"}}.Resolve(KeyUserID)
	require.True(t, ok)
	assert.Equal(t, "42", got)
}

func TestSource(t *testing.T) {
	store := MapStore{KeySessionToken: "s"}
	key, ok := Source(store, AccountKeys...)
	require.True(t, ok)
	assert.Equal(t, KeySessionToken, key)

	_, ok = Source(store, CommerceKeys...)
	assert.False(t, ok)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****", Mask("abcd"))
	assert.Equal(t, "******7890", Mask("1234567890"))
	assert.Equal(t, "", Mask(""))
}

func TestKeyringStore_RoundTrip(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	withMockKeyring(t, ring)

	store := NewKeyringStore("")
	require.NoError(t, store.Set(KeyCommerceToken, "tok-1"))

	got, ok := store.Resolve(CommerceKeys...)
	require.True(t, ok)
	assert.Equal(t, "tok-1", got)

	require.NoError(t, store.Remove(KeyCommerceToken))
	_, ok = store.Resolve(CommerceKeys...)
	assert.False(t, ok)
}

func TestKeyringStore_RemoveMissingKeyIsNotAnError(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))
	assert.NoError(t, NewKeyringStore("").Remove(KeyUserID))
}

func TestKeyringStore_ProfilesAreIsolated(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	withMockKeyring(t, ring)

	require.NoError(t, NewKeyringStore("staging").Set(KeyAPIKey, "staging-key"))

	_, ok := NewKeyringStore("default").Resolve(KeyAPIKey)
	assert.False(t, ok)

	got, ok := NewKeyringStore("staging").Resolve(KeyAPIKey)
	require.True(t, ok)
	assert.Equal(t, "staging-key", got)

	item, err := ring.Get("profile:staging:api_key")
	require.NoError(t, err)
	assert.Equal(t, "staging-key", string(item.Data))
}

func TestKeyringStore_LegacyKeyPrecedence(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring([]keyring.Item{
		{Key: KeyAPIKey, Data: []byte("legacy")},
		{Key: KeySessionToken, Data: []byte("session")},
	}))

	got, ok := NewKeyringStore("").Resolve(AccountKeys...)
	require.True(t, ok)
	assert.Equal(t, "legacy", got)
}

func TestKeyringStore_UnavailableStorageIsAbsent(t *testing.T) {
	withFailingKeyring(t, errors.New("no keychain"))

	_, ok := NewKeyringStore("").Resolve(CommerceKeys...)
	assert.False(t, ok)

	err := NewKeyringStore("").Set(KeyCommerceToken, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open keyring")
}

func TestShouldForceFileBackend(t *testing.T) {
	tests := []struct {
		goos, backend, dbus string
		want                bool
	}{
		{"linux", keyringBackendAuto, "", true},
		{"linux", keyringBackendAuto, "unix:path=/run/bus", false},
		{"darwin", keyringBackendAuto, "", false},
		{"darwin", keyringBackendFile, "", true},
		{"linux", keyringBackendSystem, "", false},
	}
	for _, tt := range tests {
		got := shouldForceFileBackend(tt.goos, tt.backend, tt.dbus)
		assert.Equal(t, tt.want, got, "%s/%s/%q", tt.goos, tt.backend, tt.dbus)
	}
}

func TestKeyringFileDir(t *testing.T) {
	t.Setenv(envCredentialsDir, "/tmp/sd-creds")
	assert.Equal(t, filepath.Join("/tmp/sd-creds", "keyring"), keyringFileDir())
}

func TestKeyringBackendMode(t *testing.T) {
	t.Setenv(envKeyringBackend, "native")
	assert.Equal(t, keyringBackendSystem, keyringBackendMode())
	t.Setenv(envKeyringBackend, "FILE")
	assert.Equal(t, keyringBackendFile, keyringBackendMode())
	t.Setenv(envKeyringBackend, "bogus")
	assert.Equal(t, keyringBackendAuto, keyringBackendMode())
}
