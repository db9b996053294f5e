// Package credentials resolves bearer tokens from persisted client storage.
//
// Tokens live under well-known key names. Callers pass an ordered list of
// keys, most preferred first, and get back the first value present. A missing
// token, or storage that cannot be opened at all, is reported as absent rather
// than as an error; the caller decides whether absence is fatal.
package credentials

import (
	"os"
	"strings"
)

// Storage key names.
const (
	KeyCommerceToken = "commerce_token"
	KeyAPIKey        = "api_key" // legacy key, still preferred when present
	KeySessionToken  = "session_token"
	KeyUserID        = "user_id"
)

// CommerceKeys are consulted for product, category, order, tax and delivery
// charge requests.
var CommerceKeys = []string{KeyCommerceToken}

// AccountKeys are consulted for profile and portfolio requests. The legacy
// API key wins over the session token.
var AccountKeys = []string{KeyAPIKey, KeySessionToken}

// AllKeys lists every key the CLI knows how to store.
var AllKeys = []string{KeyCommerceToken, KeyAPIKey, KeySessionToken, KeyUserID}

// Resolver returns the value of the first key present in storage.
type Resolver interface {
	Resolve(keys ...string) (string, bool)
}

// Store is a Resolver that can also persist values.
type Store interface {
	Resolver
	Set(key, value string) error
	Remove(key string) error
}

// MapStore is an in-memory Store.
type MapStore map[string]string

func (m MapStore) Resolve(keys ...string) (string, bool) {
	for _, key := range keys {
		if v := strings.TrimSpace(m[key]); v != "" {
			return v, true
		}
	}
	return "", false
}

func (m MapStore) Set(key, value string) error {
	m[key] = value
	return nil
}

func (m MapStore) Remove(key string) error {
	delete(m, key)
	return nil
}

// EnvResolver reads keys from environment variables named
// STOREDASH_<KEY>, e.g. STOREDASH_COMMERCE_TOKEN.
type EnvResolver struct {
	Prefix string
	// Lookup defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

// NewEnvResolver returns an EnvResolver using the STOREDASH_ prefix.
func NewEnvResolver() EnvResolver {
	return EnvResolver{Prefix: "STOREDASH_"}
}

// EnvName returns the environment variable consulted for key.
func (e EnvResolver) EnvName(key string) string {
	return e.Prefix + strings.ToUpper(key)
}

func (e EnvResolver) Resolve(keys ...string) (string, bool) {
	lookup := e.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, key := range keys {
		if v, ok := lookup(e.EnvName(key)); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// Chain consults several resolvers. Key order dominates source order: for
// each key, every source is tried before moving to the next key, so a legacy
// key held by any source beats a newer key held by an earlier source.
type Chain []Resolver

func (c Chain) Resolve(keys ...string) (string, bool) {
	for _, key := range keys {
		for _, r := range c {
			if r == nil {
				continue
			}
			if v, ok := r.Resolve(key); ok {
				return v, true
			}
		}
	}
	return "", false
}

// Source reports which key supplied a token, for status output.
func Source(r Resolver, keys ...string) (key string, ok bool) {
	for _, k := range keys {
		if _, found := r.Resolve(k); found {
			return k, true
		}
	}
	return "", false
}

// Mask hides all but the last four characters of a token.
func Mask(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
