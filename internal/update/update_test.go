// internal/update/update_test.go
package update

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestChecker(t *testing.T, handler http.HandlerFunc) *Checker {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &Checker{URL: server.URL, HTTP: server.Client(), Timeout: time.Second}
}

func releaseHandler(tag string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Release{
			TagName: tag,
			HTMLURL: "https://github.com/storedash/storedash-cli/releases/tag/" + tag,
		})
	}
}

func TestNormalizeVersion(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1.0.0", "v1.0.0"},
		{"v1.0.0", "v1.0.0"},
		{"", "v"},
	}
	for _, tt := range tests {
		if got := normalizeVersion(tt.input); got != tt.expected {
			t.Errorf("normalizeVersion(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestCheck_SkipsDevBuilds(t *testing.T) {
	c := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for dev builds")
	})
	if c.Check(context.Background(), "dev") != nil || c.Check(context.Background(), "") != nil {
		t.Error("expected nil for dev and empty versions")
	}
}

func TestCheck_Versions(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		tag       string
		available bool
	}{
		{"major", "1.0.0", "v2.0.0", true},
		{"minor", "1.0.0", "v1.1.0", true},
		{"patch", "v1.0.0", "1.0.1", true},
		{"same", "1.0.0", "v1.0.0", false},
		{"current newer", "2.0.0", "v1.0.0", false},
		{"prerelease older", "1.0.0", "v1.0.0-rc.1", false},
		{"invalid current", "nightly", "v1.0.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChecker(t, releaseHandler(tt.tag))
			result := c.Check(context.Background(), tt.current)
			if result == nil {
				t.Fatal("expected result")
			}
			if result.UpdateAvailable != tt.available {
				t.Errorf("UpdateAvailable = %v, want %v", result.UpdateAvailable, tt.available)
			}
		})
	}
}

func TestCheck_ResultFields(t *testing.T) {
	c := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/vnd.github.v3+json" {
			t.Error("expected GitHub API accept header")
		}
		releaseHandler("v2.0.0")(w, r)
	})
	result := c.Check(context.Background(), "1.0.0")
	if result == nil {
		t.Fatal("expected result")
	}
	if result.CurrentVersion != "1.0.0" || result.LatestVersion != "2.0.0" {
		t.Errorf("result = %+v", result)
	}
	if result.UpdateURL != "https://github.com/storedash/storedash-cli/releases/tag/v2.0.0" {
		t.Errorf("UpdateURL = %s", result.UpdateURL)
	}
}

func TestCheck_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"rate limited", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTooManyRequests) }},
		{"invalid json", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("{")) }},
		{"empty tag", releaseHandler("")},
		{"slow", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChecker(t, tt.handler)
			c.Timeout = 100 * time.Millisecond
			if result := c.Check(context.Background(), "1.0.0"); result != nil {
				t.Errorf("expected nil, got %+v", result)
			}
		})
	}
}

func TestNewChecker(t *testing.T) {
	c := NewChecker()
	if c.URL != DefaultReleasesURL || c.Timeout != CheckTimeout {
		t.Errorf("checker = %+v", c)
	}
}
