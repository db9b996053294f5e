// internal/update/update.go
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/mod/semver"
)

const (
	// DefaultReleasesURL is the default URL for checking releases.
	DefaultReleasesURL = "https://api.github.com/repos/storedash/storedash-cli/releases/latest"
	CheckTimeout       = 5 * time.Second
)

type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

type CheckResult struct {
	CurrentVersion  string `json:"current_version"`
	LatestVersion   string `json:"latest_version"`
	UpdateURL       string `json:"update_url"`
	UpdateAvailable bool   `json:"update_available"`
}

// Checker looks up the latest published release.
type Checker struct {
	URL     string
	HTTP    *http.Client
	Timeout time.Duration
}

// NewChecker returns a Checker for the public releases URL.
func NewChecker() *Checker {
	return &Checker{URL: DefaultReleasesURL, HTTP: http.DefaultClient, Timeout: CheckTimeout}
}

// Check reports whether a newer version than current is available.
// Returns nil if the check fails; it never blocks the CLI for long.
func (c *Checker) Check(ctx context.Context, current string) *CheckResult {
	if current == "dev" || current == "" {
		return nil
	}
	release, err := c.latest(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("release check failed")
		return nil
	}

	result := &CheckResult{
		CurrentVersion: current,
		LatestVersion:  strings.TrimPrefix(release.TagName, "v"),
		UpdateURL:      release.HTMLURL,
	}
	cur, latest := normalizeVersion(current), normalizeVersion(release.TagName)
	if semver.IsValid(cur) && semver.IsValid(latest) {
		result.UpdateAvailable = semver.Compare(latest, cur) > 0
	}
	return result
}

func (c *Checker) latest(ctx context.Context) (*Release, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = CheckTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("releases endpoint returned status %d", resp.StatusCode)
	}
	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}
	if release.TagName == "" {
		return nil, fmt.Errorf("release has no tag")
	}
	return &release, nil
}

func normalizeVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
