// Package update checks GitHub Releases for a newer squad binary.
// It only reports; downloading and replacing the binary is left to the
// user's package manager.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultAPIURL is the releases endpoint for the squad repository.
const DefaultAPIURL = "https://api.github.com/repos/squad-ai/squad/releases/latest"

// VersionInfo describes the latest published release.
type VersionInfo struct {
	Version     string
	PublishedAt time.Time
	ReleaseURL  string
}

// releaseResponse represents the GitHub Releases API JSON response.
type releaseResponse struct {
	TagName     string    `json:"tag_name"`
	PublishedAt time.Time `json:"published_at"`
	HTMLURL     string    `json:"html_url"`
}

// Checker queries a releases endpoint for the latest version.
type Checker struct {
	apiURL string
	client *http.Client
}

// NewChecker creates a Checker that queries the given API URL.
// For testing, pass the httptest.Server URL directly.
func NewChecker(apiURL string, client *http.Client) *Checker {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Checker{apiURL: apiURL, client: client}
}

// CheckLatest fetches the latest release metadata.
func (c *Checker) CheckLatest(ctx context.Context) (*VersionInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("update: create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "squad-updater")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("update: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("update: no releases found (status 404)")
		}
		return nil, fmt.Errorf("update: unexpected status %d", resp.StatusCode)
	}

	var release releaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("update: decode release: %w", err)
	}
	if release.TagName == "" {
		return nil, fmt.Errorf("update: release has no tag name")
	}

	return &VersionInfo{
		Version:     release.TagName,
		PublishedAt: release.PublishedAt,
		ReleaseURL:  release.HTMLURL,
	}, nil
}

// IsNewer reports whether latest is a higher semantic version than current.
// Unparseable versions compare as not newer, so odd tags never prompt an
// update.
func IsNewer(current, latest string) bool {
	cur, ok1 := parseSemver(current)
	lat, ok2 := parseSemver(latest)
	if !ok1 || !ok2 {
		return false
	}
	for i := 0; i < 3; i++ {
		if lat[i] != cur[i] {
			return lat[i] > cur[i]
		}
	}
	return false
}

func parseSemver(v string) ([3]int, bool) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	parts := strings.Split(v, ".")
	if len(parts) != 3 {
		return [3]int{}, false
	}
	var out [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return [3]int{}, false
		}
		out[i] = n
	}
	return out, true
}
