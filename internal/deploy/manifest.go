package deploy

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ManifestName is the tracking file written into the target directory.
const ManifestName = "manifest.json"

// SourceUser marks files that existed before the deployer ran. They are
// the user's and are never overwritten without force.
const SourceUser = "user"

// Manifest records what the deployer wrote, keyed by relative path.
// It lets updates detect drift (user-edited files) and skip unchanged ones.
type Manifest struct {
	Version    string                   `json:"version"`
	DeployedAt time.Time                `json:"deployed_at"`
	Files      map[string]ManifestEntry `json:"files"`
}

// ManifestEntry is the recorded state of one deployed file.
type ManifestEntry struct {
	Checksum string `json:"checksum"`
	Source   string `json:"source"` // embedded | <git-url>
}

// NewManifest creates an empty manifest for the given toolkit version.
func NewManifest(version string) *Manifest {
	return &Manifest{
		Version: version,
		Files:   make(map[string]ManifestEntry),
	}
}

// LoadManifest reads the manifest from a target directory. A missing file
// yields an empty manifest so first deploys and updates share one path.
func LoadManifest(dir, version string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if os.IsNotExist(err) {
		return NewManifest(version), nil
	}
	if err != nil {
		return nil, fmt.Errorf("deploy: read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("deploy: parse manifest: %w", err)
	}
	if m.Files == nil {
		m.Files = make(map[string]ManifestEntry)
	}
	return &m, nil
}

// Save writes the manifest into the target directory.
func (m *Manifest) Save(dir string) error {
	m.DeployedAt = time.Now().UTC()
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("deploy: encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("deploy: write manifest: %w", err)
	}
	return nil
}

// Record stores the checksum of deployed content for a relative path.
func (m *Manifest) Record(rel, source string, content []byte) {
	m.Files[rel] = ManifestEntry{Checksum: checksum(content), Source: source}
}

// RecordUser marks a pre-existing file as user-owned, remembering its
// current checksum.
func (m *Manifest) RecordUser(rel string, content []byte) {
	m.Files[rel] = ManifestEntry{Checksum: checksum(content), Source: SourceUser}
}

// Tracked reports whether the manifest has an entry for rel.
func (m *Manifest) Tracked(rel string) bool {
	_, ok := m.Files[rel]
	return ok
}

// UserOwned reports whether rel is recorded as a user file.
func (m *Manifest) UserOwned(rel string) bool {
	return m.Files[rel].Source == SourceUser
}

// Drifted reports whether the on-disk content differs from what the
// manifest recorded for rel. Untracked files are not drifted.
func (m *Manifest) Drifted(rel string, content []byte) bool {
	entry, ok := m.Files[rel]
	if !ok {
		return false
	}
	return entry.Checksum != checksum(content)
}

func checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
