// Package assets provides runtime resolution of fingerprinted asset paths.
//
// A production build writes a manifest.json mapping source asset names to
// their fingerprinted (content-hashed) versions:
//
//	{
//	  "app.js": "app.a1b2c3d4.js",
//	  "styles.css": "styles.e5f6a7b8.css"
//	}
//
// This package loads that manifest and resolves source names to the paths
// browsers should fetch, so templates and views never hard-code hashes:
//
//	manifest, _ := assets.Load("dist/manifest.json")
//	resolver := assets.NewResolver(manifest, "/")
//	resolver.Asset("app.js") // "/app.a1b2c3d4.js"
//
// Development mode uses a version resolver instead, which appends a
// cache-busting query parameter so rapid reloads never hit stale bundles.
package assets

import (
	"encoding/json"
	"os"
	"path"
	"strings"
	"sync"
)

// Manifest holds the mapping from source asset paths to fingerprinted
// paths. It is safe for concurrent use.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{entries: make(map[string]string)}
}

// Load reads a manifest.json file and returns a Manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	return &Manifest{entries: entries}, nil
}

// Resolve returns the fingerprinted path for the given source path.
// Unknown sources are returned unchanged.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Has reports whether the manifest contains the given source path.
func (m *Manifest) Has(source string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[source]
	return ok
}

// Set adds or updates an entry. Primarily useful for tests and build tools.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[source] = resolved
}

// Len returns the number of entries in the manifest.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// IsFingerprinted reports whether a file path carries a content hash in its
// name, e.g. "app.a1b2c3d4.css". Fingerprinted files may be cached forever.
func IsFingerprinted(filePath string) bool {
	base := path.Base(filePath)

	parts := strings.Split(base, ".")
	if len(parts) < 3 {
		return false
	}

	// The segment before the extension must look like a hex hash.
	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
