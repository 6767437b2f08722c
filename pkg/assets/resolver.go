package assets

// Resolver resolves a source asset name to the URL path browsers should
// fetch.
type Resolver interface {
	// Asset resolves a source asset path to its full URL path, including
	// any configured prefix and fingerprinted filename.
	Asset(source string) string
}

// manifestResolver wraps a Manifest to implement Resolver.
type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver creates a Resolver from a Manifest with an optional path
// prefix.
//
//	manifest, _ := assets.Load("dist/manifest.json")
//	resolver := assets.NewResolver(manifest, "/")
//	resolver.Asset("app.js") // "/app.a1b2c3d4.js"
func NewResolver(m *Manifest, prefix string) Resolver {
	return &manifestResolver{manifest: m, prefix: prefix}
}

func (r *manifestResolver) Asset(source string) string {
	return r.prefix + r.manifest.Resolve(source)
}

// versionResolver appends a cache-busting query parameter. Used in
// development, where files keep their source names but must never be
// served from a stale browser cache.
type versionResolver struct {
	prefix string
	token  string
}

// NewVersionResolver creates a resolver that appends "?v=<token>" to every
// asset path. The token should change whenever the underlying files may
// have changed (Lumen's dev adapter mints a fresh one per template read).
func NewVersionResolver(prefix, token string) Resolver {
	return &versionResolver{prefix: prefix, token: token}
}

func (r *versionResolver) Asset(source string) string {
	if r.token == "" {
		return r.prefix + source
	}
	return r.prefix + source + "?v=" + r.token
}
