package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"name": "demo"}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Name != "demo" {
		t.Fatalf("Name = %q, want %q", cfg.Name, "demo")
	}
	if cfg.Port != DefaultPort {
		t.Fatalf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.Build.Output != DefaultDist {
		t.Fatalf("Build.Output = %q, want %q", cfg.Build.Output, DefaultDist)
	}
	if !cfg.HotReloadEnabled() {
		t.Fatal("HotReloadEnabled() = false, want true by default")
	}
}

func TestLoad_ExplicitValues(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{
		"port": 8080,
		"template": "shell/index.html",
		"static": {"dir": "assets", "prefix": "/assets"},
		"dev": {"hotReload": false}
	}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr() != ":8080" {
		t.Fatalf("Addr() = %q, want %q", cfg.Addr(), ":8080")
	}
	if got := cfg.TemplatePath(); got != filepath.Join(dir, "shell/index.html") {
		t.Fatalf("TemplatePath() = %q", got)
	}
	if cfg.HotReloadEnabled() {
		t.Fatal("HotReloadEnabled() = true, want false")
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	if err == nil {
		t.Fatal("Load succeeded without lumen.json")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{not json`)

	if _, err := Load(dir); err == nil {
		t.Fatal("Load succeeded with invalid JSON")
	}
}

func TestValidate_PortRange(t *testing.T) {
	cfg := New()
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate accepted out-of-range port")
	}

	cfg.Port = 8080
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate rejected valid port: %v", err)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{}`)

	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	found, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	// Resolve symlinks so the comparison survives /tmp being a link.
	wantResolved, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(found)
	if gotResolved != wantResolved {
		t.Fatalf("FindProjectRoot = %q, want %q", found, root)
	}
}
