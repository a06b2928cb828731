package roles

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRole(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write role file: %v", err)
	}
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	writeRole(t, dir, "backend.yaml", `
id: backend-go
name: Backend Engineer (Go)
description: Services and data plumbing
focus:
  - Goroutines and channels
  - SQL and indexing
`)
	writeRole(t, dir, "frontend.yml", `
id: frontend
name: Frontend Engineer
focus:
  - React fundamentals
`)
	// Invalid files are skipped, not fatal
	writeRole(t, dir, "broken.yaml", `name: missing the id`)

	loader := NewLoader()
	if err := loader.LoadFromDir(dir); err != nil {
		t.Fatalf("LoadFromDir failed: %v", err)
	}

	roles := loader.List()
	if len(roles) != 2 {
		t.Fatalf("expected 2 roles loaded, got %d", len(roles))
	}

	backend := loader.Get("backend-go")
	if backend.Name != "Backend Engineer (Go)" {
		t.Errorf("unexpected role name: %s", backend.Name)
	}
	if len(backend.Focus) != 2 {
		t.Errorf("expected 2 focus areas, got %d", len(backend.Focus))
	}
}

func TestGetFallsBackToDefault(t *testing.T) {
	loader := NewLoader()

	if got := loader.Get(""); got.ID != DefaultRole.ID {
		t.Errorf("empty id: expected default role, got %s", got.ID)
	}
	if got := loader.Get("no-such-role"); got.ID != DefaultRole.ID {
		t.Errorf("unknown id: expected default role, got %s", got.ID)
	}
}

func TestLoadFromFileValidation(t *testing.T) {
	dir := t.TempDir()

	writeRole(t, dir, "noid.yaml", `name: No ID Role`)
	loader := NewLoader()
	if err := loader.LoadFromFile(filepath.Join(dir, "noid.yaml")); err == nil {
		t.Error("expected error for role without id")
	}

	writeRole(t, dir, "noname.yaml", `id: nameless`)
	if err := loader.LoadFromFile(filepath.Join(dir, "noname.yaml")); err == nil {
		t.Error("expected error for role without name")
	}

	if err := loader.LoadFromFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
