package filex

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureParentDir_CreatesNestedDir(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "a", "b", "cache.db")

	if err := EnsureParentDir(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(filepath.Dir(path))
	if err != nil || !info.IsDir() {
		t.Fatalf("parent dir missing: %v", err)
	}
}

func TestEnsureParentDir_BareFilename(t *testing.T) {
	if err := EnsureParentDir("cache.db"); err != nil {
		t.Fatalf("bare filename must be a no-op: %v", err)
	}
}
