package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookupReturnsPresentKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.properties")
	contents := "API_TOKEN=s3cr3t-value\nOTHER_KEY=other\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write secrets file: %v", err)
	}

	value, ok := Lookup(path, "API_TOKEN")
	if !ok {
		t.Fatalf("expected key to be found")
	}
	if value != "s3cr3t-value" {
		t.Fatalf("expected %q, got %q", "s3cr3t-value", value)
	}
}

func TestLookupAbsentKeyReturnsNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.properties")
	if err := os.WriteFile(path, []byte("OTHER_KEY=other\n"), 0o600); err != nil {
		t.Fatalf("write secrets file: %v", err)
	}

	if value, ok := Lookup(path, "API_TOKEN"); ok || value != "" {
		t.Fatalf("expected not found, got %q ok=%v", value, ok)
	}
}

func TestLookupMissingFileReturnsNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.properties")
	if value, ok := Lookup(path, "API_TOKEN"); ok || value != "" {
		t.Fatalf("expected not found for missing file, got %q ok=%v", value, ok)
	}
}

func TestLookupEmptyArgumentsReturnNotFound(t *testing.T) {
	if _, ok := Lookup("", "API_TOKEN"); ok {
		t.Fatalf("expected not found for empty path")
	}
	if _, ok := Lookup("somewhere", ""); ok {
		t.Fatalf("expected not found for empty key")
	}
}
