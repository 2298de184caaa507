package client

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPrefsRoundTrip(t *testing.T) {
	p := NewPrefs(filepath.Join(t.TempDir(), "nested", "prefs.json"))

	// Missing file reads as empty, not an error.
	email, err := p.Email()
	if err != nil || email != "" {
		t.Fatalf("Email on fresh prefs = (%q, %v), want empty", email, err)
	}

	if err := p.SaveEmail("alice@x.com"); err != nil {
		t.Fatalf("SaveEmail: %v", err)
	}
	email, err = p.Email()
	if err != nil || email != "alice@x.com" {
		t.Fatalf("Email = (%q, %v), want alice@x.com", email, err)
	}

	// Overwrites are fine.
	if err := p.SaveEmail("bob@x.com"); err != nil {
		t.Fatalf("SaveEmail overwrite: %v", err)
	}
	if email, _ = p.Email(); email != "bob@x.com" {
		t.Fatalf("Email = %q, want bob@x.com", email)
	}
}

func TestPrefsCorruptFileReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	p := NewPrefs(path)
	email, err := p.Email()
	if err != nil || email != "" {
		t.Fatalf("Email on corrupt prefs = (%q, %v), want empty", email, err)
	}
	// And it recovers on the next write.
	if err := p.SaveEmail("alice@x.com"); err != nil {
		t.Fatalf("SaveEmail after corruption: %v", err)
	}
}
