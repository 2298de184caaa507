package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// emailKey is the single key the client persists across sessions.
const emailKey = "user_email"

// Prefs stores the last-used email in a small JSON file so a returning
// user does not retype it. Seat selection and fetched seat data are
// deliberately never persisted.
type Prefs struct {
	path string
}

// NewPrefs returns a Prefs backed by the given file path.
func NewPrefs(path string) *Prefs { return &Prefs{path: path} }

// DefaultPrefs places the prefs file under the user config directory,
// e.g. ~/.config/seat-booking/prefs.json on Linux.
func DefaultPrefs() (*Prefs, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewPrefs(filepath.Join(dir, "seat-booking", "prefs.json")), nil
}

// Email returns the stored email. A missing file reads as empty.
func (p *Prefs) Email() (string, error) {
	m, err := p.load()
	if err != nil {
		return "", err
	}
	return m[emailKey], nil
}

// SaveEmail writes the email, creating the file and its directory on
// first use. Unknown keys in an existing file are preserved.
func (p *Prefs) SaveEmail(email string) error {
	m, err := p.load()
	if err != nil {
		return err
	}
	m[emailKey] = email
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.path, raw, 0o600)
}

func (p *Prefs) load() (map[string]string, error) {
	raw, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	m := map[string]string{}
	if err := json.Unmarshal(raw, &m); err != nil {
		// A corrupt prefs file should not brick the client.
		return map[string]string{}, nil
	}
	return m, nil
}
