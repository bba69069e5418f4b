package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// CredentialStore persists the admin credential across runs.
type CredentialStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileCredentials stores the credential as JSON in a file readable only by
// the owner.
type FileCredentials struct {
	Path string
}

// NewFileCredentials returns a store at <dir>/session.json.
func NewFileCredentials(dir string) *FileCredentials {
	return &FileCredentials{Path: filepath.Join(dir, "session.json")}
}

type credentialFile struct {
	Token string `json:"token"`
}

// Load returns the stored token, or "" when none is stored.
func (f *FileCredentials) Load() (string, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var cf credentialFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return "", err
	}
	return cf.Token, nil
}

// Save writes token, replacing any previous one.
func (f *FileCredentials) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0700); err != nil {
		return err
	}
	data, _ := json.MarshalIndent(credentialFile{Token: token}, "", "  ")
	return os.WriteFile(f.Path, data, 0600)
}

// Clear removes the stored token. A missing file is not an error.
func (f *FileCredentials) Clear() error {
	err := os.Remove(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryCredentials keeps the credential in memory only.
type MemoryCredentials struct {
	mu    sync.Mutex
	token string
}

func (m *MemoryCredentials) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryCredentials) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryCredentials) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
