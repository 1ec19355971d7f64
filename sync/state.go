package sync

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StateFile persists sync metadata as simple key-value pairs outside the
// relational store: the last successful sync timestamp and the auto-sync
// flag. The flag is independent of session state and survives restarts.
type StateFile struct {
	mu   sync.Mutex
	path string
	data stateData
}

type stateData struct {
	LastSync        string `json:"last_sync,omitempty"`
	AutoSyncEnabled bool   `json:"auto_sync_enabled"`
}

func NewStateFile(path string) (*StateFile, error) {
	sf := &StateFile{path: path}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return sf, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &sf.data); err != nil {
		return nil, err
	}
	return sf, nil
}

// LastSync returns the last successful sync time, or false if the backup
// has never been uploaded.
func (sf *StateFile) LastSync() (time.Time, bool) {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	if sf.data.LastSync == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, sf.data.LastSync)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (sf *StateFile) SetLastSync(t time.Time) error {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	sf.data.LastSync = t.UTC().Format(time.RFC3339)
	return sf.persist()
}

func (sf *StateFile) AutoSyncEnabled() bool {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.data.AutoSyncEnabled
}

func (sf *StateFile) SetAutoSyncEnabled(enabled bool) error {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	sf.data.AutoSyncEnabled = enabled
	return sf.persist()
}

func (sf *StateFile) persist() error {
	if err := os.MkdirAll(filepath.Dir(sf.path), 0755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(sf.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(sf.path, raw, 0644)
}
