package simulate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"liquidityFactory/internal/model"
)

// StateStore persists the final factory state as JSON.
type StateStore struct {
	Path string
}

// Load reads a previously saved state. It reports false when none exists.
func (s *StateStore) Load() (model.FactoryState, bool, error) {
	if s == nil || s.Path == "" {
		return model.FactoryState{}, false, nil
	}

	stat, err := os.Stat(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.FactoryState{}, false, nil
		}
		return model.FactoryState{}, false, fmt.Errorf("stat state: %w", err)
	}
	if stat.IsDir() {
		return model.FactoryState{}, false, fmt.Errorf("state path is a directory")
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return model.FactoryState{}, false, fmt.Errorf("read state: %w", err)
	}

	var state model.FactoryState
	if err := json.Unmarshal(data, &state); err != nil {
		return model.FactoryState{}, false, fmt.Errorf("parse state: %w", err)
	}
	return state, true, nil
}

// Save writes state through a temporary file so readers never see a partial file.
func (s *StateStore) Save(state model.FactoryState) error {
	if s == nil || s.Path == "" {
		return nil
	}

	dir := filepath.Dir(s.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state tmp: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}
