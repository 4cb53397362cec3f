package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const selectionFile = "selection.json"

func selectionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "simpledash")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, selectionFile), nil
}

// SaveSelection persists the selected campaign ids so the chart comes
// back up with the same selection next session. Ids that no longer exist
// are dropped on load by the selection controller, so staleness here is
// harmless.
func SaveSelection(ids []string) error {
	path, err := selectionPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadSelection returns the persisted ids, or nil when none were saved.
func LoadSelection() ([]string, error) {
	path, err := selectionPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
