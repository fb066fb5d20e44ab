// Package settings persists the configuration tree as a JSON snapshot.
// Saving rotates the previous snapshot to a .back sibling before writing.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yyyup/panelkit/internal/logging/events"
	"github.com/yyyup/panelkit/internal/tree"
)

// DefaultFileName is the snapshot file used when no path is configured.
const DefaultFileName = "panelkit.json"

// BackupSuffix replaces the .json extension on the rotated snapshot.
const BackupSuffix = ".back"

// DefaultPath returns the snapshot location under the user's home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(home, ".config", "panelkit", DefaultFileName)
}

// Load reads a snapshot from disk. A missing file is not an error; it
// returns a fresh empty tree so first runs start clean.
func Load(path string) (*tree.Root, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return tree.NewRoot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if _, ok := probe.(map[string]any); !ok {
		return nil, fmt.Errorf("parse settings %s: top level is not a mapping", path)
	}

	root := tree.NewRoot()
	if err := json.Unmarshal(raw, root); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if root.Global == nil {
		root.Global = tree.NewGlobalOwner()
	}
	root.Global.Kind = tree.OwnerGlobal
	for _, popup := range root.Popups {
		popup.Kind = tree.OwnerPopup
	}
	root.ClampActivePopup()

	events.App.SettingsLoaded(path, len(root.Global.Categories), len(root.Popups))
	return root, nil
}

// Save writes the tree to path, rotating any existing snapshot to its
// backup sibling first.
func Save(path string, root *tree.Root) error {
	raw, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		backup := BackupPath(path)
		if err := os.Remove(backup); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("rotate settings backup: %w", err)
		}
		if err := os.Rename(path, backup); err != nil {
			return fmt.Errorf("rotate settings backup: %w", err)
		}
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	events.App.SettingsSaved(path)
	return nil
}

// BackupPath returns the rotated-snapshot sibling for a settings path.
func BackupPath(path string) string {
	if strings.HasSuffix(path, ".json") {
		return strings.TrimSuffix(path, ".json") + BackupSuffix
	}
	return path + BackupSuffix
}
