// Package bundle loads the shipped default-content definitions and merges
// them into a user's configuration tree. One JSON file per definition; the
// file's base name is the definition's stable id, which is what local nodes
// are matched on. Merging never deletes user data: locals whose id has
// vanished from the bundle become user-owned instead.
package bundle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yyyup/panelkit/internal/logging/events"
)

// Subdirectories a bundle is laid out in.
const (
	CategoriesDir = "categories"
	PopupsDir     = "popups"
)

// Definition is one loaded bundle entry.
type Definition struct {
	ID      string
	Mapping map[string]any
}

// Bundle holds every definition found on disk, in file order.
type Bundle struct {
	Categories []Definition
	Popups     []Definition
}

// Load reads a bundle directory. Missing subdirectories are fine; files
// that fail to parse are logged and skipped.
func Load(dir string) (*Bundle, error) {
	if dir == "" {
		return nil, fmt.Errorf("bundle directory not set")
	}
	b := &Bundle{}
	var err error
	if b.Categories, err = loadDir(filepath.Join(dir, CategoriesDir)); err != nil {
		return nil, err
	}
	if b.Popups, err = loadDir(filepath.Join(dir, PopupsDir)); err != nil {
		return nil, err
	}
	return b, nil
}

func loadDir(dir string) ([]Definition, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read bundle dir: %w", err)
	}

	var defs []Definition
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			events.Reconcile.BundleError(path, err)
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			events.Reconcile.BundleError(path, err)
			continue
		}
		defs = append(defs, Definition{
			ID:      strings.TrimSuffix(name, ".json"),
			Mapping: m,
		})
	}
	return defs, nil
}
