package app

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yyyup/panelkit/internal/backend"
	"github.com/yyyup/panelkit/internal/bundle"
	"github.com/yyyup/panelkit/internal/buttons"
	"github.com/yyyup/panelkit/internal/conditional"
	"github.com/yyyup/panelkit/internal/editor"
	"github.com/yyyup/panelkit/internal/settings"
	"github.com/yyyup/panelkit/internal/tree"
	"github.com/yyyup/panelkit/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	SettingsPath string
	BundleDir    string
	ForceReload  bool
	Region       string
	Width        int
	Height       int
	ShowFooter   bool
	Verbose      bool
}

// DefaultRegion is the surface the inspector opens on.
const DefaultRegion = string(tree.RegionSideView)

// ValidRegion reports whether the name is a pinnable surface. The popup
// region is excluded; popup panels are browsed through their owners.
func ValidRegion(name string) bool {
	for _, region := range tree.PinRegions() {
		if string(region) == name {
			return true
		}
	}
	return false
}

// settingsPollInterval is how often the watcher checks the snapshot on disk.
const settingsPollInterval = 1500 * time.Millisecond

// panelRegistry seeds the registry with every panel id the tree references.
// A standalone inspector has no host registering panels, so the snapshot is
// the source of record and dangling references stay visible as placeholders.
func panelRegistry(root *tree.Root) *buttons.PanelRegistry {
	reg := buttons.NewPanelRegistry()
	for _, owner := range root.Owners() {
		for _, cat := range owner.Categories {
			for _, row := range cat.Rows {
				if row.Kind != tree.RowPanel {
					continue
				}
				if row.PanelID != "" {
					reg.Register(row.PanelID)
				}
				if row.CustomPanel != "" {
					reg.Register(row.CustomPanel)
				}
			}
		}
	}
	return reg
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	root, err := settings.Load(cfg.SettingsPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if cfg.BundleDir != "" {
		b, err := bundle.Load(cfg.BundleDir)
		if err != nil {
			return fmt.Errorf("load bundle: %w", err)
		}
		var stats bundle.Stats
		if cfg.ForceReload {
			bundle.RestorePins(root, func() {
				stats = bundle.Reconcile(root, b, true)
			})
		} else {
			stats = bundle.Reconcile(root, b, false)
		}
		if stats.Changed() {
			if err := settings.Save(cfg.SettingsPath, root); err != nil {
				return fmt.Errorf("save reconciled settings: %w", err)
			}
		}
	}

	watcher := backend.NewWatcher(cfg.SettingsPath, settingsPollInterval)
	defer watcher.Stop()

	evaluator := conditional.New(conditional.Env{
		PanelExists: panelRegistry(root).Exists,
	})

	model := ui.NewModel(editor.New(root), ui.Options{
		Region:       tree.Region(cfg.Region),
		Evaluator:    evaluator,
		Buttons:      buttons.NewRegistry(),
		Width:        cfg.Width,
		Height:       cfg.Height,
		ShowFooter:   cfg.ShowFooter,
		Verbose:      cfg.Verbose,
		SettingsPath: cfg.SettingsPath,
		Watcher:      watcher,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
