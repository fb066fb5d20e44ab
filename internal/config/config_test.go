package config

import (
	"os"
	"path/filepath"
	"testing"
)

// noRC points the rc-file lookup at a path that does not exist so the
// user's real configuration never leaks into a test.
func noRC(t *testing.T) string {
	t.Helper()
	return "PANELKIT_CONFIG=" + filepath.Join(t.TempDir(), "missing.toml")
}

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{noRC(t)})
	if err != nil {
		t.Fatalf("LoadArgs failed: %v", err)
	}
	if cfg.App.SettingsPath == "" {
		t.Fatalf("expected a default settings path")
	}
	if cfg.App.Region != "side_view" {
		t.Fatalf("expected default region side_view, got %q", cfg.App.Region)
	}
	if cfg.App.Width != 0 || cfg.App.Height != 0 {
		t.Fatalf("expected terminal-driven dimensions, got %dx%d", cfg.App.Width, cfg.App.Height)
	}
}

func TestLoadArgsFlagsWinOverEnv(t *testing.T) {
	environ := []string{
		noRC(t),
		"PANELKIT_SETTINGS=/env/settings.json",
		"PANELKIT_REGION=top_nla",
		"PANELKIT_WIDTH=50",
	}
	cfg, err := LoadArgs([]string{"-settings", "/flag/settings.json", "-region", "side_dope"}, environ)
	if err != nil {
		t.Fatalf("LoadArgs failed: %v", err)
	}
	if cfg.App.SettingsPath != "/flag/settings.json" {
		t.Fatalf("expected flag to win, got %q", cfg.App.SettingsPath)
	}
	if cfg.App.Region != "side_dope" {
		t.Fatalf("expected flag region, got %q", cfg.App.Region)
	}
	if cfg.App.Width != 50 {
		t.Fatalf("expected env width to apply, got %d", cfg.App.Width)
	}
}

func TestLoadArgsReadsRCFile(t *testing.T) {
	dir := t.TempDir()
	rcPath := filepath.Join(dir, "panelkit.toml")
	content := "settings = \"/rc/settings.json\"\nregion = \"top_graph\"\nfooter = true\n"
	if err := os.WriteFile(rcPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write rc: %v", err)
	}
	cfg, err := LoadArgs(nil, []string{"PANELKIT_CONFIG=" + rcPath})
	if err != nil {
		t.Fatalf("LoadArgs failed: %v", err)
	}
	if cfg.App.SettingsPath != "/rc/settings.json" {
		t.Fatalf("expected rc settings path, got %q", cfg.App.SettingsPath)
	}
	if cfg.App.Region != "top_graph" {
		t.Fatalf("expected rc region, got %q", cfg.App.Region)
	}
	if !cfg.App.ShowFooter {
		t.Fatalf("expected rc footer to apply")
	}
}

func TestLoadArgsRejectsUnknownRegion(t *testing.T) {
	if _, err := LoadArgs([]string{"-region", "ceiling"}, []string{noRC(t)}); err == nil {
		t.Fatalf("expected an error for an unknown region")
	}
}

func TestLoadArgsRejectsNegativeDimensions(t *testing.T) {
	if _, err := LoadArgs([]string{"-width", "-1"}, []string{noRC(t)}); err == nil {
		t.Fatalf("expected an error for a negative width")
	}
}

func TestLoadArgsReloadFlag(t *testing.T) {
	cfg, err := LoadArgs([]string{"-reload-defaults", "-bundle", "/defs"}, []string{noRC(t)})
	if err != nil {
		t.Fatalf("LoadArgs failed: %v", err)
	}
	if !cfg.App.ForceReload {
		t.Fatalf("expected force reload to be set")
	}
	if cfg.App.BundleDir != "/defs" {
		t.Fatalf("expected bundle dir, got %q", cfg.App.BundleDir)
	}
}
