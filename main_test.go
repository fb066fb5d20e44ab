package main

import (
	"testing"

	"github.com/yyyup/panelkit/internal/app"
	"github.com/yyyup/panelkit/internal/config"
)

func TestCollectTTYDetailsIncludesStandardDescriptors(t *testing.T) {
	info := collectTTYDetails()
	if len(info.Probes) != 3 {
		t.Fatalf("expected 3 probe entries, got %d", len(info.Probes))
	}
	expected := []string{"stdin", "stdout", "stderr"}
	for i, name := range expected {
		if info.Probes[i].Name != name {
			t.Fatalf("expected probe %d name %q, got %q", i, name, info.Probes[i].Name)
		}
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			SettingsPath: "settings.json",
			BundleDir:    "bundle",
			Region:       "side_view",
			Width:        80,
			Height:       24,
			ShowFooter:   true,
			Verbose:      true,
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Flags: map[string]string{
			"settings": "settings.json",
			"region":   "side_view",
			"width":    "80",
			"height":   "24",
			"footer":   "true",
			"verbose":  "true",
		},
		Args: []string{"--settings", "settings.json"},
	}

	payload := startupTracePayload(cfg)

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["settings"] != "settings.json" {
		t.Fatalf("expected settings flag, got %v", flagsValue["settings"])
	}
	if flagsValue["region"] != "side_view" {
		t.Fatalf("expected region flag, got %v", flagsValue["region"])
	}
	if flagsValue["trace"] != true {
		t.Fatalf("expected trace flag true, got %v", flagsValue["trace"])
	}
	if flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected log file trace.log, got %v", flagsValue["logFile"])
	}

	if payload["settings"] != "settings.json" {
		t.Fatalf("expected settings path in payload, got %v", payload["settings"])
	}
	if payload["bundle"] != "bundle" {
		t.Fatalf("expected bundle dir in payload, got %v", payload["bundle"])
	}
	if _, ok := payload["tty"].(ttyDetails); !ok {
		t.Fatalf("expected tty details in payload")
	}
}

func TestValidRegionNames(t *testing.T) {
	if !app.ValidRegion(app.DefaultRegion) {
		t.Fatalf("default region must be valid")
	}
	if app.ValidRegion("popup") {
		t.Fatalf("popup is not a pinnable region")
	}
	if app.ValidRegion("") {
		t.Fatalf("empty region must be rejected")
	}
}
