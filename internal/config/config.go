package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/yyyup/panelkit/internal/app"
	"github.com/yyyup/panelkit/internal/settings"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

// RC is the optional rc-file shape. Flags and environment variables win
// over anything set here.
type RC struct {
	Settings  string `toml:"settings"`
	BundleDir string `toml:"bundle_dir"`
	Region    string `toml:"region"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Footer    bool   `toml:"footer"`
	Verbose   bool   `toml:"verbose"`
	Trace     bool   `toml:"trace"`
	LogFile   string `toml:"log_file"`
}

const (
	envConfigFile = "PANELKIT_CONFIG"
	envSettings   = "PANELKIT_SETTINGS"
	envBundleDir  = "PANELKIT_BUNDLE_DIR"
	envRegion     = "PANELKIT_REGION"
	envWidth      = "PANELKIT_WIDTH"
	envHeight     = "PANELKIT_HEIGHT"
	envShowFooter = "PANELKIT_FOOTER"
	envVerbose    = "PANELKIT_VERBOSE"
	envTrace      = "PANELKIT_TRACE"
	envLogFile    = "PANELKIT_LOG_FILE"
)

// DefaultRCPath returns the rc-file location under the user's home
// directory.
func DefaultRCPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "panelkit", "panelkit.toml")
}

// Load parses configuration from CLI arguments, environment variables, and
// the optional rc file.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	rc, err := loadRC(envOrDefault(env, envConfigFile, DefaultRCPath()))
	if err != nil {
		return Config{}, err
	}
	if rc.Settings == "" {
		rc.Settings = settings.DefaultPath()
	}
	if rc.Region == "" {
		rc.Region = app.DefaultRegion
	}

	fs := flag.NewFlagSet("panelkit", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	settingsPath := fs.String("settings", envOrDefault(env, envSettings, rc.Settings), "path to the settings snapshot")
	bundleDir := fs.String("bundle", envOrDefault(env, envBundleDir, rc.BundleDir), "path to the default-content bundle directory")
	reload := fs.Bool("reload-defaults", false, "discard edits to bundled content and rebuild it from the bundle")
	region := fs.String("region", envOrDefault(env, envRegion, rc.Region), "region to render the inspector for")
	width := fs.Int("width", envOrInt(env, envWidth, rc.Width), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, rc.Height), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, rc.Footer), "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, rc.Trace), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, rc.Verbose), "print success messages for actions")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, rc.LogFile), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	if !app.ValidRegion(*region) {
		return Config{}, fmt.Errorf("unknown region %q", *region)
	}

	cfg := Config{
		App: app.Config{
			SettingsPath: *settingsPath,
			BundleDir:    *bundleDir,
			ForceReload:  *reload,
			Region:       *region,
			Width:        *width,
			Height:       *height,
			ShowFooter:   *footer,
			Verbose:      *verbose,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"settings": *settingsPath,
			"bundle":   *bundleDir,
			"region":   *region,
			"width":    strconv.Itoa(*width),
			"height":   strconv.Itoa(*height),
			"footer":   strconv.FormatBool(*footer),
			"trace":    strconv.FormatBool(*trace),
			"verbose":  strconv.FormatBool(*verbose),
			"logFile":  *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func loadRC(path string) (RC, error) {
	var rc RC
	if path == "" {
		return rc, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return rc, nil
	}
	if _, err := toml.DecodeFile(path, &rc); err != nil {
		return RC{}, fmt.Errorf("parse rc file %s: %w", path, err)
	}
	return rc, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}
