package events

import "github.com/yyyup/panelkit/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) SettingsLoaded(path string, categories, popups int) {
	logging.Trace("app.settings-loaded", map[string]interface{}{
		"path":       path,
		"categories": categories,
		"popups":     popups,
	})
}

func (AppTracer) SettingsSaved(path string) {
	logging.Trace("app.settings-saved", map[string]interface{}{"path": path})
}
