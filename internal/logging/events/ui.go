package events

import "github.com/yyyup/panelkit/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type ActionTracer struct{}

var (
	UI     = UITracer{}
	Filter = FilterTracer{}
	Action = ActionTracer{}
)

func (UITracer) PaneEnter(pane, itemID, label string) {
	logging.Trace("ui.enter", map[string]interface{}{
		"pane":  pane,
		"item":  itemID,
		"label": label,
	})
}

func (UITracer) Cursor(pane string, cursor int) {
	logging.Trace("ui.cursor", map[string]interface{}{"pane": pane, "cursor": cursor})
}

func (UITracer) Region(region string) {
	logging.Trace("ui.region", map[string]interface{}{"region": region})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

func (FilterTracer) Cleared(pane string) {
	logging.Trace("filter.clear", map[string]interface{}{"pane": pane})
}

func (FilterTracer) Append(pane, filter string) {
	logging.Trace("filter.append", map[string]interface{}{"pane": pane, "filter": filter})
}

func (FilterTracer) Backspace(pane, filter string) {
	logging.Trace("filter.backspace", map[string]interface{}{"pane": pane, "filter": filter})
}
