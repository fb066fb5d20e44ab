package events

import "github.com/yyyup/panelkit/internal/logging"

type ConditionalTracer struct{}

type EditorTracer struct{}

type ResolverTracer struct{}

type ReconcileTracer struct{}

var (
	Conditional = ConditionalTracer{}
	Editor      = EditorTracer{}
	Resolver    = ResolverTracer{}
	Reconcile   = ReconcileTracer{}
)

// FailOpen records a conditional that could not be evaluated. The row stays
// visible; this entry is the only evidence anything went wrong.
func (ConditionalTracer) FailOpen(label, expr string, err error) {
	logging.Warn("conditional %s: %q: %v (showing row)", label, expr, err)
	logging.Trace("conditional.fail-open", map[string]interface{}{
		"label": label,
		"expr":  expr,
		"error": err.Error(),
	})
}

func (EditorTracer) Applied(op, target string, span int) {
	logging.Trace("editor.applied", map[string]interface{}{
		"op":     op,
		"target": target,
		"rows":   span,
	})
}

func (EditorTracer) Rejected(op string, err error) {
	if err == nil {
		return
	}
	logging.Warn("editor %s rejected: %v", op, err)
	logging.Trace("editor.rejected", map[string]interface{}{"op": op, "error": err.Error()})
}

func (ResolverTracer) Miss(addr string) {
	logging.Warn("address %s did not resolve", addr)
	logging.Trace("resolver.miss", map[string]interface{}{"address": addr})
}

func (ReconcileTracer) Inserted(kind, id string) {
	logging.Trace("reconcile.inserted", map[string]interface{}{"kind": kind, "id": id})
}

func (ReconcileTracer) Converted(kind, id, name string) {
	logging.Trace("reconcile.converted", map[string]interface{}{"kind": kind, "id": id, "name": name})
}

func (ReconcileTracer) Updated(kind, id string) {
	logging.Trace("reconcile.updated", map[string]interface{}{"kind": kind, "id": id})
}

func (ReconcileTracer) BundleError(path string, err error) {
	logging.Warn("bundle %s: %v", path, err)
	logging.Trace("reconcile.bundle-error", map[string]interface{}{"path": path, "error": err.Error()})
}
