// Package conditional evaluates the free-text boolean expressions attached
// to rows. The language is a closed subset -- attribute access, comparisons,
// boolean and arithmetic operators, and an allow-list of calls -- interpreted
// directly over an explicit environment. There is no import mechanism and no
// way to reach the file system, processes, or arbitrary callables.
//
// Failures are deliberately fail-open: a row whose expression cannot compile
// or raises at evaluation time stays visible, and the error is logged once
// per expression. Hiding content silently is worse than showing too much.
package conditional

import (
	"fmt"
	"strings"

	"github.com/yyyup/panelkit/internal/logging/events"
)

// Env supplies everything an expression may see: named roots for attribute
// chains, the host capability set, and the referenced-panel check.
type Env struct {
	Roots        map[string]any
	Capabilities map[string]bool
	PanelExists  func(id string) bool
}

// Evaluator compiles expressions on first use and caches the result, error
// included, so a broken conditional is reported once rather than every draw
// pass.
type Evaluator struct {
	env    Env
	cache  map[string]compiled
	logged map[string]bool
}

type compiled struct {
	root node
	err  error
}

type scope struct {
	env *Env
}

// New returns an evaluator bound to env.
func New(env Env) *Evaluator {
	return &Evaluator{
		env:    env,
		cache:  make(map[string]compiled),
		logged: make(map[string]bool),
	}
}

// Eval runs the expression and returns its raw value.
func (e *Evaluator) Eval(expr string) (any, error) {
	c, ok := e.cache[expr]
	if !ok {
		root, err := compile(expr)
		c = compiled{root: root, err: err}
		e.cache[expr] = c
	}
	if c.err != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, c.err)
	}
	return c.root.eval(&scope{env: &e.env})
}

// Visible decides row visibility for a conditional expression. Empty
// expressions are always visible; compile and runtime failures are logged
// under the given label and fail open.
func (e *Evaluator) Visible(label, expr string) bool {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return true
	}
	result, err := e.Eval(expr)
	if err != nil {
		if !e.logged[expr] {
			e.logged[expr] = true
			events.Conditional.FailOpen(label, expr, err)
		}
		return true
	}
	return truthy(result)
}

// PanelExists reports whether a referenced panel id is currently registered.
func (e *Evaluator) PanelExists(id string) bool {
	if e.env.PanelExists == nil {
		return false
	}
	return e.env.PanelExists(id)
}

func (n *literalNode) eval(*scope) (any, error) { return n.val, nil }

func (n *identNode) eval(sc *scope) (any, error) {
	if sc.env.Roots != nil {
		if v, ok := sc.env.Roots[n.name]; ok {
			return normalize(v), nil
		}
	}
	return nil, fmt.Errorf("unknown name %q at offset %d", n.name, n.pos)
}

func (n *attrNode) eval(sc *scope) (any, error) {
	recv, err := n.recv.eval(sc)
	if err != nil {
		return nil, err
	}
	val, ok := attrOf(recv, n.name)
	if !ok {
		return nil, fmt.Errorf("no attribute %q at offset %d", n.name, n.pos)
	}
	return val, nil
}

func (n *indexNode) eval(sc *scope) (any, error) {
	recv, err := n.recv.eval(sc)
	if err != nil {
		return nil, err
	}
	idx, err := n.idx.eval(sc)
	if err != nil {
		return nil, err
	}
	return indexOf(recv, idx)
}

func (n *unaryNode) eval(sc *scope) (any, error) {
	val, err := n.expr.eval(sc)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case "not":
		return !truthy(val), nil
	case "-":
		switch num := val.(type) {
		case int64:
			return -num, nil
		case float64:
			return -num, nil
		}
		return nil, fmt.Errorf("cannot negate %T at offset %d", val, n.pos)
	}
	return nil, fmt.Errorf("unknown unary operator %q", n.op)
}

func (n *binaryNode) eval(sc *scope) (any, error) {
	// Boolean operators short-circuit and keep the deciding operand,
	// so "a and a.b" guards as the expression authors expect.
	if n.op == "and" || n.op == "or" {
		lhs, err := n.lhs.eval(sc)
		if err != nil {
			return nil, err
		}
		if n.op == "and" && !truthy(lhs) {
			return lhs, nil
		}
		if n.op == "or" && truthy(lhs) {
			return lhs, nil
		}
		return n.rhs.eval(sc)
	}

	lhs, err := n.lhs.eval(sc)
	if err != nil {
		return nil, err
	}
	rhs, err := n.rhs.eval(sc)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case "==":
		return equal(lhs, rhs), nil
	case "!=":
		return !equal(lhs, rhs), nil
	case "<", "<=", ">", ">=":
		return compareWrap(n.op, lhs, rhs, n.pos)
	case "in":
		ok, err := contains(lhs, rhs)
		if err != nil {
			return nil, fmt.Errorf("%v at offset %d", err, n.pos)
		}
		return ok, nil
	case "+", "-", "*", "/", "%":
		val, err := arith(n.op, lhs, rhs)
		if err != nil {
			return nil, fmt.Errorf("%v at offset %d", err, n.pos)
		}
		return val, nil
	}
	return nil, fmt.Errorf("unknown operator %q", n.op)
}

func compareWrap(op string, lhs, rhs any, pos int) (any, error) {
	ok, err := compare(op, lhs, rhs)
	if err != nil {
		return nil, fmt.Errorf("%v at offset %d", err, pos)
	}
	return ok, nil
}

func (n *callNode) eval(sc *scope) (any, error) {
	args := make([]any, 0, len(n.args))
	for _, arg := range n.args {
		val, err := arg.eval(sc)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	fn, ok := builtins[n.fn]
	if !ok {
		return nil, fmt.Errorf("function %q is not allowed at offset %d", n.fn, n.pos)
	}
	val, err := fn(sc, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %v at offset %d", n.fn, err, n.pos)
	}
	return val, nil
}
