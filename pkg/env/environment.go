// Package env implements the chained lexical-scope environment described
// in spec §3.5: variable bindings, an additive native-function registry,
// the current/root input, and a back-reference to whatever can invoke a
// callable (the evaluator). Grounded on the teacher's
// pkg/evaluator/context.go EvalContext, split into a pure lexical-scope
// type — the tuple-based evaluator (spec §4.5.1) threads the "current
// data" ($ context) separately, so Environment here only carries what
// spec §3.5 actually assigns it: bindings, functions, input, evaluator.
package env

import "fmt"

// NativeFn is the signature every built-in and host-registered function
// implements (spec §6.3): evaluated arguments, the current input ($),
// and the environment the call is made in (for HOFs that need to invoke
// callables back through Invoker).
type NativeFn func(args []interface{}, input interface{}, e *Environment) (interface{}, error)

// Invoker lets a NativeFn call back into the evaluator to run a callable
// value (a lambda closure, native function reference, or partial
// application) it received as an argument. Defined here rather than in
// the evaluator package so pkg/builtin can depend on pkg/env without
// creating an import cycle with pkg/eval — pkg/eval is the only package
// that both implements Invoker and imports pkg/builtin.
type Invoker interface {
	// Invoke calls callable with args, returning its result or an error.
	// callable is one of the shapes documented in spec §4.7; for any
	// other value Invoke returns a T1005 error.
	Invoke(callable interface{}, args []interface{}) (interface{}, error)
}

// Environment is one node in the lexical-scope chain (spec §3.5).
type Environment struct {
	parent    *Environment
	root      *Environment
	bindings  map[string]interface{}
	functions map[string]NativeFn
	input     interface{}
	invoker   Invoker
	depth     int
}

// NewRoot creates the root environment for a compiled expression's
// evaluation: input is the top-level data, invoker is the evaluator that
// will service Invoke calls from native higher-order functions.
func NewRoot(input interface{}, invoker Invoker) *Environment {
	e := &Environment{
		input:     input,
		invoker:   invoker,
		bindings:  make(map[string]interface{}),
		functions: make(map[string]NativeFn),
	}
	e.root = e
	return e
}

// Child creates a nested scope with new input data but the same lookup
// chain for bindings/functions (spec §3.5: "created ... per path-step /
// block / lambda invocation during evaluation").
func (e *Environment) Child(input interface{}) *Environment {
	return &Environment{
		parent: e,
		root:   e.root,
		input:  input,
		depth:  e.depth + 1,
	}
}

// Input returns this environment's current context data ($).
func (e *Environment) Input() interface{} {
	return e.input
}

// RootInput returns the topmost environment's input ($$).
func (e *Environment) RootInput() interface{} {
	return e.root.input
}

// Root returns the topmost environment in the chain.
func (e *Environment) Root() *Environment {
	return e.root
}

// Depth returns the nesting depth: 0 for a root, one more per Child. The
// evaluator's recursion guard keeps its own counter and does not read it.
func (e *Environment) Depth() int {
	return e.depth
}

// Invoker returns the evaluator back-reference, inherited from the root.
func (e *Environment) Invoker() Invoker {
	return e.root.invoker
}

// Bind sets a variable in this scope. Lambda parameter binding, `:=`
// assignment, and internal labels ($i, $name for IndexBind/Focus, parent
// slot labels) all go through this.
func (e *Environment) Bind(name string, value interface{}) {
	if e.bindings == nil {
		e.bindings = make(map[string]interface{})
	}
	e.bindings[name] = value
}

// Lookup walks the chain outward; the nearest binding wins (spec §3.5).
func (e *Environment) Lookup(name string) (interface{}, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if v, ok := cur.bindings[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// RegisterFunction adds a native function, keyed by its name without the
// leading `$` (an expression's `$sum` looks up "sum"). The registry is additive (spec §3.5) and typically populated on
// the root environment; a child environment's own registration shadows
// an outer one of the same name without mutating it.
func (e *Environment) RegisterFunction(name string, fn NativeFn) {
	if e.functions == nil {
		e.functions = make(map[string]NativeFn)
	}
	e.functions[name] = fn
}

// LookupFunction walks the chain outward for a native function.
func (e *Environment) LookupFunction(name string) (NativeFn, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if fn, ok := cur.functions[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

func (e *Environment) String() string {
	return fmt.Sprintf("Environment{depth=%d, bindings=%d}", e.depth, len(e.bindings))
}
