// Package callable holds the three runtime representations of a
// JSONata "function value" (spec §4.7): a lambda closure, a reference to
// a native function, and a partial application. They live in their own
// package (rather than pkg/eval) so pkg/builtin's higher-order functions
// ($map, $filter, $reduce, ...) can type-switch on them without
// importing the evaluator, which would create an import cycle.
package callable

import (
	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/env"
)

// LambdaClosure is the runtime value of a `function($a, $b) { ... }`
// literal: the Lambda AST node plus the environment alive at its
// definition site (grounded on the teacher's evaluator.Lambda, spread
// across this package and ast.Node per spec §4.7).
type LambdaClosure struct {
	Node        *ast.Node
	CapturedEnv *env.Environment
}

// NativeFunctionRef is what a bare native function name evaluates to
// when used as a value rather than called directly — e.g. passed to
// `$map` as `$map(arr, $uppercase)`.
type NativeFunctionRef struct {
	Name string
	Fn   env.NativeFn
	Env  *env.Environment
}

// Placeholder is the sentinel produced by a bare `?` argument in a
// function call, marking that position for later filling by a partial
// application.
type Placeholder struct{}

// PartialApplication is the callable produced when a function call has
// one or more Placeholder arguments (spec §4.5.7). Invoking it fills
// each placeholder position, in order, from the arguments supplied at
// invocation time, and forwards the rest (the frozen, non-placeholder
// arguments, untouched) to Callee.
type PartialApplication struct {
	Callee               interface{} // LambdaClosure, NativeFunctionRef, or another PartialApplication
	FrozenArgs           []interface{}
	PlaceholderPositions []int
	Env                  *env.Environment
}

// Fill produces the concrete argument list for invoking Callee, given
// the arguments passed at the partial application's own call site.
func (p *PartialApplication) Fill(suppliedArgs []interface{}) []interface{} {
	out := make([]interface{}, len(p.FrozenArgs))
	copy(out, p.FrozenArgs)
	for i, pos := range p.PlaceholderPositions {
		if i < len(suppliedArgs) {
			out[pos] = suppliedArgs[i]
		}
	}
	return out
}

// ParamCount reports how many parameters a callable declares, used by
// $reduce (spec §6.3: "requires a callable accepting at least two
// parameters, else D3050") and by HOF argument trimming. Native
// functions and partial applications do not declare a fixed arity here;
// callers fall back to passing every argument.
func ParamCount(c interface{}) (int, bool) {
	switch v := c.(type) {
	case *LambdaClosure:
		return len(v.Node.Params), true
	default:
		return 0, false
	}
}
