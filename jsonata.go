// Package jsonata provides an embeddable Go implementation of the
// JSONata query and transformation language.
//
// # Quick Start
//
//	// Simple evaluation
//	result, err := jsonata.Eval("$.name", data)
//
//	// Compile once, evaluate many times
//	expr, err := jsonata.Compile("$.items[price > 100]")
//	ev := jsonata.NewEvaluator()
//	result1, _ := ev.Eval(ctx, expr, data1)
//	result2, _ := ev.Eval(ctx, expr, data2)
//
//	// With options
//	result, err := jsonata.Eval("$.items", data,
//	    jsonata.WithTimeout(5*time.Second),
//	)
//
// # More Information
//
// For detailed documentation, see:
//   - Parser: github.com/secondlayerco/jsonata/pkg/parser
//   - Evaluator: github.com/secondlayerco/jsonata/pkg/eval
//   - Built-in functions: github.com/secondlayerco/jsonata/pkg/builtin
package jsonata

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/env"
	"github.com/secondlayerco/jsonata/pkg/eval"
	"github.com/secondlayerco/jsonata/pkg/parser"
)

// Version returns the current version of this module.
func Version() string {
	return "v0.1.0-dev"
}

// Compile parses a JSONata expression for repeated evaluation. The
// returned Expression is immutable and safe for concurrent use across
// many Eval calls (spec §3.6, §6.1).
func Compile(query string) (*ast.Expression, error) {
	return parser.Parse(query)
}

// MustCompile is like Compile but panics if the expression cannot be
// compiled. It simplifies safe initialization of global variables.
func MustCompile(query string) *ast.Expression {
	expr, err := Compile(query)
	if err != nil {
		panic(fmt.Sprintf("jsonata: Compile(%q): %v", query, err))
	}
	return expr
}

// NewEvaluator creates an Evaluator configured by opts. One Evaluator can
// serve many Eval calls; each call registers the native function library
// afresh, and Eval does not consult the WithCaching cache, since it is
// handed an already compiled expression.
func NewEvaluator(opts ...eval.Option) *eval.Evaluator {
	return eval.New(opts...)
}

// Eval is a convenience function that compiles and evaluates an
// expression in a single call, converting data (typically the output of
// encoding/json.Unmarshal into interface{}) into this module's runtime
// representation first.
//
// For repeated evaluations of the same expression, use Compile and
// NewEvaluator instead.
func Eval(query string, data interface{}, opts ...eval.Option) (interface{}, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return EvalWithContext(ctx, query, data, opts...)
}

// EvalWithContext evaluates an expression with a custom context.
func EvalWithContext(ctx context.Context, query string, data interface{}, opts ...eval.Option) (interface{}, error) {
	ev := eval.New(opts...)

	var (
		expr *ast.Expression
		err  error
	)
	if c := ev.Cache(); c != nil {
		expr, err = c.GetOrCompile(query, func() (*ast.Expression, error) {
			return Compile(query)
		})
	} else {
		expr, err = Compile(query)
	}
	if err != nil {
		return nil, err
	}

	result, err := ev.Eval(ctx, expr, ast.FromGo(data))
	if err != nil {
		return nil, err
	}
	return ast.ToGo(result), nil
}

// Option is an alias for eval.Option so callers do not need to import
// the eval package directly.
type Option = eval.Option

// WithCaching re-exports eval.WithCaching for convenience.
func WithCaching(enabled bool) Option { return eval.WithCaching(enabled) }

// WithCacheSize re-exports eval.WithCacheSize for convenience.
func WithCacheSize(size int) Option { return eval.WithCacheSize(size) }

// WithConcurrency re-exports eval.WithConcurrency for convenience.
func WithConcurrency(enabled bool) Option { return eval.WithConcurrency(enabled) }

// WithMaxDepth re-exports eval.WithMaxDepth for convenience.
func WithMaxDepth(depth int) Option { return eval.WithMaxDepth(depth) }

// WithTimeout re-exports eval.WithTimeout for convenience.
func WithTimeout(d time.Duration) Option { return eval.WithTimeout(d) }

// WithDebug re-exports eval.WithDebug for convenience.
func WithDebug(enabled bool) Option { return eval.WithDebug(enabled) }

// WithCustomFunction registers a user-defined function under name
// (without the leading "$"), per the native function contract (spec
// §6.3).
//
// Example:
//
//	result, err := jsonata.Eval(`$greet("World")`, nil,
//	    jsonata.WithCustomFunction("greet", func(args []interface{}, input interface{}, e *env.Environment) (interface{}, error) {
//	        return "Hello, " + args[0].(string) + "!", nil
//	    }),
//	)
func WithCustomFunction(name string, fn env.NativeFn) Option {
	return eval.WithCustomFunction(name, fn)
}

// WithFunctions registers a batch of user-defined functions at once.
func WithFunctions(fns map[string]env.NativeFn) Option {
	return eval.WithFunctions(fns)
}

// StreamResult re-exports eval.StreamResult for callers that only
// import the jsonata package.
type StreamResult = eval.StreamResult

// EvalStream compiles query and evaluates it against each top-level
// JSON value read from r. It is a convenience wrapper around Compile
// and Evaluator.EvalStream — see EvalStream's documentation on
// *eval.Evaluator for the full streaming contract.
func EvalStream(ctx context.Context, query string, r io.Reader, opts ...Option) (<-chan StreamResult, error) {
	expr, err := Compile(query)
	if err != nil {
		return nil, err
	}
	ev := eval.New(opts...)
	return ev.EvalStream(ctx, expr, r)
}
