// Package eval implements the tree-walking evaluator: the component
// that drives an ast.Expression against input data through a chain of
// env.Environment scopes, producing the JSONata result.
//
// Unlike the teacher's evaluator, which threads a single "current data"
// field through a dynamically-rewound EvalContext (contextBoundValue),
// this evaluator carries a {value, context, environment} tuple through
// every path step (spec §4.5.1): Value is what a step produced,
// Context is the item that drove that step (what `%` binds to, and what
// Focus/IndexBind consult), and Environment is the lexical scope,
// including any ancestor labels bound for this step via
// ast.Node.ParentLabels. Ancestor resolution itself already happened
// statically at parse time (pkg/ast/ancestry.go), so this package never
// needs to walk a live object graph to answer "what is % here" — it
// only has to bind the label the parser already assigned.
package eval

import (
	"context"
	"fmt"
	"time"

	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/builtin"
	"github.com/secondlayerco/jsonata/pkg/callable"
	"github.com/secondlayerco/jsonata/pkg/env"
	"github.com/secondlayerco/jsonata/pkg/lrucache"
)

// Options configures an Evaluator (spec §6.2's functional-options
// configuration surface), grounded on the teacher's EvalOptions.
type Options struct {
	Caching     bool
	CacheSize   int
	Cache       *lrucache.Cache
	Concurrency bool
	MaxDepth    int
	Timeout     time.Duration
	Debug       bool
	Custom      map[string]env.NativeFn
}

// Option mutates Options; functions named WithX build one, matching the
// teacher's configuration idiom.
type Option func(*Options)

func WithCaching(enabled bool) Option { return func(o *Options) { o.Caching = enabled } }

func WithCacheSize(size int) Option { return func(o *Options) { o.CacheSize = size } }

func WithConcurrency(enabled bool) Option { return func(o *Options) { o.Concurrency = enabled } }

func WithMaxDepth(depth int) Option { return func(o *Options) { o.MaxDepth = depth } }

func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }

func WithDebug(enabled bool) Option { return func(o *Options) { o.Debug = enabled } }

// WithCustomFunction registers a user-defined function under name
// (without the leading "$"), mirroring spec §6.3's registration
// contract.
func WithCustomFunction(name string, fn env.NativeFn) Option {
	return func(o *Options) {
		if o.Custom == nil {
			o.Custom = make(map[string]env.NativeFn)
		}
		o.Custom[name] = fn
	}
}

// WithFunctions registers a batch of user-defined functions at once.
func WithFunctions(fns map[string]env.NativeFn) Option {
	return func(o *Options) {
		if o.Custom == nil {
			o.Custom = make(map[string]env.NativeFn, len(fns))
		}
		for name, fn := range fns {
			o.Custom[name] = fn
		}
	}
}

// Evaluator evaluates compiled expressions against data. One Evaluator
// can be reused across many Eval calls; it holds no per-call mutable
// state of its own (spec §6.2).
type Evaluator struct {
	opts  Options
	cache *lrucache.Cache
}

// New creates an Evaluator, applying opts over the teacher's defaults
// (30s timeout, depth 10000, caching off).
func New(opts ...Option) *Evaluator {
	o := Options{MaxDepth: 10000, Timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	var c *lrucache.Cache
	if o.Cache != nil {
		c = o.Cache
	} else if o.Caching {
		size := o.CacheSize
		if size <= 0 {
			size = 256
		}
		c = lrucache.New(size)
	}
	return &Evaluator{opts: o, cache: c}
}

// Cache returns the Evaluator's compiled-expression cache, or nil if
// WithCaching was never enabled — exported so the root facade can reuse
// the same cache for its own Compile-on-demand convenience (spec §6.2).
func (ev *Evaluator) Cache() *lrucache.Cache { return ev.cache }

// rootEnv builds the root lexical scope for one top-level Eval call:
// the native function library plus any user-registered custom
// functions, which take precedence (spec §6.3: "registration is
// additive; a later registration under the same name shadows the
// earlier one within that scope").
func (ev *Evaluator) rootEnv(data interface{}) *env.Environment {
	root := env.NewRoot(data, ev)
	builtin.Register(root)
	for name, fn := range ev.opts.Custom {
		root.RegisterFunction(name, fn)
	}
	return root
}

// Eval evaluates expr against data.
func (ev *Evaluator) Eval(ctx context.Context, expr *ast.Expression, data interface{}) (interface{}, error) {
	return ev.EvalWithBindings(ctx, expr, data, nil)
}

// EvalWithBindings evaluates expr against data with additional
// top-level variable bindings pre-populated in the root scope (e.g. for
// embedding JSONata inside a host that wants to pass parameters).
func (ev *Evaluator) EvalWithBindings(ctx context.Context, expr *ast.Expression, data interface{}, bindings map[string]interface{}) (interface{}, error) {
	if expr == nil || expr.Root == nil {
		return nil, fmt.Errorf("jsonata: invalid expression")
	}
	if ev.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ev.opts.Timeout)
		defer cancel()
	}
	root := ev.rootEnv(data)
	for name, value := range bindings {
		root.Bind(name, value)
	}
	s := &state{ctx: ctx, maxDepth: ev.opts.MaxDepth}
	tuple := Tuple{Value: data, Context: data, Env: root}
	result, err := s.evalNode(expr.Root, tuple)
	if err != nil {
		return nil, err
	}
	return finalize(result), nil
}

// finalize applies spec §4.6's result-normalization rule: any surviving
// *ast.Sequence collapses, Undefined stays Go nil, and ast.Null (the
// internal "this really is JSON null" sentinel, kept distinct from
// Undefined throughout evaluation) becomes plain nil at the boundary —
// matching how encoding/json already represents a JSON null as an
// untyped nil interface{}.
func finalize(v interface{}) interface{} {
	return nullToNil(ast.Flatten(v))
}

func nullToNil(v interface{}) interface{} {
	switch val := v.(type) {
	case ast.Null:
		return nil
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = nullToNil(item)
		}
		return out
	case *ast.Object:
		for _, k := range val.Keys {
			val.Values[k] = nullToNil(val.Values[k])
		}
		return val
	default:
		return v
	}
}

// Invoke implements env.Invoker, letting native higher-order functions
// ($map, $filter, $reduce, ...) call back into evaluation without
// pkg/builtin importing this package (see env.Invoker's doc comment).
func (ev *Evaluator) Invoke(c interface{}, args []interface{}) (interface{}, error) {
	s := &state{ctx: context.Background(), maxDepth: ev.opts.MaxDepth}
	return s.invoke(c, args)
}

// state carries the per-top-level-Eval machinery that isn't part of the
// lexical Environment: the cancellation context and a recursion-depth
// counter (spec §6.2 MaxDepth, grounded on the teacher's
// withNewRecurseDepthPtr).
type state struct {
	ctx      context.Context
	maxDepth int
	depth    int
}

func (s *state) enter() error {
	if s.ctx.Err() != nil {
		return ast.NewError(ast.ErrStackOverflow, "evaluation cancelled: "+s.ctx.Err().Error())
	}
	s.depth++
	if s.maxDepth > 0 && s.depth > s.maxDepth {
		return ast.NewError(ast.ErrStackOverflow, "maximum recursion depth exceeded")
	}
	return nil
}

func (s *state) leave() { s.depth-- }

// Tuple is the path-evaluation unit (spec §4.5.1).
type Tuple struct {
	Value   interface{}
	Context interface{}
	Env     *env.Environment
}

// bindParentLabels binds any ParentSlot labels the ancestry resolver
// assigned to step onto a child of base, using context as the value (the
// tuple that drove this step, i.e. the preceding tuple's Context) —
// this is the one generic rule that replaces per-kind ancestor handling
// (spec §4.3/§4.5.1).
func bindParentLabels(step *ast.Node, base *env.Environment, context interface{}) *env.Environment {
	if len(step.ParentLabels) == 0 {
		return base
	}
	child := base.Child(base.Input())
	for _, label := range step.ParentLabels {
		child.Bind(label, context)
	}
	return child
}
