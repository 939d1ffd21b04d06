package eval

import (
	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/builtin"
	"github.com/secondlayerco/jsonata/pkg/env"
)

// stepResult is one value produced by a step, paired with the scope it
// should be evaluated under for the rest of the pipeline — ordinarily
// the scope passed in, but Focus/IndexBind steps bind a variable that
// differs per item, so each item needs its own child scope.
type stepResult struct {
	Value interface{}
	Env   *env.Environment
}

// evalPath drives one step-by-step tuple pipeline over a Path node
// (spec §4.5.1). ast.FlattenSteps decomposes the (possibly deeply
// nested) Path into an ordered list of steps exactly once; every step
// then runs against every tuple alive at that point, fanning array
// results out into multiple tuples for the next step (the projection
// rule) and binding any ParentSlot labels the step carries onto a
// child scope built from the *preceding* tuple's Context — the one
// generic rule spec §4.3's static resolution needs from the evaluator.
func (s *state) evalPath(node *ast.Node, t Tuple) (interface{}, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	steps := ast.FlattenSteps(node)
	tuples := []Tuple{t}
	for _, step := range steps {
		var next []Tuple
		for _, cur := range tuples {
			stepEnv := bindParentLabels(step, cur.Env, cur.Context)
			results, err := s.applyStepToValue(step, cur.Value, stepEnv)
			if err != nil {
				return nil, err
			}
			for _, r := range results {
				// A regular step's own result becomes the next step's
				// Context as well as its Value (spec §4.5.1: "value =
				// context = result"); Focus is the one exception, since
				// its whole point is to bind a variable without moving
				// what % sees (spec's "Focus keeps context, not value").
				ctx := r.Value
				if step.Kind == ast.NodeFocus {
					ctx = cur.Context
				}
				next = append(next, Tuple{Value: r.Value, Context: ctx, Env: r.Env})
			}
		}
		tuples = next
		if len(tuples) == 0 {
			break
		}
	}

	values := make([]interface{}, 0, len(tuples))
	for _, tp := range tuples {
		values = append(values, tp.Value)
	}
	return ast.NewSequence(values, node.KeepArray).Collapse(), nil
}

// applyStepToValue applies one path step to one input value. Filter and
// Sort steps see the whole array at once (positional predicates like
// `[0]` and sort keys need every element together); every other step
// kind recurses element-by-element over an array input and flattens the
// per-element results back together, which is what lets a plain `.`
// path step implicitly project over an array-valued field.
func (s *state) applyStepToValue(step *ast.Node, value interface{}, e *env.Environment) ([]stepResult, error) {
	if value == nil {
		return nil, nil
	}
	if step.Kind != ast.NodeFilter && step.Kind != ast.NodeSort {
		if arr, ok := value.([]interface{}); ok {
			var out []stepResult
			for _, item := range arr {
				sub, err := s.applyStepToValue(step, item, e)
				if err != nil {
					return nil, err
				}
				out = append(out, sub...)
			}
			return out, nil
		}
	}

	switch step.Kind {
	case ast.NodeFocus:
		return s.evalFocusStep(step, value, e)
	case ast.NodeIndexBind:
		return s.evalIndexBindStep(step, value, e)
	}

	produced, err := s.evalStep(step, value, e)
	if err != nil {
		return nil, err
	}
	if ast.IsUndefined(produced) {
		return nil, nil
	}
	if seq, ok := produced.(*ast.Sequence); ok {
		produced = seq.Collapse()
	}
	if arr, ok := produced.([]interface{}); ok && step.Kind != ast.NodeArray {
		out := make([]stepResult, len(arr))
		for i, v := range arr {
			out[i] = stepResult{Value: v, Env: e}
		}
		return out, nil
	}
	return []stepResult{{Value: produced, Env: e}}, nil
}

// evalStep evaluates a single step against a single (already
// array-flattened) value. Name/Wildcard/Descendant/Filter/Sort get
// dedicated handling (spec §4.5.2-§4.5.5); Focus/IndexBind are handled
// one level up in applyStepToValue (they need to mint a per-item
// scope, which evalStep's plain-value signature can't express);
// anything else (a function call, block, object constructor, nested
// path, ...) appearing as a path step is evaluated as an ordinary
// expression in value's context.
func (s *state) evalStep(step *ast.Node, value interface{}, e *env.Environment) (interface{}, error) {
	switch step.Kind {
	case ast.NodeName:
		return fieldAccess(value, step.Str), nil
	case ast.NodeWildcard:
		return wildcardValues(value), nil
	case ast.NodeDescendant:
		return descendantValues(value), nil
	case ast.NodeFilter:
		return s.evalFilterStep(step, value, e)
	case ast.NodeSort:
		return s.evalSortStep(step, value, e)
	case ast.NodeFunctionCall, ast.NodePartial:
		// A function call used directly as a path step receives this
		// step's value as its only argument when it is written with no
		// explicit arguments (`Phone.$uppercase()`); a call that has
		// arguments (`Account.Order.$sum(Items.Price)`) gets exactly
		// those (implicitIfEmpty; spec's "implicit context argument" rule).
		return s.evalCall(step, Tuple{Value: value, Context: value, Env: e}, value, implicitIfEmpty)
	default:
		return s.evalNode(step, Tuple{Value: value, Context: value, Env: e})
	}
}

func fieldAccess(value interface{}, name string) interface{} {
	obj, ok := value.(*ast.Object)
	if !ok {
		return nil
	}
	v, ok := obj.Get(name)
	if !ok {
		return nil
	}
	return v
}

func wildcardValues(value interface{}) interface{} {
	obj, ok := value.(*ast.Object)
	if !ok {
		return nil
	}
	out := make([]interface{}, 0, obj.Len())
	for _, k := range obj.Keys {
		v, _ := obj.Get(k)
		out = append(out, v)
	}
	return out
}

// descendantValues collects every value reachable below value (not
// including value itself), depth-first, matching `**`'s semantics.
func descendantValues(value interface{}) interface{} {
	var out []interface{}
	var walk func(v interface{})
	walk = func(v interface{}) {
		switch val := v.(type) {
		case *ast.Object:
			for _, k := range val.Keys {
				child, _ := val.Get(k)
				out = append(out, child)
				walk(child)
			}
		case []interface{}:
			for _, item := range val {
				walk(item)
			}
		}
	}
	walk(value)
	return out
}

// normalizeToItems treats a non-array value as the single-element array
// JSONata implicitly wraps it in when iterating item by item (grouping,
// `in`, transform targets) (spec §4.5.5:
// "a filter or sort applied to a singleton behaves as if applied to a
// one-element array").
func normalizeToItems(value interface{}) []interface{} {
	if arr, ok := value.([]interface{}); ok {
		return arr
	}
	return []interface{}{value}
}

// evalFilterStep implements `target[predicate]` (spec §4.5.3-§4.5.4): the
// target (step.LHS) is applied to the incoming value first, then the
// predicate is evaluated once per resulting item in that item's own
// scope, so a `#$i`/`@$v` variable bound by the target is visible to it;
// a numeric result selects that item by position (negative counts from
// the end), any other result is interpreted as a boolean filter via
// JSONata truthiness. An empty `[]` is a Filter with KeepArray set and
// no predicate: every item is kept.
func (s *state) evalFilterStep(step *ast.Node, value interface{}, e *env.Environment) (interface{}, error) {
	items, err := s.applyStepToValue(step.LHS, value, e)
	if err != nil {
		return nil, err
	}
	var out []interface{}
	for i, item := range items {
		if step.RHS == nil {
			out = append(out, item.Value)
			continue
		}
		result, err := s.evalNode(step.RHS, Tuple{Value: item.Value, Context: item.Value, Env: item.Env})
		if err != nil {
			return nil, err
		}
		result = ast.Flatten(result)
		if n, ok := result.(float64); ok {
			target := int(n)
			if target < 0 {
				target += len(items)
			}
			if target == i {
				out = append(out, item.Value)
			}
			continue
		}
		if builtin.Truthy(result) {
			out = append(out, item.Value)
		}
	}
	return ast.NewSequence(out, step.KeepArray), nil
}

// evalFocusStep implements `target@$v` (supplemented feature, no
// grammar precedent in the teacher): target is evaluated as an ordinary
// step, and for each resulting item the focus variable is bound — in a
// scope private to that one item — to the item's own value, so later
// steps and predicates can still refer to "the item at this step" by
// name even after the path has continued past it. Unlike a regular
// step, Focus does not advance what `%` sees: evalPath carries the
// incoming Context forward unchanged for a Focus step rather than
// adopting the step's own result, since naming an item isn't supposed
// to change its place in the ancestry chain.
func (s *state) evalFocusStep(step *ast.Node, value interface{}, e *env.Environment) ([]stepResult, error) {
	results, err := s.applyStepToValue(step.LHS, value, e)
	if err != nil {
		return nil, err
	}
	out := make([]stepResult, len(results))
	for i, r := range results {
		child := r.Env.Child(r.Env.Input())
		child.Bind(step.Str, r.Value)
		out[i] = stepResult{Value: r.Value, Env: child}
	}
	return out, nil
}

// evalIndexBindStep implements `target#$v`: like Focus, but the bound
// variable receives the zero-based position of the item within this
// step's result set rather than the item's value.
func (s *state) evalIndexBindStep(step *ast.Node, value interface{}, e *env.Environment) ([]stepResult, error) {
	results, err := s.applyStepToValue(step.LHS, value, e)
	if err != nil {
		return nil, err
	}
	out := make([]stepResult, len(results))
	for i, r := range results {
		child := r.Env.Child(r.Env.Input())
		child.Bind(step.Str, float64(i))
		out[i] = stepResult{Value: r.Value, Env: child}
	}
	return out, nil
}
