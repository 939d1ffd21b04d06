package eval

import (
	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/callable"
)

// implicitMode controls whether/when evalCall prepends a value the call
// site itself didn't spell out as an argument.
type implicitMode int

const (
	implicitNone implicitMode = iota
	// implicitAlways always prepends (the chain operator: `x ~> $f(a)`
	// is `$f(x, a)` regardless of how many explicit arguments `$f` was
	// already given).
	implicitAlways
	// implicitIfEmpty prepends only when the call spelled out no
	// arguments at all (a function used bare as a path step, e.g.
	// `Phone.$uppercase()` meaning `$uppercase(Phone)`) — a call that
	// already supplies its own arguments is left alone.
	implicitIfEmpty
)

// evalCall evaluates a NodeFunctionCall/NodePartial: resolve the callee,
// evaluate each argument (a bare NodePlaceholder becomes a
// callable.Placeholder and its position is recorded), then either build
// a callable.PartialApplication (if any placeholder was present) or
// invoke the callee directly.
func (s *state) evalCall(node *ast.Node, t Tuple, implicit interface{}, mode implicitMode) (interface{}, error) {
	callee, err := s.resolveCallee(node, t)
	if err != nil {
		return nil, err
	}

	args := make([]interface{}, 0, len(node.Body))
	var placeholders []int
	for i, argNode := range node.Body {
		if argNode.Kind == ast.NodePlaceholder {
			args = append(args, callable.Placeholder{})
			placeholders = append(placeholders, i)
			continue
		}
		v, err := s.evalNode(argNode, t)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	switch mode {
	case implicitAlways:
		args = append([]interface{}{implicit}, args...)
	case implicitIfEmpty:
		if len(args) == 0 {
			args = append(args, implicit)
		}
	}

	if len(placeholders) > 0 {
		return &callable.PartialApplication{
			Callee:               callee,
			FrozenArgs:           args,
			PlaceholderPositions: placeholders,
			Env:                  t.Env,
		}, nil
	}
	return s.invoke(callee, args)
}

func (s *state) resolveCallee(node *ast.Node, t Tuple) (interface{}, error) {
	if node.CalleeStr != "" {
		if fn, ok := t.Env.LookupFunction(node.CalleeStr); ok {
			return &callable.NativeFunctionRef{Name: node.CalleeStr, Fn: fn, Env: t.Env}, nil
		}
		return nil, ast.NewError(ast.ErrNotCallable, node.CalleeStr+" is not a function")
	}
	return s.evalNode(node.Callee, t)
}

// invoke runs a callable value (spec §4.7) with args, implementing
// env.Invoker so native higher-order functions can call back into
// evaluation (see env.Invoker's doc comment).
func (s *state) invoke(c interface{}, args []interface{}) (interface{}, error) {
	switch v := c.(type) {
	case *callable.LambdaClosure:
		child := v.CapturedEnv.Child(v.CapturedEnv.Input())
		for i, name := range v.Node.Params {
			if i < len(args) {
				child.Bind(name, args[i])
			}
		}
		body := Tuple{Value: child.Input(), Context: child.Input(), Env: child}
		return s.evalNode(v.Node.RHS, body)

	case *callable.NativeFunctionRef:
		return v.Fn(args, v.Env.Input(), v.Env)

	case *callable.PartialApplication:
		return s.invoke(v.Callee, v.Fill(args))

	case *composedCallable:
		result, err := s.invoke(v.first, args)
		if err != nil {
			return nil, err
		}
		return s.invoke(v.second, []interface{}{result})

	default:
		return nil, ast.NewError(ast.ErrNotCallable, "value is not callable")
	}
}

func isCallable(v interface{}) bool {
	switch v.(type) {
	case *callable.LambdaClosure, *callable.NativeFunctionRef, *callable.PartialApplication, *composedCallable:
		return true
	default:
		return false
	}
}

// composedCallable is the callable produced by `f ~> g` when both sides
// are themselves callables rather than one side being piped data: the
// composition calls f with the invocation's arguments, then passes its
// single result to g (spec's chain operator, function-composition
// reading).
type composedCallable struct {
	first, second interface{}
}

func composeCallables(first, second interface{}) *composedCallable {
	return &composedCallable{first: first, second: second}
}
