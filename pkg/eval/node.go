package eval

import (
	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/builtin"
	"github.com/secondlayerco/jsonata/pkg/callable"
)

// evalNode is the main dispatcher: every other evaluation function in
// this package is reached, directly or indirectly, from here. Path-like
// node kinds (Path itself, and every kind that can stand alone as a
// single-step path — Name/Wildcard/Descendant/Filter/Sort/Focus/
// IndexBind) all route through evalPath, since ast.FlattenSteps already
// treats a non-Path node as its own one-element step list — there is no
// need for a second, separate "evaluate a bare step" code path.
func (s *state) evalNode(node *ast.Node, t Tuple) (interface{}, error) {
	if node == nil {
		return nil, nil
	}
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	switch node.Kind {
	case ast.NodeNumber:
		return node.Num, nil
	case ast.NodeString:
		return node.Str, nil
	case ast.NodeBool:
		return node.Bool, nil
	case ast.NodeNull:
		return ast.NullValue, nil
	case ast.NodeRegex:
		return builtin.NewRegexValue(node.Str)

	case ast.NodeContext:
		return t.Value, nil
	case ast.NodeRootContext:
		return t.Env.RootInput(), nil
	case ast.NodeVariable:
		return s.lookupVariable(node.Str, t), nil
	case ast.NodeParent:
		if len(node.ParentLabels) == 0 {
			return nil, nil
		}
		v, _ := t.Env.Lookup(node.ParentLabels[0])
		return v, nil

	case ast.NodePath, ast.NodeName, ast.NodeWildcard, ast.NodeDescendant,
		ast.NodeFilter, ast.NodeSort, ast.NodeFocus, ast.NodeIndexBind:
		return s.evalPath(node, t)

	case ast.NodeArray:
		return s.evalArray(node, t)
	case ast.NodeObject:
		return s.evalObject(node, t)
	case ast.NodeBlock:
		return s.evalBlock(node, t)
	case ast.NodeAssignment:
		val, err := s.evalNode(node.RHS, t)
		if err != nil {
			return nil, err
		}
		t.Env.Bind(node.Str, val)
		return val, nil
	case ast.NodeConditional:
		return s.evalConditional(node, t)

	case ast.NodeUnary:
		return s.evalUnary(node, t)
	case ast.NodeBinary:
		return s.evalBinary(node, t)
	case ast.NodeRange:
		return s.evalRange(node, t)

	case ast.NodeLambda:
		return &callable.LambdaClosure{Node: node, CapturedEnv: t.Env}, nil
	case ast.NodeFunctionCall, ast.NodePartial:
		return s.evalCall(node, t, nil, implicitNone)
	case ast.NodePlaceholder:
		return callable.Placeholder{}, nil

	case ast.NodeTransform:
		return s.applyTransform(node, t.Value, t.Env)

	default:
		return nil, ast.NewError(ast.ErrSyntaxError, "evaluator: unhandled node kind")
	}
}

func (s *state) lookupVariable(name string, t Tuple) interface{} {
	if v, ok := t.Env.Lookup(name); ok {
		return v
	}
	if fn, ok := t.Env.LookupFunction(name); ok {
		return &callable.NativeFunctionRef{Name: name, Fn: fn, Env: t.Env}
	}
	return nil
}

func (s *state) evalArray(node *ast.Node, t Tuple) (interface{}, error) {
	items := make([]interface{}, 0, len(node.Body))
	for _, el := range node.Body {
		v, err := s.evalNode(el, t)
		if err != nil {
			return nil, err
		}
		v = ast.Flatten(v)
		if el.Kind == ast.NodeRange {
			// A range's integers are spliced into the enclosing array; an
			// empty range adds nothing.
			if arr, ok := v.([]interface{}); ok {
				items = append(items, arr...)
			}
			continue
		}
		if v == nil {
			v = ast.NullValue
		}
		items = append(items, v)
	}
	return items, nil
}

func (s *state) evalBlock(node *ast.Node, t Tuple) (interface{}, error) {
	child := t.Env.Child(t.Env.Input())
	var result interface{}
	for _, stmt := range node.Body {
		var err error
		result, err = s.evalNode(stmt, Tuple{Value: t.Value, Context: t.Context, Env: child})
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *state) evalConditional(node *ast.Node, t Tuple) (interface{}, error) {
	cond, err := s.evalNode(node.LHS, t)
	if err != nil {
		return nil, err
	}
	if builtin.Truthy(ast.Flatten(cond)) {
		return s.evalNode(node.RHS, t)
	}
	if node.Else != nil {
		return s.evalNode(node.Else, t)
	}
	return nil, nil
}
