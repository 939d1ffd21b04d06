package eval

import (
	"math"

	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/builtin"
)

// maxRangeSize bounds how many elements a `..` range literal may
// materialize, matching the reference implementation's own guard
// against accidentally building an enormous array (spec's D2014).
const maxRangeSize = 10000000

func (s *state) evalUnary(node *ast.Node, t Tuple) (interface{}, error) {
	v, err := s.evalNode(node.LHS, t)
	if err != nil {
		return nil, err
	}
	v = ast.Flatten(v)
	if v == nil {
		return nil, nil
	}
	n, ok := v.(float64)
	if !ok {
		return nil, ast.NewError(ast.ErrArithmeticNonNumber, "the unary minus operator requires a number")
	}
	return -n, nil
}

func (s *state) evalBinary(node *ast.Node, t Tuple) (interface{}, error) {
	switch node.Ident {
	case "and":
		left, err := s.evalNode(node.LHS, t)
		if err != nil {
			return nil, err
		}
		if !builtin.Truthy(ast.Flatten(left)) {
			return false, nil
		}
		right, err := s.evalNode(node.RHS, t)
		if err != nil {
			return nil, err
		}
		return builtin.Truthy(ast.Flatten(right)), nil

	case "or":
		left, err := s.evalNode(node.LHS, t)
		if err != nil {
			return nil, err
		}
		if builtin.Truthy(ast.Flatten(left)) {
			return true, nil
		}
		right, err := s.evalNode(node.RHS, t)
		if err != nil {
			return nil, err
		}
		return builtin.Truthy(ast.Flatten(right)), nil

	case "??":
		left, err := s.evalNode(node.LHS, t)
		if err != nil {
			return nil, err
		}
		left = ast.Flatten(left)
		if !ast.IsUndefined(left) {
			return left, nil
		}
		return s.evalNode(node.RHS, t)

	case "?:":
		left, err := s.evalNode(node.LHS, t)
		if err != nil {
			return nil, err
		}
		left = ast.Flatten(left)
		if builtin.Truthy(left) {
			return left, nil
		}
		return s.evalNode(node.RHS, t)

	case "~>":
		return s.evalApply(node, t)

	case "in":
		left, err := s.evalNode(node.LHS, t)
		if err != nil {
			return nil, err
		}
		right, err := s.evalNode(node.RHS, t)
		if err != nil {
			return nil, err
		}
		left, right = ast.Flatten(left), ast.Flatten(right)
		if left == nil {
			return false, nil
		}
		for _, item := range normalizeToItems(right) {
			if builtin.DeepEqual(left, item) {
				return true, nil
			}
		}
		return false, nil

	case "=", "!=":
		left, err := s.evalNode(node.LHS, t)
		if err != nil {
			return nil, err
		}
		right, err := s.evalNode(node.RHS, t)
		if err != nil {
			return nil, err
		}
		left, right = ast.Flatten(left), ast.Flatten(right)
		if left == nil || right == nil {
			// spec §4.4: both `=` and `!=` yield false, not Undefined,
			// when either side is absent.
			return false, nil
		}
		eq := builtin.DeepEqual(left, right)
		if node.Ident == "!=" {
			return !eq, nil
		}
		return eq, nil

	case "<", "<=", ">", ">=":
		left, err := s.evalNode(node.LHS, t)
		if err != nil {
			return nil, err
		}
		right, err := s.evalNode(node.RHS, t)
		if err != nil {
			return nil, err
		}
		left, right = ast.Flatten(left), ast.Flatten(right)
		if left == nil || right == nil {
			return nil, nil
		}
		less, err := builtin.CompareDefault(left, right)
		if err != nil {
			return nil, err
		}
		equal := builtin.DeepEqual(left, right)
		switch node.Ident {
		case "<":
			return less, nil
		case "<=":
			return less || equal, nil
		case ">":
			greater, err := builtin.CompareDefault(right, left)
			if err != nil {
				return nil, err
			}
			return greater, nil
		default: // ">="
			greater, err := builtin.CompareDefault(right, left)
			if err != nil {
				return nil, err
			}
			return greater || equal, nil
		}

	case "&":
		left, err := s.evalNode(node.LHS, t)
		if err != nil {
			return nil, err
		}
		right, err := s.evalNode(node.RHS, t)
		if err != nil {
			return nil, err
		}
		return builtin.Stringify(ast.Flatten(left)) + builtin.Stringify(ast.Flatten(right)), nil

	case "..":
		return s.evalRange(node, t)

	default:
		return s.evalArithmetic(node, t)
	}
}

func (s *state) evalArithmetic(node *ast.Node, t Tuple) (interface{}, error) {
	left, err := s.evalNode(node.LHS, t)
	if err != nil {
		return nil, err
	}
	right, err := s.evalNode(node.RHS, t)
	if err != nil {
		return nil, err
	}
	left, right = ast.Flatten(left), ast.Flatten(right)
	if left == nil || right == nil {
		return nil, nil
	}
	a, ok := left.(float64)
	if !ok {
		return nil, ast.NewError(ast.ErrArithmeticNonNumber, "the left side of "+node.Ident+" must be a number")
	}
	b, ok := right.(float64)
	if !ok {
		return nil, ast.NewError(ast.ErrArithmeticNonNumber, "the right side of "+node.Ident+" must be a number")
	}

	var result float64
	switch node.Ident {
	case "+":
		result = a + b
	case "-":
		result = a - b
	case "*":
		result = a * b
	case "/":
		result = a / b
	case "%":
		result = math.Mod(a, b)
	default:
		return nil, ast.NewError(ast.ErrSyntaxError, "unknown binary operator: "+node.Ident)
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return nil, ast.NewError(ast.ErrNumberNotFinite, "the result of the arithmetic expression is not a finite number")
	}
	return result, nil
}

func (s *state) evalRange(node *ast.Node, t Tuple) (interface{}, error) {
	left, err := s.evalNode(node.LHS, t)
	if err != nil {
		return nil, err
	}
	right, err := s.evalNode(node.RHS, t)
	if err != nil {
		return nil, err
	}
	left, right = ast.Flatten(left), ast.Flatten(right)
	if left == nil || right == nil {
		return nil, nil
	}
	start, ok := left.(float64)
	if !ok || start != math.Trunc(start) {
		return nil, ast.NewError(ast.ErrRangeStartNotInteger, "the left side of the range operator must be an integer")
	}
	end, ok := right.(float64)
	if !ok || end != math.Trunc(end) {
		return nil, ast.NewError(ast.ErrRangeEndNotInteger, "the right side of the range operator must be an integer")
	}
	if end < start {
		return nil, nil
	}
	if end-start+1 > maxRangeSize {
		return nil, ast.NewError(ast.ErrRangeTooLarge, "range size exceeds the maximum allowed number of items")
	}
	out := make([]interface{}, 0, int(end-start)+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	return out, nil
}

// evalApply implements `~>` (spec's chain operator). Three shapes:
// piping into a transform literal applies the transform to the piped
// value rather than the evaluator's own context (grounded on the
// teacher's evalApply, which special-cases NodeTransform the same way);
// piping one callable into another composes them, λx.g(f(x)); anything
// else pipes the left value in as the right side's first argument.
func (s *state) evalApply(node *ast.Node, t Tuple) (interface{}, error) {
	if node.RHS.Kind == ast.NodeTransform {
		left, err := s.evalNode(node.LHS, t)
		if err != nil {
			return nil, err
		}
		return s.applyTransform(node.RHS, ast.Flatten(left), t.Env)
	}

	left, err := s.evalNode(node.LHS, t)
	if err != nil {
		return nil, err
	}
	left = ast.Flatten(left)

	if isCallable(left) {
		right, err := s.evalNode(node.RHS, t)
		if err != nil {
			return nil, err
		}
		if isCallable(right) {
			return composeCallables(left, right), nil
		}
	}

	if node.RHS.Kind == ast.NodeFunctionCall || node.RHS.Kind == ast.NodePartial {
		return s.evalCall(node.RHS, t, left, implicitAlways)
	}

	callee, err := s.evalNode(node.RHS, t)
	if err != nil {
		return nil, err
	}
	if !isCallable(callee) {
		return nil, ast.NewError(ast.ErrChainNotCallable, "the right side of the chain operator must be callable")
	}
	return s.invoke(callee, []interface{}{left})
}
