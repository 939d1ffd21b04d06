package builtin

import (
	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/callable"
	"github.com/secondlayerco/jsonata/pkg/env"
)

// registerType installs the type-inspection and coercion functions,
// grounded on the teacher's fnType/fnExists/fnNumber/fnBoolean/fnNot.
func registerType(root *env.Environment) {
	root.RegisterFunction("type", fnType)
	root.RegisterFunction("exists", fnExists)
	root.RegisterFunction("number", fnNumber)
	root.RegisterFunction("boolean", fnBoolean)
	root.RegisterFunction("not", fnNot)
}

func fnType(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	switch args[0].(type) {
	case ast.Null:
		return "null", nil
	case bool:
		return "boolean", nil
	case float64:
		return "number", nil
	case string:
		return "string", nil
	case []interface{}:
		return "array", nil
	case *ast.Object:
		return "object", nil
	case *callable.LambdaClosure, *callable.NativeFunctionRef, *callable.PartialApplication:
		return "function", nil
	default:
		return "object", nil
	}
}

func fnExists(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 {
		return false, nil
	}
	return !ast.IsUndefined(args[0]), nil
}

func fnNumber(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	switch v := args[0].(type) {
	case float64:
		return v, nil
	case bool:
		if v {
			return float64(1), nil
		}
		return float64(0), nil
	case string:
		return toNumber(v)
	default:
		return nil, ast.NewError(ast.ErrArgumentNotNumber, "number: argument cannot be cast to a number")
	}
}

func fnBoolean(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	return truthy(args[0]), nil
}

func fnNot(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	return !truthy(args[0]), nil
}
