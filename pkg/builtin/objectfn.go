package builtin

import (
	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/env"
)

// registerObject installs the object-inspection and construction
// functions, grounded on the teacher's fnEach/fnSift/fnKeys/fnLookup/
// fnMerge/fnSpread/fnError/fnAssert.
func registerObject(root *env.Environment) {
	root.RegisterFunction("each", fnEach)
	root.RegisterFunction("sift", fnSift)
	root.RegisterFunction("keys", fnKeys)
	root.RegisterFunction("lookup", fnLookup)
	root.RegisterFunction("merge", fnMerge)
	root.RegisterFunction("spread", fnSpread)
	root.RegisterFunction("error", fnError)
	root.RegisterFunction("assert", fnAssert)
}

func fnEach(args []interface{}, _ interface{}, e *env.Environment) (interface{}, error) {
	if len(args) < 2 || args[0] == nil {
		return nil, nil
	}
	obj, ok := args[0].(*ast.Object)
	if !ok {
		return nil, ast.NewError(ast.ErrArgumentNotObject, "each: first argument must be an object")
	}
	var out []interface{}
	for _, k := range obj.Keys {
		v, _ := obj.Get(k)
		result, err := invokeCallable(e, args[1], []interface{}{v, k})
		if err != nil {
			return nil, err
		}
		if !ast.IsUndefined(result) {
			out = append(out, result)
		}
	}
	return out, nil
}

func fnSift(args []interface{}, _ interface{}, e *env.Environment) (interface{}, error) {
	if len(args) < 2 || args[0] == nil {
		return nil, nil
	}
	obj, ok := args[0].(*ast.Object)
	if !ok {
		return nil, ast.NewError(ast.ErrArgumentNotObject, "sift: first argument must be an object")
	}
	out := ast.NewObject()
	for _, k := range obj.Keys {
		v, _ := obj.Get(k)
		result, err := invokeCallable(e, args[1], []interface{}{v, k, obj})
		if err != nil {
			return nil, err
		}
		if truthy(result) {
			out.Set(k, v)
		}
	}
	if out.Len() == 0 {
		return nil, nil
	}
	return out, nil
}

func fnKeys(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	seen := map[string]bool{}
	var out []interface{}
	collect := func(obj *ast.Object) {
		for _, k := range obj.Keys {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	switch v := args[0].(type) {
	case *ast.Object:
		collect(v)
	case []interface{}:
		for _, item := range v {
			if obj, ok := item.(*ast.Object); ok {
				collect(obj)
			}
		}
	default:
		return nil, ast.NewError(ast.ErrArgumentNotObject, "keys: argument must be an object or array of objects")
	}
	return out, nil
}

func fnLookup(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) < 2 || args[0] == nil {
		return nil, nil
	}
	key, err := toStringValue(args[1])
	if err != nil {
		return nil, err
	}
	var out []interface{}
	lookupOne := func(obj *ast.Object) {
		if v, ok := obj.Get(key); ok {
			out = append(out, v)
		}
	}
	switch v := args[0].(type) {
	case *ast.Object:
		lookupOne(v)
	case []interface{}:
		for _, item := range v {
			if obj, ok := item.(*ast.Object); ok {
				lookupOne(obj)
			}
		}
	default:
		return nil, nil
	}
	return ast.NewSequence(out, false).Collapse(), nil
}

func fnMerge(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	items := asArray(args[0])
	out := ast.NewObject()
	for _, item := range items {
		obj, ok := item.(*ast.Object)
		if !ok {
			return nil, ast.NewError(ast.ErrArgumentNotObject, "merge: argument must be an array of objects")
		}
		for _, k := range obj.Keys {
			v, _ := obj.Get(k)
			out.Set(k, v)
		}
	}
	return out, nil
}

func fnSpread(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	var objs []*ast.Object
	switch v := args[0].(type) {
	case *ast.Object:
		objs = []*ast.Object{v}
	case []interface{}:
		for _, item := range v {
			if obj, ok := item.(*ast.Object); ok {
				objs = append(objs, obj)
			}
		}
	default:
		return args[0], nil
	}
	out := make([]interface{}, 0, len(objs))
	for _, obj := range objs {
		for _, k := range obj.Keys {
			v, _ := obj.Get(k)
			single := ast.NewObject()
			single.Set(k, v)
			out = append(out, single)
		}
	}
	return out, nil
}

func fnError(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	msg := "$error() function evaluated"
	if len(args) > 0 && args[0] != nil {
		if s, ok := args[0].(string); ok {
			msg = s
		}
	}
	return nil, ast.NewError(ast.ErrUserThrown, msg)
}

func fnAssert(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 {
		return nil, nil
	}
	if !truthy(args[0]) {
		msg := "$assert() statement failed"
		if len(args) > 1 && args[1] != nil {
			if s, ok := args[1].(string); ok {
				msg = s
			}
		}
		return nil, ast.NewError(ast.ErrAssertionFailed, msg)
	}
	return nil, nil
}
