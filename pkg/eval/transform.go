package eval

import (
	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/env"
)

// applyTransform implements the `|path|update[,delete]|` operator (spec
// §4.8). data is deep-cloned first since Objects and arrays are
// reference types in this implementation — the path expression is then
// matched against the clone, so every matched node is an alias into the
// clone rather than into the caller's original value, and mutating it
// in place is safe.
func (s *state) applyTransform(node *ast.Node, data interface{}, e *env.Environment) (interface{}, error) {
	clone := ast.CloneValue(data)

	matched, err := s.evalNode(node.LHS, Tuple{Value: clone, Context: clone, Env: e})
	if err != nil {
		return nil, err
	}

	for _, item := range normalizeToItems(ast.Flatten(matched)) {
		obj, ok := item.(*ast.Object)
		if !ok {
			continue
		}
		if err := s.applyTransformToObject(node, obj, e); err != nil {
			return nil, err
		}
	}
	return clone, nil
}

func (s *state) applyTransformToObject(node *ast.Node, obj *ast.Object, e *env.Environment) error {
	updateTuple := Tuple{Value: obj, Context: obj, Env: e}

	update, err := s.evalNode(node.RHS, updateTuple)
	if err != nil {
		return err
	}
	update = ast.Flatten(update)
	updateObj, ok := update.(*ast.Object)
	if !ok {
		return ast.NewError(ast.ErrTransformUpdateNotObj, "the update clause of a transform must evaluate to an object")
	}
	for _, k := range updateObj.Keys {
		v, _ := updateObj.Get(k)
		obj.Set(k, v)
	}

	if node.Else == nil {
		return nil
	}
	del, err := s.evalNode(node.Else, updateTuple)
	if err != nil {
		return err
	}
	del = ast.Flatten(del)
	switch v := del.(type) {
	case string:
		obj.Delete(v)
	case []interface{}:
		for _, name := range v {
			s, ok := name.(string)
			if !ok {
				return ast.NewError(ast.ErrTransformDeleteNotArr, "the delete clause of a transform must evaluate to a string or array of strings")
			}
			obj.Delete(s)
		}
	default:
		return ast.NewError(ast.ErrTransformDeleteNotArr, "the delete clause of a transform must evaluate to a string or array of strings")
	}
	return nil
}
