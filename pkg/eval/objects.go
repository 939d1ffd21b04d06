package eval

import "github.com/secondlayerco/jsonata/pkg/ast"

// evalObject evaluates both forms sharing the `{...}` grammar: a plain
// object constructor, and the object-grouping form `expr{k:v}` (spec
// §4.6). The two differ in what drives each pair: a plain literal
// evaluates each pair once against the surrounding tuple, while grouping
// first sorts every item the target expression produces into key-based
// groups and only then evaluates each pair's value expression, once per
// group, against that group's own items.
func (s *state) evalObject(node *ast.Node, t Tuple) (interface{}, error) {
	if node.IsGrouping {
		return s.evalObjectGroup(node, t)
	}
	return s.evalObjectLiteral(node, t)
}

func (s *state) evalObjectLiteral(node *ast.Node, t Tuple) (interface{}, error) {
	obj := ast.NewObject()
	for _, pair := range node.Pairs {
		key, err := s.evalNode(pair.Key, t)
		if err != nil {
			return nil, err
		}
		keyStr, ok := ast.Flatten(key).(string)
		if !ok {
			return nil, ast.NewError(ast.ErrNonStringKey, "object constructor keys must evaluate to a string")
		}
		val, err := s.evalNode(pair.Value, t)
		if err != nil {
			return nil, err
		}
		val = ast.Flatten(val)
		if ast.IsUndefined(val) {
			continue
		}
		if _, exists := obj.Get(keyStr); exists {
			return nil, ast.NewError(ast.ErrDuplicateKey, "duplicate key \""+keyStr+"\" in object constructor")
		}
		obj.Set(keyStr, val)
	}
	return obj, nil
}

// groupEntry tracks the raw items that landed under one grouping key,
// plus which pair's value expression owns that key (the first pair to
// produce it).
type groupEntry struct {
	pairIndex int
	items     []interface{}
}

// evalObjectGroup implements `expr{k:v}`: every item produced by expr is
// grouped by key first; each pair's value expression then runs exactly
// once per group, against the group's own items as input (the single
// item if the group has one, else the whole array) — spec §4.6, matching
// the reference implementation's "evaluate v with the group's items as
// input". A group with one contributing item is indistinguishable from a
// plain field.
func (s *state) evalObjectGroup(node *ast.Node, t Tuple) (interface{}, error) {
	target, err := s.evalNode(node.LHS, t)
	if err != nil {
		return nil, err
	}
	items := normalizeToItems(ast.Flatten(target))

	var groupKeys []string
	groups := make(map[string]*groupEntry)

	for _, item := range items {
		itemTuple := Tuple{Value: item, Context: item, Env: t.Env}
		for pairIndex, pair := range node.Pairs {
			key, err := s.evalNode(pair.Key, itemTuple)
			if err != nil {
				return nil, err
			}
			keyStr, ok := ast.Flatten(key).(string)
			if !ok {
				return nil, ast.NewError(ast.ErrNonStringKey, "object grouping keys must evaluate to a string")
			}
			entry, seen := groups[keyStr]
			if !seen {
				entry = &groupEntry{pairIndex: pairIndex}
				groups[keyStr] = entry
				groupKeys = append(groupKeys, keyStr)
			}
			entry.items = append(entry.items, item)
		}
	}

	obj := ast.NewObject()
	for _, key := range groupKeys {
		entry := groups[key]
		var groupInput interface{}
		if len(entry.items) == 1 {
			groupInput = entry.items[0]
		} else {
			groupInput = entry.items
		}
		groupTuple := Tuple{Value: groupInput, Context: groupInput, Env: t.Env}
		val, err := s.evalNode(node.Pairs[entry.pairIndex].Value, groupTuple)
		if err != nil {
			return nil, err
		}
		val = ast.Flatten(val)
		if ast.IsUndefined(val) {
			continue
		}
		obj.Set(key, val)
	}
	return obj, nil
}
