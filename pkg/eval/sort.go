package eval

import (
	"sort"

	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/builtin"
	"github.com/secondlayerco/jsonata/pkg/env"
)

// evalSortStep implements `target^(term, ...)` (spec §4.5.5): the target
// (step.LHS) is applied to the incoming value first, and every sort
// term's key expression is evaluated once per item up front (so the
// comparator itself never re-evaluates an expression), then the items
// are ordered by the first term, falling through to later terms to
// break ties, each honoring its own Ascending direction. Mixed
// number/string keys across two items surface the same
// ErrSortMixedTypes/ErrSortNotComparable errors $sort's default
// comparator raises (builtin.CompareDefault), so both sort mechanisms
// agree on what "comparable" means.
func (s *state) evalSortStep(step *ast.Node, value interface{}, e *env.Environment) (interface{}, error) {
	targets, err := s.applyStepToValue(step.LHS, value, e)
	if err != nil {
		return nil, err
	}
	items := make([]interface{}, len(targets))
	for i, r := range targets {
		items[i] = r.Value
	}
	keys := make([][]interface{}, len(items))
	for i, item := range items {
		row := make([]interface{}, len(step.Terms))
		for j, term := range step.Terms {
			k, err := s.evalNode(term.Expr, Tuple{Value: item, Context: item, Env: e})
			if err != nil {
				return nil, err
			}
			row[j] = ast.Flatten(k)
		}
		keys[i] = row
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}

	var sortErr error
	sort.SliceStable(order, func(a, b int) bool {
		if sortErr != nil {
			return false
		}
		ai, bi := order[a], order[b]
		for j, term := range step.Terms {
			ak, bk := keys[ai][j], keys[bi][j]
			if builtin.DeepEqual(ak, bk) {
				continue
			}
			less, err := builtin.CompareDefault(ak, bk)
			if err != nil {
				sortErr = err
				return false
			}
			if !term.Ascending {
				less = !less
			}
			return less
		}
		return false
	})
	if sortErr != nil {
		return nil, sortErr
	}

	out := make([]interface{}, len(items))
	for i, idx := range order {
		out[i] = items[idx]
	}
	return ast.NewSequence(out, step.KeepArray), nil
}
