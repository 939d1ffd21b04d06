package builtin

import (
	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/callable"
	"github.com/secondlayerco/jsonata/pkg/env"
)

// registerHOF installs the higher-order array functions, grounded on
// the teacher's fnMap/fnFilter/fnReduce/fnSingle/fnSort, adapted to
// invoke callables through env.Invoker rather than the teacher's direct
// evaluator reference (see callable.ParamCount for arity trimming).
func registerHOF(root *env.Environment) {
	root.RegisterFunction("map", fnMapFn)
	root.RegisterFunction("filter", fnFilterFn)
	root.RegisterFunction("reduce", fnReduceFn)
	root.RegisterFunction("single", fnSingleFn)
	root.RegisterFunction("sort", fnSortFn)
}

// callArgs trims the (item, index, array) trio to however many
// parameters the callable actually declares, falling back to passing
// all three for natives/partials whose arity isn't statically known.
func callArgs(c interface{}, full []interface{}) []interface{} {
	n, known := callable.ParamCount(c)
	if !known || n >= len(full) {
		return full
	}
	return full[:n]
}

func fnMapFn(args []interface{}, _ interface{}, e *env.Environment) (interface{}, error) {
	if len(args) < 2 {
		return nil, nil
	}
	items := asArray(args[0])
	out := make([]interface{}, 0, len(items))
	for i, item := range items {
		full := []interface{}{item, float64(i), items}
		result, err := invokeCallable(e, args[1], callArgs(args[1], full))
		if err != nil {
			return nil, err
		}
		if !ast.IsUndefined(result) {
			out = append(out, result)
		}
	}
	return out, nil
}

func fnFilterFn(args []interface{}, _ interface{}, e *env.Environment) (interface{}, error) {
	if len(args) < 2 {
		return nil, nil
	}
	items := asArray(args[0])
	var out []interface{}
	for i, item := range items {
		full := []interface{}{item, float64(i), items}
		result, err := invokeCallable(e, args[1], callArgs(args[1], full))
		if err != nil {
			return nil, err
		}
		if truthy(result) {
			out = append(out, item)
		}
	}
	return out, nil
}

func fnReduceFn(args []interface{}, _ interface{}, e *env.Environment) (interface{}, error) {
	if len(args) < 2 {
		return nil, nil
	}
	items := asArray(args[0])
	if n, known := callable.ParamCount(args[1]); known && n < 2 {
		return nil, ast.NewError(ast.ErrReduceInsufficient, "reduce: the function must accept at least two arguments")
	}
	var acc interface{}
	start := 0
	if len(args) > 2 {
		acc = args[2]
	} else {
		if len(items) == 0 {
			return nil, nil
		}
		acc = items[0]
		start = 1
	}
	for i := start; i < len(items); i++ {
		full := []interface{}{acc, items[i], float64(i), items}
		result, err := invokeCallable(e, args[1], callArgs(args[1], full))
		if err != nil {
			return nil, err
		}
		acc = result
	}
	return acc, nil
}

func fnSingleFn(args []interface{}, _ interface{}, e *env.Environment) (interface{}, error) {
	items := asArray(firstArg(args))
	if len(args) < 2 || args[1] == nil {
		if len(items) != 1 {
			return nil, ast.NewError(ast.ErrArgumentNotArray, "single: array does not contain exactly one value")
		}
		return items[0], nil
	}
	var match interface{}
	found := false
	for i, item := range items {
		full := []interface{}{item, float64(i), items}
		result, err := invokeCallable(e, args[1], callArgs(args[1], full))
		if err != nil {
			return nil, err
		}
		if truthy(result) {
			if found {
				return nil, ast.NewError(ast.ErrArgumentNotArray, "single: more than one value matched the predicate")
			}
			match = item
			found = true
		}
	}
	if !found {
		return nil, ast.NewError(ast.ErrArgumentNotArray, "single: no value matched the predicate")
	}
	return match, nil
}

// fnSortFn implements $sort(array, comparator?): without a comparator,
// values are ordered using the default number/string comparison (spec
// §4.5.5); with one, the comparator is invoked pairwise and must return
// a truthy "a should sort after b".
func fnSortFn(args []interface{}, _ interface{}, e *env.Environment) (interface{}, error) {
	items := append([]interface{}{}, asArray(firstArg(args))...)
	if len(args) < 2 || args[1] == nil {
		if err := sortNumbersOrStrings(items); err != nil {
			return nil, err
		}
		return items, nil
	}
	comparator := args[1]
	var sortErr error
	mergeSort(items, func(a, b interface{}) bool {
		if sortErr != nil {
			return false
		}
		result, err := invokeCallable(e, comparator, []interface{}{a, b})
		if err != nil {
			sortErr = err
			return false
		}
		return truthy(result)
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return items, nil
}

// mergeSort is a stable sort driven by an "a after b" predicate, used so
// the user-supplied comparator only ever sees adjacent-order questions
// (matching the teacher's $sort contract of a function returning
// true/false rather than an Go-style three-way comparator).
func mergeSort(items []interface{}, after func(a, b interface{}) bool) {
	n := len(items)
	if n < 2 {
		return
	}
	buf := make([]interface{}, n)
	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			mid := i + width
			if mid > n {
				mid = n
			}
			end := i + 2*width
			if end > n {
				end = n
			}
			merge(items, buf, i, mid, end, after)
		}
		copy(items, buf[:n])
	}
}

func merge(items, buf []interface{}, lo, mid, hi int, after func(a, b interface{}) bool) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if after(items[i], items[j]) {
			buf[k] = items[j]
			j++
		} else {
			buf[k] = items[i]
			i++
		}
		k++
	}
	for i < mid {
		buf[k] = items[i]
		i++
		k++
	}
	for j < hi {
		buf[k] = items[j]
		j++
		k++
	}
}
