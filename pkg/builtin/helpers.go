// Package builtin implements the native function library native
// functions are invoked through (spec §6.3's contract), grounded on the
// teacher's pkg/evaluator/functions.go fn* implementations, adapted to
// this project's ast.Object/ast.Sequence value model and env.NativeFn
// signature.
//
// The specification (§1, "Out of scope") treats the function library as
// a collaborator the core evaluator only needs the registration/
// invocation contract for; this package is that collaborator, covering
// the aggregation, array, string, type, numeric, object, date/time,
// encoding and regex functions a usable JSONata installation ships.
package builtin

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/env"
)

// asArray normalizes v into a Go slice for iteration: Undefined becomes
// an empty slice, a Sequence is flattened, a scalar becomes a
// single-element slice, and a plain array passes through.
func asArray(v interface{}) []interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case *ast.Sequence:
		return asArray(val.Collapse())
	case []interface{}:
		return val
	default:
		return []interface{}{val}
	}
}

func toNumber(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case string:
		var f float64
		if _, err := fmt.Sscanf(n, "%g", &f); err == nil {
			return f, nil
		}
		return 0, ast.NewError(ast.ErrArithmeticNonNumber, "cannot convert string to number: "+n)
	default:
		return 0, ast.NewError(ast.ErrArithmeticNonNumber, "argument must be a number")
	}
}

func toStringValue(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", ast.NewError(ast.ErrNonStringKey, "argument must be a string")
	}
	return s, nil
}

// stringify renders v using JSONata's `&` concatenation coercion (spec
// §4.4): numbers drop a trailing ".0", booleans/null/undefined become
// their literal words (undefined -> ""), objects/arrays become compact
// JSON.
func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case ast.Null:
		return "null"
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return formatNumberLiteral(val)
	default:
		b, err := json.Marshal(ast.Flatten(val))
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func formatNumberLiteral(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// truthy applies JSONata's truthiness rule (spec §4.4).
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil, ast.Null:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	case []interface{}:
		return len(val) > 0
	case *ast.Object:
		return val.Len() > 0
	case *ast.Sequence:
		return truthy(val.Collapse())
	default:
		return true
	}
}

// deepEqual implements JSONata structural equality (spec §4.4): numeric
// by value, arrays/objects recursively, otherwise Go equality.
func deepEqual(a, b interface{}) bool {
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	case ast.Null:
		_, ok := b.(ast.Null)
		return ok
	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !deepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *ast.Object:
		bv, ok := b.(*ast.Object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.Keys {
			bval, present := bv.Get(k)
			if !present {
				return false
			}
			aval, _ := av.Get(k)
			if !deepEqual(aval, bval) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// invokeCallable calls a callable value (lambda closure, native
// function reference, or partial application) via the environment's
// Invoker back-reference (spec §6.3).
func invokeCallable(e *env.Environment, callable interface{}, args []interface{}) (interface{}, error) {
	invoker := e.Invoker()
	if invoker == nil {
		return nil, ast.NewError(ast.ErrNotCallable, "no evaluator available to invoke callable")
	}
	return invoker.Invoke(callable, args)
}

// sortNumbersOrStrings is shared by $sort's default comparator and the
// sort-operator evaluator (spec §4.5.5's type rules).
func sortNumbersOrStrings(items []interface{}) error {
	var err error
	sort.SliceStable(items, func(i, j int) bool {
		if err != nil {
			return false
		}
		less, e := lessDefault(items[i], items[j])
		if e != nil {
			err = e
			return false
		}
		return less
	})
	return err
}

// Truthy exports truthy for pkg/eval's predicate/boolean-operator
// evaluation, so both packages share one definition of JSONata
// truthiness instead of drifting apart.
func Truthy(v interface{}) bool { return truthy(v) }

// DeepEqual exports deepEqual for pkg/eval's `=`/`!=` operators.
func DeepEqual(a, b interface{}) bool { return deepEqual(a, b) }

// Stringify exports stringify for pkg/eval's `&` concatenation operator.
func Stringify(v interface{}) string { return stringify(v) }

// CompareDefault exports lessDefault for pkg/eval's `<`/`<=`/`>`/`>=`
// operators, which use the same number/string ordering rule as $sort's
// default comparator.
func CompareDefault(a, b interface{}) (bool, error) { return lessDefault(a, b) }

func lessDefault(a, b interface{}) (bool, error) {
	an, aIsNum := a.(float64)
	bn, bIsNum := b.(float64)
	if aIsNum && bIsNum {
		return an < bn, nil
	}
	as, aIsStr := a.(string)
	bs, bIsStr := b.(string)
	if aIsStr && bIsStr {
		return as < bs, nil
	}
	if (aIsNum && bIsStr) || (aIsStr && bIsNum) {
		return false, ast.NewError(ast.ErrSortMixedTypes, "cannot compare number and string")
	}
	return false, ast.NewError(ast.ErrSortNotComparable, "cannot compare values of this type")
}
