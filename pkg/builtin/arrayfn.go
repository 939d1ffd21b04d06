package builtin

import (
	"math/rand"

	"github.com/secondlayerco/jsonata/pkg/env"
)

// registerArray installs the array-manipulation functions, grounded on
// the teacher's fnAppend/fnReverse/fnDistinct/fnZip/fnShuffle.
func registerArray(root *env.Environment) {
	root.RegisterFunction("append", fnAppend)
	root.RegisterFunction("reverse", fnReverse)
	root.RegisterFunction("distinct", fnDistinct)
	root.RegisterFunction("zip", fnZip)
	root.RegisterFunction("shuffle", fnShuffle)
}

func fnAppend(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) < 2 || args[0] == nil {
		if len(args) == 2 {
			return args[1], nil
		}
		return firstArg(args), nil
	}
	if args[1] == nil {
		return args[0], nil
	}
	out := append([]interface{}{}, asArray(args[0])...)
	out = append(out, asArray(args[1])...)
	return out, nil
}

func fnReverse(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	items := asArray(firstArg(args))
	out := make([]interface{}, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out, nil
}

func fnDistinct(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	items := asArray(firstArg(args))
	var out []interface{}
	for _, item := range items {
		dup := false
		for _, seen := range out {
			if deepEqual(item, seen) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, item)
		}
	}
	return out, nil
}

func fnZip(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 {
		return []interface{}{}, nil
	}
	arrays := make([][]interface{}, len(args))
	minLen := -1
	for i, a := range args {
		arrays[i] = asArray(a)
		if minLen == -1 || len(arrays[i]) < minLen {
			minLen = len(arrays[i])
		}
	}
	out := make([]interface{}, minLen)
	for i := 0; i < minLen; i++ {
		tuple := make([]interface{}, len(arrays))
		for j := range arrays {
			tuple[j] = arrays[j][i]
		}
		out[i] = tuple
	}
	return out, nil
}

func fnShuffle(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	items := append([]interface{}{}, asArray(firstArg(args))...)
	rand.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	return items, nil
}
