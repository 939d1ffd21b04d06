package builtin

import (
	"math"

	"github.com/secondlayerco/jsonata/pkg/env"
)

// registerAggregate installs the numeric-aggregation functions, grounded
// on the teacher's fnSum/fnCount/fnAverage/fnMax/fnMin.
func registerAggregate(root *env.Environment) {
	root.RegisterFunction("sum", fnSum)
	root.RegisterFunction("count", fnCount)
	root.RegisterFunction("average", fnAverage)
	root.RegisterFunction("max", fnMax)
	root.RegisterFunction("min", fnMin)
}

func fnSum(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	items := asArray(firstArg(args))
	if len(items) == 0 {
		return nil, nil
	}
	var total float64
	for _, item := range items {
		n, err := toNumber(item)
		if err != nil {
			return nil, err
		}
		total += n
	}
	return total, nil
}

func fnCount(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	return float64(len(asArray(firstArg(args)))), nil
}

func fnAverage(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	items := asArray(firstArg(args))
	if len(items) == 0 {
		return nil, nil
	}
	var total float64
	for _, item := range items {
		n, err := toNumber(item)
		if err != nil {
			return nil, err
		}
		total += n
	}
	return total / float64(len(items)), nil
}

func fnMax(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	items := asArray(firstArg(args))
	if len(items) == 0 {
		return nil, nil
	}
	max := math.Inf(-1)
	for _, item := range items {
		n, err := toNumber(item)
		if err != nil {
			return nil, err
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}

func fnMin(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	items := asArray(firstArg(args))
	if len(items) == 0 {
		return nil, nil
	}
	min := math.Inf(1)
	for _, item := range items {
		n, err := toNumber(item)
		if err != nil {
			return nil, err
		}
		if n < min {
			min = n
		}
	}
	return min, nil
}

func firstArg(args []interface{}) interface{} {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}
