package builtin

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/env"
)

// registerNumeric installs the numeric functions, grounded on the
// teacher's fnAbs/fnFloor/fnCeil/fnRound/fnSqrt/fnPower/fnRandom, plus
// the number-formatting family (fnFormatNumber/fnFormatBase/
// fnParseInteger).
func registerNumeric(root *env.Environment) {
	root.RegisterFunction("abs", fnAbs)
	root.RegisterFunction("floor", fnFloor)
	root.RegisterFunction("ceil", fnCeil)
	root.RegisterFunction("round", fnRound)
	root.RegisterFunction("sqrt", fnSqrt)
	root.RegisterFunction("power", fnPower)
	root.RegisterFunction("random", fnRandom)
	root.RegisterFunction("formatNumber", fnFormatNumber)
	root.RegisterFunction("formatBase", fnFormatBase)
	root.RegisterFunction("parseInteger", fnParseInteger)
}

func fnAbs(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	n, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}
	return math.Abs(n), nil
}

func fnFloor(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	n, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}
	return math.Floor(n), nil
}

func fnCeil(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	n, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}
	return math.Ceil(n), nil
}

// fnRound implements JSONata's "round half to even" rule, matching the
// teacher's use of banker's rounding for $round.
func fnRound(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	n, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}
	precision := 0
	if len(args) > 1 && args[1] != nil {
		p, err := toNumber(args[1])
		if err != nil {
			return nil, err
		}
		precision = int(p)
	}
	scale := math.Pow(10, float64(precision))
	return math.RoundToEven(n*scale) / scale, nil
}

func fnSqrt(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	n, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, ast.NewError(ast.ErrNegativeSqrt, "sqrt: argument must not be negative")
	}
	return math.Sqrt(n), nil
}

func fnPower(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) < 2 || args[0] == nil {
		return nil, nil
	}
	base, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}
	exp, err := toNumber(args[1])
	if err != nil {
		return nil, err
	}
	result := math.Pow(base, exp)
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return nil, ast.NewError(ast.ErrNumberNotFinite, "power: result is not a finite number")
	}
	return result, nil
}

func fnRandom(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	return rand.Float64(), nil
}

// fnFormatNumber implements the XPath/XQuery F&O "picture string" a
// subset of decimal-digit-pattern support, covering the grouping
// separator, minimum digits, and decimal-point placement most callers
// need; exotic picture features (percent, per-mille, exponents) are not
// supported.
func fnFormatNumber(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) < 2 || args[0] == nil {
		return nil, nil
	}
	n, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}
	picture, err := toStringValue(args[1])
	if err != nil {
		return nil, err
	}
	return formatWithPicture(n, picture), nil
}

func formatWithPicture(n float64, picture string) string {
	intPart, fracDigits := splitPicture(picture)
	grouped := len(intPart) > 0 && containsRune(intPart, ',')
	minFrac := len(fracDigits)
	s := strconv.FormatFloat(math.Abs(n), 'f', minFrac, 64)
	whole, frac := s, ""
	if idx := indexOf(s, '.'); idx >= 0 {
		whole, frac = s[:idx], s[idx+1:]
	}
	if grouped {
		whole = groupDigits(whole)
	}
	out := whole
	if minFrac > 0 {
		out += "." + frac
	}
	if n < 0 {
		out = "-" + out
	}
	return out
}

func splitPicture(picture string) (intPart, fracPart string) {
	idx := indexOf(picture, '.')
	if idx < 0 {
		return picture, ""
	}
	return picture[:idx], picture[idx+1:]
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

func indexOf(s string, r rune) int {
	for i, c := range s {
		if c == r {
			return i
		}
	}
	return -1
}

func groupDigits(whole string) string {
	if len(whole) <= 3 {
		return whole
	}
	var out []byte
	rem := len(whole) % 3
	if rem == 0 {
		rem = 3
	}
	out = append(out, whole[:rem]...)
	for i := rem; i < len(whole); i += 3 {
		out = append(out, ',')
		out = append(out, whole[i:i+3]...)
	}
	return string(out)
}

func fnFormatBase(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	n, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}
	radix := 10
	if len(args) > 1 && args[1] != nil {
		r, err := toNumber(args[1])
		if err != nil {
			return nil, err
		}
		radix = int(r)
	}
	if radix < 2 || radix > 36 {
		return nil, ast.NewError(ast.ErrRadixOutOfRange, "formatBase: radix must be between 2 and 36")
	}
	return strconv.FormatInt(int64(math.Round(n)), radix), nil
}

func fnParseInteger(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, ast.NewError(ast.ErrArgumentNotNumber, "parseInteger: cannot parse \""+s+"\" as an integer")
	}
	return float64(n), nil
}
