package builtin

import (
	"strings"
	"unicode/utf8"

	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/env"
)

// registerString installs the string functions, grounded on the
// teacher's fnString/fnLength/fnSubstring/fnUppercase/... family.
func registerString(root *env.Environment) {
	root.RegisterFunction("string", fnString)
	root.RegisterFunction("length", fnLength)
	root.RegisterFunction("substring", fnSubstring)
	root.RegisterFunction("uppercase", fnUppercase)
	root.RegisterFunction("lowercase", fnLowercase)
	root.RegisterFunction("trim", fnTrim)
	root.RegisterFunction("contains", fnContains)
	root.RegisterFunction("split", fnSplit)
	root.RegisterFunction("join", fnJoin)
	root.RegisterFunction("pad", fnPad)
	root.RegisterFunction("substringBefore", fnSubstringBefore)
	root.RegisterFunction("substringAfter", fnSubstringAfter)
}

func fnString(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	return stringify(args[0]), nil
}

func fnLength(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	return float64(utf8.RuneCountInString(s)), nil
}

func fnSubstring(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) < 2 || args[0] == nil {
		return nil, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	start, err := toNumber(args[1])
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	length := len(runes)
	startIdx := normalizeIndex(int(start), length)
	end := length
	if len(args) > 2 && args[2] != nil {
		n, err := toNumber(args[2])
		if err != nil {
			return nil, err
		}
		end = startIdx + int(n)
	}
	if startIdx < 0 {
		startIdx = 0
	}
	if end > length {
		end = length
	}
	if end < startIdx {
		return "", nil
	}
	return string(runes[startIdx:end]), nil
}

func normalizeIndex(i, length int) int {
	if i < 0 {
		if -i > length {
			return 0
		}
		return length + i
	}
	return i
}

func fnUppercase(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	return strings.ToUpper(s), nil
}

func fnLowercase(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	return strings.ToLower(s), nil
}

func fnTrim(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(s)
	return strings.Join(fields, " "), nil
}

func fnContains(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) < 2 || args[0] == nil {
		return false, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	switch needle := args[1].(type) {
	case string:
		return strings.Contains(s, needle), nil
	case *regexValue:
		return needle.Regexp.MatchString(s), nil
	default:
		return nil, ast.NewError(ast.ErrRegexArgInvalid, "contains: second argument must be a string or regex")
	}
}

func fnSplit(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) < 2 || args[0] == nil {
		return nil, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	limit := -1
	if len(args) > 2 && args[2] != nil {
		n, err := toNumber(args[2])
		if err != nil {
			return nil, err
		}
		limit = int(n)
	}
	var parts []string
	switch sep := args[1].(type) {
	case string:
		if sep == "" {
			for _, r := range s {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(s, sep)
		}
	case *regexValue:
		parts = sep.Regexp.Split(s, -1)
	default:
		return nil, ast.NewError(ast.ErrRegexArgInvalid, "split: second argument must be a string or regex")
	}
	if limit >= 0 && limit < len(parts) {
		parts = parts[:limit]
	}
	out := make([]interface{}, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out, nil
}

func fnJoin(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 {
		return nil, nil
	}
	items := asArray(args[0])
	sep := ""
	if len(args) > 1 && args[1] != nil {
		s, err := toStringValue(args[1])
		if err != nil {
			return nil, err
		}
		sep = s
	}
	parts := make([]string, len(items))
	for i, item := range items {
		s, err := toStringValue(item)
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}
	return strings.Join(parts, sep), nil
}

func fnPad(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) < 2 || args[0] == nil {
		return nil, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	width, err := toNumber(args[1])
	if err != nil {
		return nil, err
	}
	pad := " "
	if len(args) > 2 && args[2] != nil {
		p, err := toStringValue(args[2])
		if err != nil {
			return nil, err
		}
		if p != "" {
			pad = p
		}
	}
	n := int(width)
	runeLen := utf8.RuneCountInString(s)
	if n >= 0 && runeLen >= n {
		return s, nil
	}
	if n < 0 && runeLen >= -n {
		return s, nil
	}
	need := n - runeLen
	left := n < 0
	if left {
		need = -n - runeLen
	}
	var b strings.Builder
	padRunes := []rune(pad)
	for i := 0; i < need; i++ {
		b.WriteRune(padRunes[i%len(padRunes)])
	}
	if left {
		return b.String() + s, nil
	}
	return s + b.String(), nil
}

func fnSubstringBefore(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) < 2 || args[0] == nil {
		return nil, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	sep, err := toStringValue(args[1])
	if err != nil {
		return nil, err
	}
	idx := strings.Index(s, sep)
	if idx < 0 {
		return s, nil
	}
	return s[:idx], nil
}

func fnSubstringAfter(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) < 2 || args[0] == nil {
		return nil, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	sep, err := toStringValue(args[1])
	if err != nil {
		return nil, err
	}
	idx := strings.Index(s, sep)
	if idx < 0 {
		return s, nil
	}
	return s[idx+len(sep):], nil
}
