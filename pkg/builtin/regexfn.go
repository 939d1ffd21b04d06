package builtin

import (
	"regexp"

	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/env"
)

// regexValue is the runtime value a `/pattern/flags` literal evaluates
// to (spec §4.2's regex literal): a compiled Go regexp plus enough to
// let $contains/$match/$split/$replace treat it as a first-class value,
// grounded on the teacher's reuse of Go's regexp.Regexp for this.
type regexValue struct {
	Regexp *regexp.Regexp
	Source string
}

// NewRegexValue compiles a JSONata regex literal's body (already
// translated to a Go-compatible `(?ims)pattern` form by the lexer) into
// a callable/comparable runtime value.
func NewRegexValue(pattern string) (*regexValue, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, ast.NewError(ast.ErrRegexArgInvalid, "invalid regular expression: "+err.Error())
	}
	return &regexValue{Regexp: re, Source: pattern}, nil
}

// registerRegex installs the regex-powered functions, grounded on the
// teacher's fnMatch/fnReplace.
func registerRegex(root *env.Environment) {
	root.RegisterFunction("match", fnMatch)
	root.RegisterFunction("replace", fnReplace)
}

func fnMatch(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) < 2 || args[0] == nil {
		return nil, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	re, ok := args[1].(*regexValue)
	if !ok {
		return nil, ast.NewError(ast.ErrRegexArgInvalid, "match: second argument must be a regex")
	}
	limit := -1
	if len(args) > 2 && args[2] != nil {
		n, err := toNumber(args[2])
		if err != nil {
			return nil, err
		}
		limit = int(n)
	}
	matches := re.Regexp.FindAllStringSubmatchIndex(s, -1)
	var out []interface{}
	for i, m := range matches {
		if limit >= 0 && i >= limit {
			break
		}
		out = append(out, matchResult(s, re.Regexp, m))
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func matchResult(s string, re *regexp.Regexp, m []int) *ast.Object {
	obj := ast.NewObject()
	obj.Set("match", s[m[0]:m[1]])
	obj.Set("index", float64(runeIndex(s, m[0])))
	names := re.SubexpNames()
	var groups []interface{}
	for i := 1; i*2 < len(m); i++ {
		if m[i*2] < 0 {
			groups = append(groups, nil)
			continue
		}
		groups = append(groups, s[m[i*2]:m[i*2+1]])
	}
	_ = names
	obj.Set("groups", groups)
	return obj
}

func runeIndex(s string, byteIdx int) int {
	count := 0
	for i := range s {
		if i >= byteIdx {
			break
		}
		count++
	}
	return count
}

func fnReplace(args []interface{}, _ interface{}, e *env.Environment) (interface{}, error) {
	if len(args) < 3 || args[0] == nil {
		return nil, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	switch pattern := args[1].(type) {
	case string:
		repl, err := toStringValue(args[2])
		if err != nil {
			return nil, err
		}
		return replacePlain(s, pattern, repl), nil
	case *regexValue:
		return replaceRegex(s, pattern.Regexp, args[2], e)
	default:
		return nil, ast.NewError(ast.ErrRegexArgInvalid, "replace: second argument must be a string or regex")
	}
}

func replacePlain(s, pattern, repl string) string {
	if pattern == "" {
		return s
	}
	out := ""
	for {
		idx := indexOfSub(s, pattern)
		if idx < 0 {
			out += s
			break
		}
		out += s[:idx] + repl
		s = s[idx+len(pattern):]
	}
	return out
}

func indexOfSub(s, sub string) int {
	n, m := len(s), len(sub)
	if m == 0 || m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == sub {
			return i
		}
	}
	return -1
}

func replaceRegex(s string, re *regexp.Regexp, replacement interface{}, e *env.Environment) (string, error) {
	if replStr, ok := replacement.(string); ok {
		return re.ReplaceAllString(s, translateReplacement(replStr)), nil
	}
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}
	var out []byte
	last := 0
	for _, m := range matches {
		out = append(out, s[last:m[0]]...)
		result, err := invokeCallable(e, replacement, []interface{}{matchResult(s, re, m)})
		if err != nil {
			return "", err
		}
		repl, err := toStringValue(result)
		if err != nil {
			return "", err
		}
		out = append(out, repl...)
		last = m[1]
	}
	out = append(out, s[last:]...)
	return string(out), nil
}

// translateReplacement converts JSONata's `$1`-style backreferences to
// Go regexp's `${1}` form.
func translateReplacement(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '$' && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9' {
			j := i + 1
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			out = append(out, '$', '{')
			out = append(out, s[i+1:j]...)
			out = append(out, '}')
			i = j - 1
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
