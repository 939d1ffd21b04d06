package builtin

import (
	"time"

	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/env"
)

// registerDatetime installs the timestamp functions, grounded on the
// teacher's fnNow/fnMillis/fnFromMillis/fnToMillis. $now and $millis are
// intentionally non-deterministic and are the one place this library
// departs from pure-function semantics, matching the teacher's own
// treatment of them.
func registerDatetime(root *env.Environment) {
	root.RegisterFunction("now", fnNow)
	root.RegisterFunction("millis", fnMillis)
	root.RegisterFunction("fromMillis", fnFromMillis)
	root.RegisterFunction("toMillis", fnToMillis)
}

func fnNow(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	layout := time.RFC3339Nano
	if len(args) > 0 && args[0] != nil {
		if s, ok := args[0].(string); ok {
			layout = xpathPictureToGoLayout(s)
		}
	}
	return time.Now().UTC().Format(layout), nil
}

func fnMillis(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	return float64(time.Now().UnixMilli()), nil
}

func fnFromMillis(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	ms, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}
	layout := time.RFC3339Nano
	if len(args) > 1 && args[1] != nil {
		if s, ok := args[1].(string); ok {
			layout = xpathPictureToGoLayout(s)
		}
	}
	return time.UnixMilli(int64(ms)).UTC().Format(layout), nil
}

func fnToMillis(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	layout := time.RFC3339Nano
	if len(args) > 1 && args[1] != nil {
		if p, ok := args[1].(string); ok {
			layout = xpathPictureToGoLayout(p)
		}
	}
	t, parseErr := time.Parse(layout, s)
	if parseErr != nil {
		t, parseErr = time.Parse(time.RFC3339, s)
	}
	if parseErr != nil {
		return nil, ast.NewError(ast.ErrDateFormatInvalid, "toMillis: cannot parse timestamp \""+s+"\"")
	}
	return float64(t.UnixMilli()), nil
}

// xpathPictureToGoLayout maps the handful of whole XPath date/time
// picture strings a caller is likely to use to Go's reference-time
// layout; any other picture yields the RFC3339Nano layout.
func xpathPictureToGoLayout(picture string) string {
	switch picture {
	case "[Y0001]-[M01]-[D01]T[H01]:[m01]:[s01].[f001]Z":
		return time.RFC3339Nano
	case "[Y0001]-[M01]-[D01]":
		return "2006-01-02"
	case "[Y0001]-[M01]-[D01]T[H01]:[m01]:[s01]Z":
		return "2006-01-02T15:04:05Z07:00"
	default:
		return time.RFC3339Nano
	}
}
