package builtin

import (
	"encoding/base64"
	"net/url"

	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/env"
)

// registerEncoding installs the encode/decode functions, grounded on
// the teacher's fnBase64Encode/fnBase64Decode/fnEncodeUrl/fnDecodeUrl/
// fnEncodeUrlComponent/fnDecodeUrlComponent.
func registerEncoding(root *env.Environment) {
	root.RegisterFunction("base64encode", fnBase64Encode)
	root.RegisterFunction("base64decode", fnBase64Decode)
	root.RegisterFunction("encodeUrl", fnEncodeURL)
	root.RegisterFunction("decodeUrl", fnDecodeURL)
	root.RegisterFunction("encodeUrlComponent", fnEncodeURLComponent)
	root.RegisterFunction("decodeUrlComponent", fnDecodeURLComponent)
}

func fnBase64Encode(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.EncodeToString([]byte(s)), nil
}

func fnBase64Decode(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	out, decErr := base64.StdEncoding.DecodeString(s)
	if decErr != nil {
		return nil, ast.NewError(ast.ErrBase64Invalid, "base64decode: invalid base64 input")
	}
	return string(out), nil
}

func fnEncodeURL(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	u, parseErr := url.Parse(s)
	if parseErr != nil {
		return nil, ast.NewError(ast.ErrArgumentNotString, "encodeUrl: invalid URL")
	}
	return u.String(), nil
}

func fnDecodeURL(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	out, decErr := url.QueryUnescape(s)
	if decErr != nil {
		return nil, ast.NewError(ast.ErrArgumentNotString, "decodeUrl: invalid percent-encoding")
	}
	return out, nil
}

func fnEncodeURLComponent(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	return url.QueryEscape(s), nil
}

func fnDecodeURLComponent(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	s, err := toStringValue(args[0])
	if err != nil {
		return nil, err
	}
	out, decErr := url.QueryUnescape(s)
	if decErr != nil {
		return nil, ast.NewError(ast.ErrArgumentNotString, "decodeUrlComponent: invalid percent-encoding")
	}
	return out, nil
}
