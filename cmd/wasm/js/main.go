//go:build js && wasm

// Command jsonata-wasm-js is the WebAssembly entrypoint for browser and Node.js.
//
// It exposes a global `jsonata` object with the following API:
//
//	jsonata.version()               → string
//	jsonata.eval(query, dataJSON)   → resultJSON  (throws on error)
//	jsonata.compile(query)          → { eval(dataJSON) → resultJSON }  (throws on error)
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o jsonata.wasm ./cmd/wasm/js/
//
// Usage in Node.js:
//
//	const { load } = require('./jsonata_wasm')
//	const jn = await load()
//	const result = jn.eval('$.name', JSON.stringify({name:'Alice'}))
//	console.log(JSON.parse(result)) // 'Alice'
//
// Usage in browser:
//
//	<script src="wasm_exec.js"></script>
//	<script type="module">
//	  import { load } from './jsonata_wasm.mjs'
//	  const jn = await load()
//	  console.log(JSON.parse(jn.eval('$.x', JSON.stringify({x:42}))))
//	</script>
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/secondlayerco/jsonata"
	"github.com/secondlayerco/jsonata/pkg/ast"
)

// jsThrow constructs a JS Error for msg, discards it, and panics with msg
// itself.
func jsThrow(msg string) {
	js.Global().Get("Error").New(msg)
	panic(msg)
}

// jsEval implements jsonata.eval(query, dataJSON) → resultJSON.
func jsEval(_ js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		jsThrow("jsonata.eval requires 2 arguments: query (string) and data (JSON string)")
	}
	query := args[0].String()
	dataJSON := args[1].String()

	data, err := ast.FromJSON([]byte(dataJSON))
	if err != nil {
		jsThrow(fmt.Sprintf("jsonata.eval: invalid data JSON: %v", err))
	}

	ev := jsonata.NewEvaluator(jsonata.WithConcurrency(false))
	expr, err := jsonata.Compile(query)
	if err != nil {
		jsThrow(fmt.Sprintf("jsonata.eval: %v", err))
	}
	result, err := ev.Eval(context.Background(), expr, data)
	if err != nil {
		jsThrow(fmt.Sprintf("jsonata.eval: %v", err))
	}

	out, err := marshalJSON(result)
	if err != nil {
		jsThrow(fmt.Sprintf("jsonata.eval: marshal result: %v", err))
	}
	return out
}

// jsCompile implements jsonata.compile(query) → { eval(dataJSON) → resultJSON }.
func jsCompile(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("jsonata.compile requires 1 argument: query (string)")
	}
	query := args[0].String()

	expr, err := jsonata.Compile(query)
	if err != nil {
		jsThrow(fmt.Sprintf("jsonata.compile: %v", err))
	}

	ev := jsonata.NewEvaluator(jsonata.WithConcurrency(false))

	evalFn := js.FuncOf(func(_ js.Value, innerArgs []js.Value) interface{} {
		if len(innerArgs) < 1 {
			jsThrow("compiled.eval requires 1 argument: data (JSON string)")
		}
		data, e := ast.FromJSON([]byte(innerArgs[0].String()))
		if e != nil {
			jsThrow(fmt.Sprintf("compiled.eval: invalid data JSON: %v", e))
		}
		r, e := ev.Eval(context.Background(), expr, data)
		if e != nil {
			jsThrow(fmt.Sprintf("compiled.eval: %v", e))
		}
		out, _ := marshalJSON(r)
		return out
	})

	obj := js.ValueOf(map[string]interface{}{"eval": evalFn})
	return obj
}

func marshalJSON(v interface{}) (string, error) {
	b, err := json.Marshal(ast.ToGo(ast.Flatten(v)))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func main() {
	api := map[string]interface{}{
		"eval":    js.FuncOf(jsEval),
		"compile": js.FuncOf(jsCompile),
		"version": js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
			return jsonata.Version()
		}),
	}
	js.Global().Set("jsonata", js.ValueOf(api))

	// Block forever — the JS event loop owns execution from here.
	select {}
}
