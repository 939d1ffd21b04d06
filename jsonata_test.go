package jsonata_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/secondlayerco/jsonata"
	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/env"
)

func TestEvalConvenience(t *testing.T) {
	data := map[string]interface{}{"name": "Alice", "age": 30.0}

	tests := []struct {
		name, query string
		want        interface{}
	}{
		{"field access", "name", "Alice"},
		{"arithmetic", "age + 1", 31.0},
		{"missing field", "nope", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jsonata.Eval(tt.query, data)
			if err != nil {
				t.Fatalf("Eval(%q): %v", tt.query, err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompileAndReuse(t *testing.T) {
	expr, err := jsonata.Compile("$.total")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	ev := jsonata.NewEvaluator()

	for i, data := range []map[string]interface{}{
		{"total": 10.0},
		{"total": 20.0},
	} {
		result, err := ev.Eval(context.Background(), expr, ast.FromGo(data))
		if err != nil {
			t.Fatalf("Eval #%d: %v", i, err)
		}
		want := float64((i + 1) * 10)
		if result != want {
			t.Errorf("Eval #%d: got %v, want %v", i, result, want)
		}
	}
}

func TestMustCompilePanicsOnInvalidQuery(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected MustCompile to panic on an invalid query")
		}
	}()
	jsonata.MustCompile("$.[")
}

func TestEvalWithCustomFunction(t *testing.T) {
	greet := func(args []interface{}, _ interface{}, _ *env.Environment) (interface{}, error) {
		name, _ := args[0].(string)
		return "Hello, " + name + "!", nil
	}
	result, err := jsonata.Eval(`$greet("World")`, nil, jsonata.WithCustomFunction("greet", greet))
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if result != "Hello, World!" {
		t.Errorf("got %v, want %q", result, "Hello, World!")
	}
}

func TestEvalWithContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	_, err := jsonata.EvalWithContext(ctx, "$.name", map[string]interface{}{"name": "Alice"})
	if err == nil {
		t.Fatal("expected a context-deadline error, got nil")
	}
}

func TestEvalStream(t *testing.T) {
	r := strings.NewReader(`{"n":1}{"n":2}{"n":3}`)
	ch, err := jsonata.EvalStream(context.Background(), "n", r)
	if err != nil {
		t.Fatalf("EvalStream: %v", err)
	}

	var got []interface{}
	for res := range ch {
		if res.Err != nil {
			t.Fatalf("stream result error: %v", res.Err)
		}
		got = append(got, res.Value)
	}
	want := []interface{}{1.0, 2.0, 3.0}
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestVersion(t *testing.T) {
	if jsonata.Version() == "" {
		t.Error("Version() returned an empty string")
	}
}
