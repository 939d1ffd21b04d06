package eval_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/eval"
	"github.com/secondlayerco/jsonata/pkg/parser"
)

func run(t *testing.T, query string, data interface{}) interface{} {
	t.Helper()
	expr, err := parser.Parse(query)
	if err != nil {
		t.Fatalf("Parse(%q): %v", query, err)
	}
	ev := eval.New()
	result, err := ev.Eval(context.Background(), expr, ast.FromGo(data))
	if err != nil {
		t.Fatalf("Eval(%q): %v", query, err)
	}
	return ast.ToGo(result)
}

func runExpectError(t *testing.T, query string, data interface{}) error {
	t.Helper()
	expr, err := parser.Parse(query)
	if err != nil {
		return err
	}
	ev := eval.New()
	_, err = ev.Eval(context.Background(), expr, ast.FromGo(data))
	return err
}

func TestEvalLiterals(t *testing.T) {
	tests := []struct {
		name, query string
		want        interface{}
	}{
		{"string", `"hello"`, "hello"},
		{"number int", "42", 42.0},
		{"number float", "3.14", 3.14},
		{"bool true", "true", true},
		{"bool false", "false", false},
		{"null", "null", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := run(t, tt.query, nil)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvalPathNavigation(t *testing.T) {
	data := map[string]interface{}{
		"name": "John",
		"address": map[string]interface{}{
			"city": "NYC",
		},
		"phones": []interface{}{"111", "222"},
	}

	tests := []struct {
		name, query string
		want        interface{}
	}{
		{"field", "name", "John"},
		{"nested field", "address.city", "NYC"},
		{"missing field", "nope", nil},
		{"array projection", "phones", []interface{}{"111", "222"}},
		{"index filter", "phones[0]", "111"},
		{"negative index", "phones[-1]", "222"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := run(t, tt.query, data)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvalWildcardAndDescendant(t *testing.T) {
	data := map[string]interface{}{
		"a": map[string]interface{}{"x": 1.0, "y": 2.0},
	}
	got := run(t, "a.*", data)
	want := []interface{}{1.0, 2.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if got := run(t, "**.y", data); got != 2.0 {
		t.Errorf("descendant: got %v, want 2", got)
	}
}

func TestEvalFilterPredicate(t *testing.T) {
	data := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"price": 50.0},
			map[string]interface{}{"price": 150.0},
			map[string]interface{}{"price": 200.0},
		},
	}
	got := run(t, "items[price > 100].price", data)
	want := []interface{}{150.0, 200.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEvalSort(t *testing.T) {
	data := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"name": "b", "price": 2.0},
			map[string]interface{}{"name": "a", "price": 3.0},
			map[string]interface{}{"name": "c", "price": 1.0},
		},
	}
	got := run(t, "items^(price).name", data)
	want := []interface{}{"c", "b", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	gotDesc := run(t, "items^(>price).name", data)
	wantDesc := []interface{}{"a", "b", "c"}
	if !reflect.DeepEqual(gotDesc, wantDesc) {
		t.Errorf("got %v, want %v", gotDesc, wantDesc)
	}
}

func TestEvalParentOperator(t *testing.T) {
	data := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"name": "widget"},
		},
		"currency": "USD",
	}
	got := run(t, "items.(name & \"/\" & %.currency)", data)
	want := "widget/USD"
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

// TestEvalParentOperatorDepthTwo exercises a path deep enough that "one
// step back" and "two steps back" disagree: % must bind to O, the step
// immediately enclosing it, not to the root.
func TestEvalParentOperatorDepthTwo(t *testing.T) {
	data := map[string]interface{}{
		"A": map[string]interface{}{
			"O":        map[string]interface{}{"name": "widget"},
			"currency": "USD",
		},
	}
	got := run(t, "A.O.(name & \"/\" & %.currency)", data)
	want := "widget/USD"
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEvalFocusAndIndexBind(t *testing.T) {
	data := map[string]interface{}{
		"items": []interface{}{"a", "b", "c"},
	}
	got := run(t, "items#$i[$i=1]", data)
	if got != "b" {
		t.Errorf("got %v, want b", got)
	}

	if got := run(t, `items@$v[$v="c"]`, data); got != "c" {
		t.Errorf("focus: got %v, want c", got)
	}
}

func TestEvalVariableBindingAndBlock(t *testing.T) {
	got := run(t, "($x := 5; $x * 2)", nil)
	if got != 10.0 {
		t.Errorf("got %v, want 10", got)
	}
}

func TestEvalConditional(t *testing.T) {
	got := run(t, `1 = 1 ? "yes" : "no"`, nil)
	if got != "yes" {
		t.Errorf("got %v, want yes", got)
	}
}

func TestEvalLambdaAndCall(t *testing.T) {
	got := run(t, "(function($x){$x*$x})(5)", nil)
	if got != 25.0 {
		t.Errorf("got %v, want 25", got)
	}
}

func TestEvalChainOperator(t *testing.T) {
	data := []interface{}{3.0, 1.0, 2.0}
	got := run(t, "$ ~> $sort() ~> $reverse()", data)
	want := []interface{}{3.0, 2.0, 1.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEvalObjectConstructor(t *testing.T) {
	got := run(t, `{"a": 1, "b": 2}`, nil)
	want := map[string]interface{}{"a": 1.0, "b": 2.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEvalObjectGrouping(t *testing.T) {
	data := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"type": "fruit", "name": "apple"},
			map[string]interface{}{"type": "fruit", "name": "pear"},
			map[string]interface{}{"type": "veg", "name": "carrot"},
		},
	}
	got := run(t, "items{type: name}", data)
	want := map[string]interface{}{
		"fruit": []interface{}{"apple", "pear"},
		"veg":   "carrot",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// TestEvalObjectGroupingAggregatesPerGroup checks that the value
// expression runs once per group against all of that group's items,
// not once per item — an aggregate like $sum must see the whole group.
func TestEvalObjectGroupingAggregatesPerGroup(t *testing.T) {
	data := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"type": "fruit", "price": 1.0},
			map[string]interface{}{"type": "fruit", "price": 2.0},
			map[string]interface{}{"type": "veg", "price": 3.0},
		},
	}
	got := run(t, "items{type: $sum(price)}", data)
	want := map[string]interface{}{
		"fruit": 3.0,
		"veg":   3.0,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEvalTransform(t *testing.T) {
	data := map[string]interface{}{
		"order": map[string]interface{}{
			"id":     1.0,
			"status": "pending",
			"secret": "x",
		},
	}
	got := run(t, `order ~> |$|{"status": "shipped"}, "secret"|`, data)
	want := map[string]interface{}{"id": 1.0, "status": "shipped"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	// the original input must be untouched (transform clones first).
	if data["order"].(map[string]interface{})["status"] != "pending" {
		t.Errorf("transform mutated the original input")
	}
}

func TestEvalUndefinedPropagation(t *testing.T) {
	tests := []struct {
		name, query string
	}{
		{"missing + number", "missing + 1"},
		{"missing comparison", "missing > 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := run(t, tt.query, nil)
			if got != nil {
				t.Errorf("got %v, want nil (undefined)", got)
			}
		})
	}
}

func TestEvalEqualityWithUndefinedOperandIsFalse(t *testing.T) {
	tests := []struct {
		name, query string
	}{
		{"equals missing", "missing = 1"},
		{"not-equals missing", "missing != 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := run(t, tt.query, nil)
			if got != false {
				t.Errorf("got %v, want false", got)
			}
		})
	}
}

func TestEvalSumOfEmptyArrayIsUndefined(t *testing.T) {
	got := run(t, "$sum([])", nil)
	if got != nil {
		t.Errorf("got %v, want nil (undefined)", got)
	}
}

func TestEvalArithmeticTypeError(t *testing.T) {
	err := runExpectError(t, `"a" + 1`, nil)
	if err == nil {
		t.Fatal("expected a type error, got nil")
	}
}

func TestEvalRangeOperator(t *testing.T) {
	got := run(t, "[1..5]", nil)
	want := []interface{}{1.0, 2.0, 3.0, 4.0, 5.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEvalCoalesceAndElvis(t *testing.T) {
	if got := run(t, `missing ?? "fallback"`, nil); got != "fallback" {
		t.Errorf("?? got %v", got)
	}
	if got := run(t, `0 ?: "fallback"`, nil); got != "fallback" {
		t.Errorf("?: got %v", got)
	}
}

func TestEvalPartialApplication(t *testing.T) {
	got := run(t, "($add := function($a, $b){$a+$b}; $add5 := $add(5, ?); $add5(3))", nil)
	if got != 8.0 {
		t.Errorf("got %v, want 8", got)
	}
}

func TestEvalMaxDepthGuard(t *testing.T) {
	expr, err := parser.Parse("($f := function($n){$n = 0 ? 0 : $f($n - 1)}; $f(10000))")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ev := eval.New(eval.WithMaxDepth(50))
	_, err = ev.Eval(context.Background(), expr, nil)
	if err == nil {
		t.Fatal("expected a stack-depth error, got nil")
	}
}
