package callable_test

import (
	"reflect"
	"testing"

	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/callable"
)

func TestPartialApplicationFillSinglePlaceholder(t *testing.T) {
	p := &callable.PartialApplication{
		FrozenArgs:           []interface{}{"frozen", callable.Placeholder{}, 5.0},
		PlaceholderPositions: []int{1},
	}
	got := p.Fill([]interface{}{"filled"})
	want := []interface{}{"frozen", "filled", 5.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPartialApplicationFillMultiplePlaceholdersInOrder(t *testing.T) {
	p := &callable.PartialApplication{
		FrozenArgs:           []interface{}{callable.Placeholder{}, "mid", callable.Placeholder{}},
		PlaceholderPositions: []int{0, 2},
	}
	got := p.Fill([]interface{}{"a", "b"})
	want := []interface{}{"a", "mid", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPartialApplicationFillDoesNotMutateFrozenArgs(t *testing.T) {
	frozen := []interface{}{callable.Placeholder{}, "kept"}
	p := &callable.PartialApplication{
		FrozenArgs:           frozen,
		PlaceholderPositions: []int{0},
	}
	p.Fill([]interface{}{"new"})
	if _, ok := frozen[0].(callable.Placeholder); !ok {
		t.Error("Fill must not mutate the PartialApplication's own FrozenArgs slice")
	}
}

func TestParamCountForLambda(t *testing.T) {
	closure := &callable.LambdaClosure{
		Node: &ast.Node{Kind: ast.NodeLambda, Params: []string{"a", "b", "c"}},
	}
	n, ok := callable.ParamCount(closure)
	if !ok || n != 3 {
		t.Errorf("got %d, %v, want 3, true", n, ok)
	}
}

func TestParamCountUnknownForOtherCallables(t *testing.T) {
	ref := &callable.NativeFunctionRef{Name: "uppercase"}
	if _, ok := callable.ParamCount(ref); ok {
		t.Error("ParamCount should report false for a native function reference")
	}
}
