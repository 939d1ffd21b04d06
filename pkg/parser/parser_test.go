package parser_test

import (
	"testing"

	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/parser"
)

func parse(t *testing.T, src string) *ast.Node {
	t.Helper()
	expr, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	if expr.Root == nil {
		t.Fatalf("Parse(%q): nil root", src)
	}
	return expr.Root
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		src      string
		wantKind ast.NodeKind
	}{
		{"42", ast.NodeNumber},
		{`"hi"`, ast.NodeString},
		{"true", ast.NodeBool},
		{"null", ast.NodeNull},
		{"$", ast.NodeContext},
		{"$$", ast.NodeRootContext},
		{"$x", ast.NodeVariable},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			root := parse(t, tt.src)
			if root.Kind != tt.wantKind {
				t.Errorf("got kind %v, want %v", root.Kind, tt.wantKind)
			}
		})
	}
}

func TestParseNumberValue(t *testing.T) {
	root := parse(t, "3.14")
	if root.Num != 3.14 {
		t.Errorf("got %v, want 3.14", root.Num)
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	// "*" must bind tighter than "+": 1 + 2 * 3 parses as 1 + (2 * 3).
	root := parse(t, "1 + 2 * 3")
	if root.Kind != ast.NodeBinary || root.Ident != "+" {
		t.Fatalf("got top-level %v %q, want Binary +", root.Kind, root.Ident)
	}
	rhs := root.RHS
	if rhs.Kind != ast.NodeBinary || rhs.Ident != "*" {
		t.Fatalf("got rhs %v %q, want Binary *", rhs.Kind, rhs.Ident)
	}
}

func TestParsePathChain(t *testing.T) {
	root := parse(t, "a.b.c")
	if root.Kind != ast.NodePath {
		t.Fatalf("got %v, want NodePath", root.Kind)
	}
}

func TestParseFilterAndFunctionCall(t *testing.T) {
	root := parse(t, "items[price > 100].$uppercase(name)")
	if root.Kind != ast.NodePath {
		t.Fatalf("got %v, want NodePath", root.Kind)
	}
}

func TestParseObjectConstructorAndGrouping(t *testing.T) {
	obj := parse(t, `{"a": 1, "b": 2}`)
	if obj.Kind != ast.NodeObject || obj.IsGrouping {
		t.Fatalf("got %v IsGrouping=%v, want NodeObject IsGrouping=false", obj.Kind, obj.IsGrouping)
	}
	if len(obj.Pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(obj.Pairs))
	}

	group := parse(t, "items{type: name}")
	if group.Kind != ast.NodeObject || !group.IsGrouping {
		t.Fatalf("got %v IsGrouping=%v, want NodeObject IsGrouping=true", group.Kind, group.IsGrouping)
	}
}

func TestParseLambda(t *testing.T) {
	root := parse(t, "function($x, $y){$x + $y}")
	if root.Kind != ast.NodeLambda {
		t.Fatalf("got %v, want NodeLambda", root.Kind)
	}
	if len(root.Params) != 2 || root.Params[0] != "x" || root.Params[1] != "y" {
		t.Errorf("got params %v, want [x y]", root.Params)
	}
}

func TestParseConditional(t *testing.T) {
	root := parse(t, `a > 1 ? "big" : "small"`)
	if root.Kind != ast.NodeConditional {
		t.Fatalf("got %v, want NodeConditional", root.Kind)
	}
	if root.Else == nil {
		t.Error("Else branch is nil")
	}
}

func TestParseRangeOperator(t *testing.T) {
	root := parse(t, "[1..5]")
	if root.Kind != ast.NodeArray {
		t.Fatalf("got %v, want NodeArray", root.Kind)
	}
	if len(root.Body) != 1 || root.Body[0].Kind != ast.NodeRange {
		t.Fatalf("got body %+v, want single NodeRange element", root.Body)
	}
}

func TestParseTransform(t *testing.T) {
	root := parse(t, `$ ~> |Account|{"modified": true}|`)
	if root.Kind != ast.NodeBinary || root.Ident != "~>" {
		t.Fatalf("got %v %q, want Binary ~>", root.Kind, root.Ident)
	}
	if root.RHS == nil || root.RHS.Kind != ast.NodeTransform {
		t.Fatalf("got rhs %v, want NodeTransform", root.RHS)
	}
}

func TestParsePartialApplication(t *testing.T) {
	root := parse(t, "$substring(?, 0, 5)")
	if root.Kind != ast.NodePartial {
		t.Fatalf("got %v, want NodePartial", root.Kind)
	}
}

func TestParseFocusAndIndexBind(t *testing.T) {
	focus := parse(t, "items@$v")
	if focus.Kind != ast.NodeFocus {
		t.Fatalf("got %v, want NodeFocus", focus.Kind)
	}
	idx := parse(t, "items#$i")
	if idx.Kind != ast.NodeIndexBind {
		t.Fatalf("got %v, want NodeIndexBind", idx.Kind)
	}
}

func TestParseParentOperatorResolvesAncestry(t *testing.T) {
	root := parse(t, "items.(%.currency)")
	// ResolveAncestry must have populated at least one ParentLabel
	// somewhere along the path for the `%` reference to bind to anything.
	var found bool
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}
		if len(n.ParentLabels) > 0 {
			found = true
		}
		walk(n.LHS)
		walk(n.RHS)
		walk(n.Else)
		for _, c := range n.Body {
			walk(c)
		}
	}
	walk(root)
	if !found {
		t.Error("expected ancestry resolution to assign at least one ParentLabel")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"$.[",
		`"unterminated`,
		"1 +",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			if _, err := parser.Parse(src); err == nil {
				t.Errorf("Parse(%q): expected an error, got nil", src)
			}
		})
	}
}
