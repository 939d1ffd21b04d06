package ast_test

import (
	"io"
	"reflect"
	"testing"

	"github.com/secondlayerco/jsonata/pkg/ast"
)

func TestFromJSONPreservesKeyOrder(t *testing.T) {
	v, err := ast.FromJSON([]byte(`{"z": 1, "a": 2, "m": 3}`))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	obj, ok := v.(*ast.Object)
	if !ok {
		t.Fatalf("got %T, want *ast.Object", v)
	}
	want := []string{"z", "a", "m"}
	if !reflect.DeepEqual(obj.Keys, want) {
		t.Errorf("got key order %v, want %v", obj.Keys, want)
	}
}

func TestFromJSONTypes(t *testing.T) {
	v, err := ast.FromJSON([]byte(`{"n": 42, "s": "hi", "b": true, "nul": null, "arr": [1, 2]}`))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	obj := v.(*ast.Object)

	if n, _ := obj.Get("n"); n != 42.0 {
		t.Errorf("n: got %v, want 42.0", n)
	}
	if s, _ := obj.Get("s"); s != "hi" {
		t.Errorf("s: got %v, want hi", s)
	}
	if b, _ := obj.Get("b"); b != true {
		t.Errorf("b: got %v, want true", b)
	}
	if nul, _ := obj.Get("nul"); nul != ast.NullValue {
		t.Errorf("nul: got %v, want ast.NullValue", nul)
	}
	arr, _ := obj.Get("arr")
	if !reflect.DeepEqual(arr, []interface{}{1.0, 2.0}) {
		t.Errorf("arr: got %v, want [1 2]", arr)
	}
}

func TestFromGoSortsMapKeys(t *testing.T) {
	v := ast.FromGo(map[string]interface{}{"z": 1.0, "a": 2.0, "m": 3.0})
	obj, ok := v.(*ast.Object)
	if !ok {
		t.Fatalf("got %T, want *ast.Object", v)
	}
	want := []string{"a", "m", "z"}
	if !reflect.DeepEqual(obj.Keys, want) {
		t.Errorf("got key order %v, want %v", obj.Keys, want)
	}
}

func TestFromGoNil(t *testing.T) {
	if v := ast.FromGo(nil); v != ast.NullValue {
		t.Errorf("got %v, want ast.NullValue", v)
	}
}

func TestToGoRoundTrip(t *testing.T) {
	obj := ast.NewObject()
	obj.Set("a", 1.0)
	obj.Set("b", []interface{}{ast.NullValue, "x"})

	got := ast.ToGo(obj)
	want := map[string]interface{}{
		"a": 1.0,
		"b": []interface{}{nil, "x"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFromGoToGoRoundTrip(t *testing.T) {
	original := map[string]interface{}{
		"name": "Alice",
		"tags": []interface{}{"a", "b"},
	}
	got := ast.ToGo(ast.FromGo(original))
	if !reflect.DeepEqual(got, original) {
		t.Errorf("got %v, want %v", got, original)
	}
}

func TestNewJSONDecoderStreamsMultipleValues(t *testing.T) {
	r := &staticReader{data: []byte(`{"a":1}{"a":2}`)}
	dec := ast.NewJSONDecoder(r)

	first, err := ast.DecodeNext(dec)
	if err != nil {
		t.Fatalf("first DecodeNext: %v", err)
	}
	a1, _ := first.(*ast.Object).Get("a")
	if a1 != 1.0 {
		t.Errorf("first: got %v, want 1", a1)
	}

	second, err := ast.DecodeNext(dec)
	if err != nil {
		t.Fatalf("second DecodeNext: %v", err)
	}
	a2, _ := second.(*ast.Object).Get("a")
	if a2 != 2.0 {
		t.Errorf("second: got %v, want 2", a2)
	}

	if _, err := ast.DecodeNext(dec); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

type staticReader struct {
	data []byte
	pos  int
}

func (r *staticReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
