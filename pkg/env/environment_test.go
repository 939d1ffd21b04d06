package env_test

import (
	"errors"
	"testing"

	"github.com/secondlayerco/jsonata/pkg/env"
)

type stubInvoker struct {
	calls int
}

func (s *stubInvoker) Invoke(c interface{}, args []interface{}) (interface{}, error) {
	s.calls++
	if c == nil {
		return nil, errors.New("not callable")
	}
	return c, nil
}

func TestEnvironmentRootInputAndDepth(t *testing.T) {
	root := env.NewRoot("root-data", &stubInvoker{})
	if root.Input() != "root-data" {
		t.Errorf("Input() = %v, want root-data", root.Input())
	}
	if root.RootInput() != "root-data" {
		t.Errorf("RootInput() = %v, want root-data", root.RootInput())
	}
	if root.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", root.Depth())
	}

	child := root.Child("child-data")
	if child.Input() != "child-data" {
		t.Errorf("child Input() = %v, want child-data", child.Input())
	}
	if child.RootInput() != "root-data" {
		t.Errorf("child RootInput() = %v, want root-data", child.RootInput())
	}
	if child.Depth() != 1 {
		t.Errorf("child Depth() = %d, want 1", child.Depth())
	}
	if child.Root() != root {
		t.Error("child.Root() should be the original root environment")
	}
}

func TestEnvironmentBindingLookupShadowing(t *testing.T) {
	root := env.NewRoot(nil, &stubInvoker{})
	root.Bind("x", 1.0)

	child := root.Child(nil)
	if v, ok := child.Lookup("x"); !ok || v != 1.0 {
		t.Errorf("child Lookup(x) = %v, %v, want 1.0, true", v, ok)
	}

	child.Bind("x", 2.0)
	if v, _ := child.Lookup("x"); v != 2.0 {
		t.Errorf("child shadowed Lookup(x) = %v, want 2.0", v)
	}
	if v, _ := root.Lookup("x"); v != 1.0 {
		t.Errorf("root Lookup(x) after child shadow = %v, want unchanged 1.0", v)
	}

	if _, ok := child.Lookup("missing"); ok {
		t.Error("Lookup(missing) should report false")
	}
}

func TestEnvironmentFunctionRegistryIsAdditiveAndShadowable(t *testing.T) {
	root := env.NewRoot(nil, &stubInvoker{})
	root.RegisterFunction("greet", func(args []interface{}, input interface{}, e *env.Environment) (interface{}, error) {
		return "root", nil
	})

	child := root.Child(nil)
	if fn, ok := child.LookupFunction("greet"); !ok {
		t.Fatal("child should inherit root's registered function")
	} else if v, _ := fn(nil, nil, child); v != "root" {
		t.Errorf("got %v, want root", v)
	}

	child.RegisterFunction("greet", func(args []interface{}, input interface{}, e *env.Environment) (interface{}, error) {
		return "child", nil
	})
	fn, _ := child.LookupFunction("greet")
	if v, _ := fn(nil, nil, child); v != "child" {
		t.Errorf("got %v, want child (shadowed)", v)
	}
	// root's own registration must be untouched.
	rootFn, _ := root.LookupFunction("greet")
	if v, _ := rootFn(nil, nil, root); v != "root" {
		t.Errorf("root function was mutated by child shadowing: got %v, want root", v)
	}

	if _, ok := child.LookupFunction("nope"); ok {
		t.Error("LookupFunction(nope) should report false")
	}
}

func TestEnvironmentInvokerInheritedFromRoot(t *testing.T) {
	invoker := &stubInvoker{}
	root := env.NewRoot(nil, invoker)
	child := root.Child(nil).Child(nil)

	if child.Invoker() != invoker {
		t.Error("grandchild Invoker() should return the root's invoker")
	}
	if _, err := child.Invoker().Invoke("x", nil); err != nil {
		t.Errorf("Invoke: %v", err)
	}
	if invoker.calls != 1 {
		t.Errorf("invoker.calls = %d, want 1", invoker.calls)
	}
}
