package lrucache_test

import (
	"testing"

	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/lrucache"
)

func expr(id string) *ast.Expression {
	return &ast.Expression{Root: &ast.Node{Kind: ast.NodeString, Str: id}}
}

func TestCacheSetAndGet(t *testing.T) {
	c := lrucache.New(4)
	c.Set("a", expr("a"))
	got, ok := c.Get("a")
	if !ok {
		t.Fatal("Get(a): not found")
	}
	if got.Root.Str != "a" {
		t.Errorf("got %q, want a", got.Root.Str)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing): expected not found")
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := lrucache.New(2)
	c.Set("a", expr("a"))
	c.Set("b", expr("b"))
	// touch "a" so "b" becomes least-recently-used
	c.Get("a")
	c.Set("c", expr("c"))

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to survive eviction")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c to be present")
	}
}

func TestCacheSetReplacesExistingEntryWithoutGrowing(t *testing.T) {
	c := lrucache.New(4)
	c.Set("a", expr("a1"))
	c.Set("a", expr("a2"))
	if c.Len() != 1 {
		t.Fatalf("got Len %d, want 1", c.Len())
	}
	got, _ := c.Get("a")
	if got.Root.Str != "a2" {
		t.Errorf("got %q, want a2", got.Root.Str)
	}
}

func TestCacheGetOrCompile(t *testing.T) {
	c := lrucache.New(4)
	calls := 0
	compile := func() (*ast.Expression, error) {
		calls++
		return expr("compiled"), nil
	}

	if _, err := c.GetOrCompile("q", compile); err != nil {
		t.Fatalf("GetOrCompile: %v", err)
	}
	if _, err := c.GetOrCompile("q", compile); err != nil {
		t.Fatalf("GetOrCompile (cached): %v", err)
	}
	if calls != 1 {
		t.Errorf("compile called %d times, want 1", calls)
	}
}

func TestCacheInvalidateAndClear(t *testing.T) {
	c := lrucache.New(4)
	c.Set("a", expr("a"))
	c.Set("b", expr("b"))

	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be invalidated")
	}
	if c.Len() != 1 {
		t.Errorf("got Len %d, want 1", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("got Len %d after Clear, want 0", c.Len())
	}
}

func TestCacheCapacityDefaultsWhenNonPositive(t *testing.T) {
	c := lrucache.New(0)
	if c.Capacity() != 256 {
		t.Errorf("got Capacity %d, want 256", c.Capacity())
	}
}
