package formulax_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	. "github.com/comalice/formulax"
)

func TestVarsBasic(t *testing.T) {
	v := NewVars()

	v.Set("x", 1.5)
	if got, ok := v.Get("x"); !ok || got != 1.5 {
		t.Errorf("expected 1.5, got %v (%v)", got, ok)
	}

	if _, ok := v.Get("missing"); ok {
		t.Error("missing name should not resolve")
	}

	v.Delete("x")
	if _, ok := v.Get("x"); ok {
		t.Error("expected x deleted")
	}
}

func TestVarsResolve(t *testing.T) {
	v := NewVars()
	v.Set("a", 1)
	v.Set(AnswerVar, 42)

	got, err := v.Resolve("ans", "a")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{42, 1}, got); diff != "" {
		t.Errorf("resolve mismatch (-want +got):\n%s", diff)
	}

	if _, err := v.Resolve("a", "nope"); err == nil {
		t.Error("expected error for undefined variable")
	}
}

func TestVarsSnapshotIsCopy(t *testing.T) {
	v := NewVars()
	v.Set("b", 2)
	v.Set("a", 1)

	snap := v.GetAll()
	snap["a"] = 100
	if got, _ := v.Get("a"); got != 1 {
		t.Errorf("snapshot mutation leaked into vars: %v", got)
	}

	if diff := cmp.Diff([]string{"a", "b"}, v.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	other := NewVars()
	other.LoadAll(snap)
	snap["a"] = -1
	if got, _ := other.Get("a"); got != 100 {
		t.Errorf("LoadAll should copy input, got %v", got)
	}
}

func TestVarsConcurrent(t *testing.T) {
	v := NewVars()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%10)
			v.Set(key, float64(i))
			v.Get(key)
			v.GetAll()
		}(i)
	}
	wg.Wait()
	if len(v.Names()) != 10 {
		t.Errorf("expected 10 names, got %d", len(v.Names()))
	}
}
