package arrays

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestLinearSearch(t *testing.T) {
	s := []int{4, 8, 15, 16, 23, 42, 8}
	assert.Equal(t, 0, LinearSearch(s, 4))
	assert.Equal(t, 1, LinearSearch(s, 8))
	assert.Equal(t, 5, LinearSearch(s, 42))
	assert.Equal(t, -1, LinearSearch(s, 7))
	assert.Equal(t, -1, LinearSearch([]string(nil), "x"))
}

func TestBinarySearch(t *testing.T) {
	s := []int{1, 3, 5, 7, 9, 11}
	for i, v := range s {
		assert.Equal(t, i, BinarySearch(s, v), "key %d", v)
	}
	for _, missing := range []int{0, 2, 10, 12} {
		assert.Equal(t, -1, BinarySearch(s, missing), "key %d", missing)
	}
	assert.Equal(t, -1, BinarySearch([]int{}, 1))
	assert.Equal(t, 0, BinarySearch([]float64{2.5}, 2.5))
	assert.Equal(t, 1, BinarySearch([]string{"a", "b", "c"}, "b"))
}

func TestShift(t *testing.T) {
	s := []int{1, 2, 3, 4}
	if diff := cmp.Diff([]int{2, 3, 4, 1}, ShiftLeft(s)); diff != "" {
		t.Errorf("ShiftLeft (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{4, 1, 2, 3}, ShiftRight(s)); diff != "" {
		t.Errorf("ShiftRight (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, s, "input must not change")
	assert.Equal(t, []int{7}, ShiftLeft([]int{7}))
	assert.Empty(t, ShiftRight([]int{}))
	assert.Equal(t, s, ShiftRight(ShiftLeft(s)))
}

func TestSelectionSort(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for n := 0; n < 40; n++ {
		s := make([]float64, n)
		for i := range s {
			s[i] = float64(r.IntN(20)) - 10
		}
		orig := slices.Clone(s)
		got := SelectionSort(s)
		want := slices.Clone(s)
		slices.Sort(want)
		assert.Equal(t, want, got)
		assert.Equal(t, orig, s)
	}
	assert.Equal(t, []string{"a", "b", "c"}, SelectionSort([]string{"c", "a", "b"}))
}

func TestExtremes(t *testing.T) {
	s := []int{3, 9, 1, 9, 1}
	assert.Equal(t, 1, IndexOfMax(s))
	assert.Equal(t, 2, IndexOfMin(s))
	assert.Equal(t, -1, IndexOfMax([]int{}))
	assert.Equal(t, -1, IndexOfMin([]int(nil)))
	assert.Equal(t, 0, IndexOfMax([]float64{-1}))
}
