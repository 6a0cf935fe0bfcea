// Package arrays holds the array exercises: searching, shifting, sorting and
// finding extremes. Every function leaves its input untouched.
package arrays

import "cmp"

// LinearSearch returns the index of the first element equal to key, or -1.
func LinearSearch[T comparable](s []T, key T) int {
	for i, v := range s {
		if v == key {
			return i
		}
	}
	return -1
}

// BinarySearch returns the index of key in the ascending slice s, or -1.
// With duplicates any matching index may be returned.
func BinarySearch[T cmp.Ordered](s []T, key T) int {
	lo, hi := 0, len(s)-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		switch c := cmp.Compare(s[mid], key); {
		case c == 0:
			return mid
		case c < 0:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return -1
}

// ShiftLeft rotates s one position to the left: the first element moves to the end.
func ShiftLeft[T any](s []T) []T {
	out := make([]T, len(s))
	if len(s) == 0 {
		return out
	}
	copy(out, s[1:])
	out[len(s)-1] = s[0]
	return out
}

// ShiftRight rotates s one position to the right: the last element moves to the front.
func ShiftRight[T any](s []T) []T {
	out := make([]T, len(s))
	if len(s) == 0 {
		return out
	}
	out[0] = s[len(s)-1]
	copy(out[1:], s[:len(s)-1])
	return out
}

// SelectionSort returns an ascending copy of s.
func SelectionSort[T cmp.Ordered](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	for i := 0; i < len(out)-1; i++ {
		minIdx := i
		for j := i + 1; j < len(out); j++ {
			if cmp.Less(out[j], out[minIdx]) {
				minIdx = j
			}
		}
		out[i], out[minIdx] = out[minIdx], out[i]
	}
	return out
}

// IndexOfMax returns the index of the first largest element, or -1 for an empty slice.
func IndexOfMax[T cmp.Ordered](s []T) int {
	if len(s) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(s); i++ {
		if cmp.Less(s[best], s[i]) {
			best = i
		}
	}
	return best
}

// IndexOfMin returns the index of the first smallest element, or -1 for an empty slice.
func IndexOfMin[T cmp.Ordered](s []T) int {
	if len(s) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(s); i++ {
		if cmp.Less(s[i], s[best]) {
			best = i
		}
	}
	return best
}
