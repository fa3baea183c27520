// Package sliceutil provides generic slice manipulation utilities.
package sliceutil

import "sort"

// Deduplicate removes duplicate items from a slice while preserving order.
// The keyFunc extracts a unique key from each item for comparison.
// Only the first occurrence of each key is kept.
func Deduplicate[T any, K comparable](items []T, keyFunc func(T) K) []T {
	if len(items) == 0 {
		return items
	}

	seen := make(map[K]bool, len(items))
	result := make([]T, 0, len(items))

	for _, item := range items {
		key := keyFunc(item)
		if !seen[key] {
			seen[key] = true
			result = append(result, item)
		}
	}

	return result
}

// SortedUnique returns the sorted distinct values of a string slice.
func SortedUnique(items []string) []string {
	unique := Deduplicate(items, func(s string) string { return s })
	sort.Strings(unique)
	return unique
}
