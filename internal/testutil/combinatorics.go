// Package testutil provides deterministic helpers for tests.
package testutil

// Combinations returns every subset of elements, including the empty set,
// each in the relative order of elements. 2^n results.
func Combinations[T any](elements []T) [][]T {
	if len(elements) == 0 {
		return [][]T{{}}
	}
	head, tail := elements[0], elements[1:]

	var out [][]T
	for _, c := range Combinations(tail) {
		out = append(out, c)

		with := make([]T, 0, len(c)+1)
		with = append(with, head)
		with = append(with, c...)
		out = append(out, with)
	}
	return out
}

// CombinationsSized returns the combinations whose length is within
// [minSize, maxSize].
func CombinationsSized[T any](elements []T, minSize, maxSize int) [][]T {
	var out [][]T
	for _, c := range Combinations(elements) {
		if minSize <= len(c) && len(c) <= maxSize {
			out = append(out, c)
		}
	}
	return out
}

// Permutations returns all n! orderings of elements using Heap's algorithm.
// The first result is the input order. Each result is an independent copy.
func Permutations[T any](elements []T) [][]T {
	list := make([]T, len(elements))
	copy(list, elements)
	n := len(list)

	out := [][]T{clone(list)}
	indexes := make([]int, n)

	for j := 0; j < n; {
		if indexes[j] < j {
			swap := 0
			if j%2 == 1 {
				swap = indexes[j]
			}
			list[swap], list[j] = list[j], list[swap]
			out = append(out, clone(list))

			indexes[j]++
			j = 0
		} else {
			indexes[j] = 0
			j++
		}
	}
	return out
}

func clone[T any](s []T) []T {
	c := make([]T, len(s))
	copy(c, s)
	return c
}
