// Package rank selects the first n elements of a slice in order without sorting the rest
package rank

// Less reports whether a ranks ahead of b
// rankings must be total orders for the output to be deterministic
type Less[T any] func(a, b T) bool

// Top partially sorts items in place and returns the ordered prefix of length min(n, len(items))
// the remainder of items is left in unspecified order
// cost is O(len(items) * log n) plus O(n log n) for ordering the prefix
func Top[T any](items []T, n int, less Less[T]) []T {
	if n <= 0 || len(items) == 0 {
		return items[:0]
	}
	if n > len(items) {
		n = len(items)
	}

	// keep a max-heap (under less) of the best n seen so far
	// its root is the entry that would rank last among them
	h := items[:n]
	for i := n/2 - 1; i >= 0; i-- {
		down(h, i, less)
	}
	for i := n; i < len(items); i++ {
		if less(items[i], h[0]) {
			h[0], items[i] = items[i], h[0]
			down(h, 0, less)
		}
	}

	// heap sort the survivors so the best comes first
	for end := n - 1; end > 0; end-- {
		h[0], h[end] = h[end], h[0]
		down(h[:end], 0, less)
	}
	return h
}

func down[T any](h []T, i int, less Less[T]) {
	n := len(h)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		j := l
		if r := l + 1; r < n && less(h[l], h[r]) {
			j = r
		}
		if !less(h[i], h[j]) {
			return
		}
		h[i], h[j] = h[j], h[i]
		i = j
	}
}
