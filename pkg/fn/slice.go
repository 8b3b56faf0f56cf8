package fn

// Map applies f to each element. A nil input yields an empty, non-nil slice.
func Map[T, U any](items []T, f func(T) U) []U {
	out := make([]U, len(items))
	for i, v := range items {
		out[i] = f(v)
	}
	return out
}

// Find returns the first element where pred is true.
func Find[T any](items []T, pred func(T) bool) (T, bool) {
	for _, v := range items {
		if pred(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Contains reports whether any element satisfies pred.
func Contains[T any](items []T, pred func(T) bool) bool {
	_, ok := Find(items, pred)
	return ok
}
