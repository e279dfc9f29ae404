// Package collection provides the small set of generic slice helpers the
// application actually uses, in the functional style of Laravel collections.
//
//	lines := collection.Map(order.Items, func(it models.OrderItem) string { ... })
//	ready := collection.Filter(orders, func(o models.Order) bool { return o.Status == models.StatusReady })
package collection

// Map transforms each element of s through fn, preserving order.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter returns the elements of s for which fn reports true.
func Filter[T any](s []T, fn func(T) bool) []T {
	var out []T
	for _, v := range s {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// Contains reports whether any element of s satisfies fn.
func Contains[T any](s []T, fn func(T) bool) bool {
	for _, v := range s {
		if fn(v) {
			return true
		}
	}
	return false
}
