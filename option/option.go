// Package option provides the generic functional options pattern used by
// the generator and the report printers.
package option

// Option represents a functional option that configures a value of type T.
type Option[T any] func(*T)

// Apply runs every option against v, in order.
func Apply[T any](v *T, opts ...Option[T]) {
	for _, opt := range opts {
		opt(v)
	}
}
