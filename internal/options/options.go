// Package options provides the generic functional option plumbing shared by
// the configurable constructors in this module.
package options

// Option configures a value of type T and may reject invalid settings.
type Option[T any] func(T) error

// New adapts a function that can fail into an Option.
func New[T any](fn func(T) error) Option[T] {
	return fn
}

// NoError adapts a function that cannot fail into an Option.
func NoError[T any](fn func(T)) Option[T] {
	return func(target T) error {
		fn(target)
		return nil
	}
}

// Apply runs the options against target in order, stopping at the first
// error.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if err := opt(target); err != nil {
			return err
		}
	}

	return nil
}
