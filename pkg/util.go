package pkg

// Option is a functional option that configures a value of type T.
type Option[T any] func(T) T

// Apply applies each of the given options to v in order.
func Apply[T any](v T, opts ...Option[T]) T {
	for _, opt := range opts {
		if opt != nil {
			v = opt(v)
		}
	}

	return v
}

// Make returns the zero value of T configured with the given options.
func Make[T any](opts ...Option[T]) T {
	var v T

	return Apply(v, opts...)
}
