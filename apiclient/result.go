package apiclient

// Result is the tagged outcome of an API call: either a validated payload
// or the reason it could not be produced.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a payload.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err wraps a failure.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// IsOk reports whether the result carries a payload.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// Unwrap returns the payload and the failure reason.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// Error returns the failure reason, or nil.
func (r Result[T]) Error() error {
	return r.err
}

// ValueOr returns the payload, or fallback when the result is a failure.
func (r Result[T]) ValueOr(fallback T) T {
	if r.err != nil {
		return fallback
	}
	return r.value
}

// Validator is implemented by payloads that check their own shape after decoding.
type Validator interface {
	Validate() error
}
