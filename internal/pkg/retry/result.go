package retry

// Result is the explicit success/failure envelope for call sites that fan
// out several fetches and must not abort the batch on the first failure.
// Everything else in the codebase uses plain (T, error) returns.
type Result[T any] struct {
	OK    bool
	Value T
	Err   *APIError
}

func Ok[T any](v T) Result[T] {
	return Result[T]{OK: true, Value: v}
}

func Err[T any](e *APIError) Result[T] {
	return Result[T]{Err: e}
}

// Get converts the envelope back to the (T, error) convention.
func (r Result[T]) Get() (T, error) {
	if r.OK {
		return r.Value, nil
	}
	var zero T
	if r.Err != nil {
		return zero, r.Err
	}
	return zero, nil
}
