package common

// Result is a tagged outcome of a single read: either a value or the reason it failed.
// Reads never abort their siblings, they report a Result instead.
type Result[T any] struct {
	Value T
	Err   error
}

func Success[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

func Failure[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

func NewResult[T any](value T, err error) Result[T] {
	if err != nil {
		return Failure[T](err)
	}

	return Success(value)
}

func (r Result[T]) IsSuccess() bool {
	return r.Err == nil
}

// ValueOr returns the value on success and def otherwise
func (r Result[T]) ValueOr(def T) T {
	if r.Err != nil {
		return def
	}

	return r.Value
}
