package webservice

import "context"

// Result carries the single outcome of an asynchronous Load.
type Result[T any] struct {
	Value T
	Err   error
}

// LoadAsync runs Load on its own goroutine and delivers exactly one Result
// on the returned channel before closing it. The channel is buffered, so
// the result is never lost if the caller reads late.
func LoadAsync[T any](ctx context.Context, ws *Webservice, baseURL string, params []QueryParameter, headers []HeaderField) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		defer close(ch)
		value, err := Load[T](ctx, ws, baseURL, params, headers)
		ch <- Result[T]{Value: value, Err: err}
	}()
	return ch
}
