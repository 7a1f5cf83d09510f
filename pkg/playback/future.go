package playback

import "sync"

// Future is a value that becomes available exactly once.
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	resolved  bool
	value     T
	err       error
	callbacks []func(T, error)
}

// Signal is a Future that carries only completion.
type Signal = Future[struct{}]

// NewFuture returns an unresolved Future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns a Future that already holds v and err.
func Resolved[T any](v T, err error) *Future[T] {
	f := NewFuture[T]()
	f.Resolve(v, err)
	return f
}

// Resolve stores the outcome and runs pending callbacks in registration
// order. Only the first call has any effect; it reports whether it won.
func (f *Future[T]) Resolve(v T, err error) bool {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return false
	}
	f.resolved = true
	f.value = v
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(v, err)
	}
	return true
}

// OnDone registers cb to run on resolution, or runs it immediately when
// the Future is already resolved.
func (f *Future[T]) OnDone(cb func(T, error)) {
	f.mu.Lock()
	if !f.resolved {
		f.callbacks = append(f.callbacks, cb)
		f.mu.Unlock()
		return
	}
	v, err := f.value, f.err
	f.mu.Unlock()
	cb(v, err)
}

// Done is closed once the Future resolves.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Result returns the stored outcome. It is only meaningful after Done is
// closed.
func (f *Future[T]) Result() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

// Err returns the stored error, or nil while unresolved.
func (f *Future[T]) Err() error {
	_, err := f.Result()
	return err
}

// IsResolved reports whether Resolve has been called.
func (f *Future[T]) IsResolved() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolved
}
