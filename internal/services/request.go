package services

import (
	"context"
	"errors"
	"sync"
)

// ErrAborted is returned by [Request.Wait] after [Request.Abort].
var ErrAborted = errors.New("request aborted")

// Stage is the position of a chained request.
type Stage int

const (
	StageIdle Stage = iota
	StagePrimary
	StageHydrating
	StageWriting
	StageDone
	StageFailed
	StageAborted
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StagePrimary:
		return "primary"
	case StageHydrating:
		return "hydrating"
	case StageWriting:
		return "writing"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	case StageAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Callbacks adapts a [Request] to success/error/complete notification.
// Exactly one of Success or Error runs, followed by Complete. Nil fields are skipped.
type Callbacks[T any] struct {
	Success  func(T)
	Error    func(error)
	Complete func()
}

// Request is an in-flight operation that settles exactly once.
//
// Abort cancels whichever remote call is currently active. An aborted request
// reports [ErrAborted] and never invokes its callbacks. A request that ends because
// its parent context was cancelled is not aborted: it fails with the context error.
type Request[T any] struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	settled bool
	aborted bool
	stage   Stage
	value   T
	err     error
}

// run starts fn in its own goroutine under a context derived from ctx.
// fn reports its progress through mark.
func run[T any](ctx context.Context, fn func(ctx context.Context, mark func(Stage)) (T, error)) *Request[T] {
	ctx, cancel := context.WithCancel(ctx)
	r := &Request[T]{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer cancel()
		v, err := fn(ctx, r.mark)
		r.settle(ctx, v, err)
	}()

	return r
}

func (r *Request[T]) mark(s Stage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.settled {
		r.stage = s
	}
}

func (r *Request[T]) settle(ctx context.Context, v T, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settled {
		return
	}
	r.settled = true
	defer close(r.done)

	switch {
	case err != nil && aborted(ctx, err):
		r.err = err
		r.stage = StageAborted
	case err != nil:
		r.err = err
		r.stage = StageFailed
	default:
		r.value = v
		r.stage = StageDone
	}
}

// Abort cancels the request. It is a no-op once the request has settled.
func (r *Request[T]) Abort() {
	r.mu.Lock()
	if r.settled {
		r.mu.Unlock()
		return
	}
	r.aborted = true
	r.settled = true
	r.err = ErrAborted
	r.stage = StageAborted
	close(r.done)
	r.mu.Unlock()

	r.cancel()
}

// Done is closed when the request settles.
func (r *Request[T]) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the request settles.
func (r *Request[T]) Wait() (T, error) {
	<-r.done
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value, r.err
}

// Stage reports the current stage.
func (r *Request[T]) Stage() Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stage
}

// Then invokes cb once the request settles. Nothing runs after [Request.Abort].
func (r *Request[T]) Then(cb Callbacks[T]) {
	go func() {
		v, err := r.Wait()
		if r.wasAborted() {
			return
		}
		if err != nil {
			if cb.Error != nil {
				cb.Error(err)
			}
		} else if cb.Success != nil {
			cb.Success(v)
		}
		if cb.Complete != nil {
			cb.Complete()
		}
	}()
}

func (r *Request[T]) wasAborted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aborted
}

// Start runs fn behind a [Request]. It lets other packages wrap their own work,
// or stand in for a [Catalog] in tests.
func Start[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Request[T] {
	return run(ctx, func(ctx context.Context, _ func(Stage)) (T, error) {
		return fn(ctx)
	})
}
