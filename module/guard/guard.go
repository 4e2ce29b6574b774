// Package guard provides the single-call reentrancy lock held by every
// externally callable mutating engine operation.
package guard

import (
	"go.uber.org/atomic"

	"github.com/covenantnet/covenant-go/engine/errors"
)

// CallLock is a non-blocking, non-reentrant lock scoped to one engine
// instance. It exists to close the one re-entry point the execution model
// has: an outbound value transfer calling back into the engine within the
// same logical call. Contention is a caller fault, never awaited.
type CallLock struct {
	engine string
	held   *atomic.Bool
}

// NewCallLock creates a lock for the named engine. The name only appears in
// the failure message.
func NewCallLock(engine string) *CallLock {
	return &CallLock{
		engine: engine,
		held:   atomic.NewBool(false),
	}
}

// Acquire takes the lock and returns the release func, which must run on
// every exit path (defer it immediately). If the lock is already held the
// call is reentrant and fails with ReentrancyDetected.
func (l *CallLock) Acquire() (func(), error) {
	if !l.held.CompareAndSwap(false, true) {
		return nil, errors.NewReentrancyDetectedError(l.engine)
	}
	return func() {
		l.held.Store(false)
	}, nil
}
