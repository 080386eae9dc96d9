package core

import (
	"sync"
	"sync/atomic"
)

// flight admits one holder at a time. A second caller is turned away, never queued.
type flight struct {
	busy atomic.Bool
}

// TryAcquire returns a release func when the flight was idle. Calling release
// more than once is harmless.
func (f *flight) TryAcquire() (release func(), ok bool) {
	if !f.busy.CompareAndSwap(false, true) {
		return nil, false
	}
	var once sync.Once
	return func() {
		once.Do(func() { f.busy.Store(false) })
	}, true
}

func (f *flight) Busy() bool {
	return f.busy.Load()
}
