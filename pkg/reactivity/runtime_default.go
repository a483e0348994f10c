//go:build !wasm

package reactivity

import (
	"sync"

	"github.com/petermattis/goid"
)

var runtimes sync.Map

// Default returns the Runtime bound to the calling goroutine, creating it on
// first use. Code that owns an application root should prefer an explicit
// NewRuntime and pass it down.
func Default() *Runtime {
	gid := goid.Get()

	if rt, ok := runtimes.Load(gid); ok {
		return rt.(*Runtime)
	}

	rt := NewRuntime()
	runtimes.Store(gid, rt)
	return rt
}

// ReleaseDefault drops the calling goroutine's default Runtime.
// Goroutines that used Default should call it before exiting.
func ReleaseDefault() {
	runtimes.Delete(goid.Get())
}
