//go:build wasm

package reactivity

import "sync"

var (
	once          sync.Once
	globalRuntime *Runtime
)

// Default returns the process-wide Runtime. wasm is single-threaded.
func Default() *Runtime {
	once.Do(func() {
		globalRuntime = NewRuntime()
	})
	return globalRuntime
}

// ReleaseDefault is a no-op on wasm.
func ReleaseDefault() {}
