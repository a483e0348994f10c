// Package scheduler batches effect re-runs into one deferred flush.
//
// A Queue collects Jobs, deduplicates them and runs them in ascending ID
// order. Because effects get increasing IDs on creation, parents created
// before their children run first.
//
// Deferral goes through a Loop, a FIFO of callbacks standing in for a
// microtask queue. Work posted to the Loop runs when the owner drains it,
// which the application does after a synchronous mutation completes:
//
//	loop := scheduler.NewLoop()
//	q := scheduler.New(loop)
//
//	loop.Do(func() {
//	    q.QueueJob(render)
//	    q.QueueJob(render) // deduplicated
//	})
//	// render has run exactly once here
//
// A Queue is single-threaded, like the reactivity Runtime it serves.
package scheduler
