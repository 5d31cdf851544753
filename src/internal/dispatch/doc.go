// FILE: logfan/src/internal/dispatch/doc.go

// Package dispatch implements the asynchronous delivery core: producers
// hand entries to an unbounded FIFO queue without blocking, and a single
// background worker drains the queue and writes each entry to every
// registered appender in registration order.
//
// The worker is supervised: a failure inside one delivery pass is logged
// and the loop resumes with the next item, so a broken appender or a bug
// in the dispatch path never halts logging as a whole. Flush requests
// travel through the same queue as control messages, which guarantees a
// flush observes exactly the entries enqueued before it.
package dispatch
