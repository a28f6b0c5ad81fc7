// Package pending is the pending-sync partition: the queue of local writes
// waiting to be replayed against the API. Entries are listed in enqueue
// order.
package pending
