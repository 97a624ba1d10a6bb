package store

import (
	"sync/atomic"
	"time"
)

var lastID int64

// NextID returns a unique, strictly increasing unix-millisecond id. Ids are
// never reused within a process even when records are deleted.
func NextID() int64 {
	for {
		now := time.Now().UnixMilli()
		last := atomic.LoadInt64(&lastID)
		if now <= last {
			now = last + 1
		}
		if atomic.CompareAndSwapInt64(&lastID, last, now) {
			return now
		}
	}
}
