package writequeue

import (
	"errors"
	"fmt"
)

// ErrQueueFull reports back-pressure: the shard queue stayed full for the
// whole enqueue timeout.
var ErrQueueFull = errors.New("write queue full")

// ErrClosed reports that the executor was stopped and accepts no more work.
var ErrClosed = errors.New("write queue closed")

// QueueFullError carries diagnostics while satisfying errors.Is(_, ErrQueueFull).
type QueueFullError struct {
	Shard    int
	Length   int
	Capacity int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("write queue shard %d full (len=%d cap=%d)", e.Shard, e.Length, e.Capacity)
}

func (e *QueueFullError) Is(target error) bool { return target == ErrQueueFull }

// PanicError is reported to OnError when a job panics.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("write job panicked: %v", e.Value) }
