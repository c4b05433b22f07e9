package motion

import (
	"sync/atomic"

	"github.com/bobbin-robotics/go-bobbin/internal/log"
)

// Queue is the bounded, ordered channel of commands from producer
// goroutines into the control loop. Any number of producers may Enqueue
// concurrently; exactly one consumer (the control loop) calls DrainUpTo.
//
// A full queue drops the new command with ErrQueueFull rather than
// blocking the producer.
type Queue struct {
	ch      chan Command
	dropped atomic.Uint64
}

// NewQueue creates a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{
		ch: make(chan Command, capacity),
	}
}

// Enqueue adds a command without blocking. Returns ErrQueueFull when the
// queue is at capacity; the command is dropped and counted.
func (q *Queue) Enqueue(cmd Command) error {
	select {
	case q.ch <- cmd:
		return nil
	default:
		q.dropped.Add(1)
		log.Warn("command queue full, dropping command", "kind", cmd.Kind.String(), "id", cmd.ID)
		return ErrQueueFull
	}
}

// DrainUpTo removes and returns up to n commands in enqueue order without
// blocking. Only the control loop goroutine may call this.
func (q *Queue) DrainUpTo(n int) []Command {
	var cmds []Command
	for len(cmds) < n {
		select {
		case cmd := <-q.ch:
			cmds = append(cmds, cmd)
		default:
			return cmds
		}
	}
	return cmds
}

// Len returns the number of queued commands.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Dropped returns the total number of commands rejected for capacity.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
