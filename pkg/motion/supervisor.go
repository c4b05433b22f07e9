package motion

import (
	"context"
	"sync"
	"time"

	"github.com/bobbin-robotics/go-bobbin/internal/log"
	"github.com/bobbin-robotics/go-bobbin/pkg/actuator"
)

// Supervisor monitors actuator-link health. It counts consecutive send
// failures, trips into a down state past the configured threshold, and then
// reattempts the connection with exponential backoff on its own goroutine
// so reconnects never stall the control loop's tick.
//
// Only the control loop issues sends; the supervisor only issues Reconnect.
type Supervisor struct {
	sender    actuator.Sender
	threshold int
	start     time.Duration
	cap       time.Duration
	timeout   time.Duration
	throttle  *ErrorThrottle

	mu           sync.Mutex
	down         bool
	failures     int
	lastError    error
	lastErrTime  time.Time
	reconnecting bool

	stop     chan struct{}
	stopOnce sync.Once
}

// NewSupervisor creates a supervisor for the given sender.
func NewSupervisor(sender actuator.Sender, cfg Config, throttle *ErrorThrottle) *Supervisor {
	return &Supervisor{
		sender:    sender,
		threshold: cfg.FailureThreshold,
		start:     cfg.BackoffStart,
		cap:       cfg.BackoffMax,
		timeout:   cfg.SendTimeout,
		throttle:  throttle,
		stop:      make(chan struct{}),
	}
}

// Up reports whether sends should be attempted. Read by the control loop
// once per tick.
func (s *Supervisor) Up() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.down
}

// RecordSuccess resets the failure counter after a successful send.
func (s *Supervisor) RecordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = 0
	s.lastError = nil
}

// RecordFailure counts a failed send. When the consecutive-failure
// threshold is crossed it trips the link down, starts the backoff
// reconnection loop, and returns true.
func (s *Supervisor) RecordFailure(err error) (tripped bool) {
	now := time.Now()

	s.mu.Lock()
	s.failures++
	s.lastError = err
	s.lastErrTime = now
	failures := s.failures
	shouldTrip := !s.down && failures >= s.threshold
	if shouldTrip {
		s.down = true
		if !s.reconnecting {
			s.reconnecting = true
			go s.reconnectLoop()
		}
	}
	s.mu.Unlock()

	if suppressed, ok := s.throttle.Allow("send:"+err.Error(), now); ok {
		log.Warn("actuator send failed", "error", err, "consecutive", failures, "suppressed", suppressed)
	}

	if shouldTrip {
		log.Error("actuator link down, starting reconnection", "consecutive_failures", failures)
	}

	return shouldTrip
}

// State returns a snapshot of the link health.
func (s *Supervisor) State() ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs := ConnectionState{
		Connected:           !s.down,
		ConsecutiveFailures: s.failures,
		LastErrorTime:       s.lastErrTime,
	}
	if s.lastError != nil {
		cs.LastError = s.lastError.Error()
	}
	return cs
}

// Stop halts any in-progress reconnection loop.
func (s *Supervisor) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

// reconnectLoop retries the actuator link with exponential backoff until it
// succeeds or the supervisor is stopped.
func (s *Supervisor) reconnectLoop() {
	delay := s.start

	for {
		select {
		case <-s.stop:
			s.mu.Lock()
			s.reconnecting = false
			s.mu.Unlock()
			return
		case <-time.After(delay):
		}

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		err := s.sender.Reconnect(ctx)
		cancel()

		if err == nil {
			s.mu.Lock()
			s.down = false
			s.failures = 0
			s.lastError = nil
			s.reconnecting = false
			s.mu.Unlock()
			log.Info("actuator link restored")
			return
		}

		if suppressed, ok := s.throttle.Allow("reconnect:"+err.Error(), time.Now()); ok {
			log.Warn("reconnect attempt failed", "error", err, "next_delay", delay, "suppressed", suppressed)
		}

		delay *= 2
		if delay > s.cap {
			delay = s.cap
		}
	}
}
